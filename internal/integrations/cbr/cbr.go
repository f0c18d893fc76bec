package cbr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// CBRClient fetches the Central Bank key rate used as the base of loan pricing
type CBRClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time

	mu        sync.RWMutex
	rate      float64
	fetchedAt time.Time
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(url string, log *logrus.Logger) *CBRClient {
	return &CBRClient{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// buildSOAPRequest creates a SOAP request for the key rate over the last 30 days
func (c *CBRClient) buildSOAPRequest() string {
	now := c.now()
	fromDate := now.AddDate(0, 0, -30).Format("2006-01-02")
	toDate := now.Format("2006-01-02")
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<KeyRate xmlns="http://web.cbr.ru/">
					<fromDate>%s</fromDate>
					<ToDate>%s</ToDate>
				</KeyRate>
			</soap12:Body>
		</soap12:Envelope>`, fromDate, toDate)
}

// sendRequest sends SOAP request to CBR
func (c *CBRClient) sendRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("CBR XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse extracts the most recent key rate from the diffgram
func (c *CBRClient) parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	krElements := doc.FindElements("//diffgram/KeyRate/KR")
	if len(krElements) == 0 {
		return 0, fmt.Errorf("no key rate data found in XML")
	}

	// CBR lists the newest entry first
	rateElement := krElements[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, fmt.Errorf("rate element not found in XML")
	}

	rate, err := strconv.ParseFloat(strings.TrimSpace(rateElement.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate: %w", err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("implausible key rate %.2f", rate)
	}
	return rate, nil
}

// GetKeyRate retrieves the current key rate from CBR and remembers it
func (c *CBRClient) GetKeyRate(ctx context.Context) (float64, error) {
	body, err := c.sendRequest(ctx, c.buildSOAPRequest())
	if err != nil {
		return 0, err
	}

	rate, err := c.parseXMLResponse(body)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.rate = rate
	c.fetchedAt = c.now()
	c.mu.Unlock()

	c.log.Infof("Retrieved key rate: %.2f%%", rate)
	return rate, nil
}

// CachedKeyRate returns the last fetched rate if it is younger than maxAge
func (c *CBRClient) CachedKeyRate(maxAge time.Duration) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fetchedAt.IsZero() || c.now().Sub(c.fetchedAt) > maxAge {
		return 0, false
	}
	return c.rate, true
}
