package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendRiskAlert notifies the alert mailbox that a business landed in the critical risk tier
func (s *Sender) SendRiskAlert(req *models.RiskRequest, bundle *models.RiskBundle) error {
	if !s.cfg.AlertsEnabled() {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.AlertEmail}
	e.Subject = fmt.Sprintf("Critical risk: %s (score %d/100)", req.BusinessName, bundle.RiskScore)

	var body strings.Builder
	fmt.Fprintf(&body, "Business: %s\n", req.BusinessName)
	if req.IndustryType != "" {
		fmt.Fprintf(&body, "Industry: %s\n", req.IndustryType)
	}
	fmt.Fprintf(&body, "Overall risk: %s\nUrgency: %s\nAssessed at: %s\n\n",
		bundle.OverallRisk, bundle.UrgencyLevel, bundle.AnalysisTimestamp.Format(time.RFC3339))

	body.WriteString("Risk factors:\n")
	for _, f := range bundle.RiskFactors {
		fmt.Fprintf(&body, "  - [%s] %s: %s\n", f.Severity, f.Factor, f.Description)
	}
	body.WriteString("\nMitigation steps:\n")
	for _, step := range bundle.MitigationSteps {
		fmt.Fprintf(&body, "  - %s\n", step)
	}
	body.WriteString("\nCash Flow Service")
	e.Text = []byte(body.String())

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send risk alert for %s: %v", req.BusinessName, err)
		return fmt.Errorf("failed to send risk alert: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.AlertEmail, e.Subject)
	return nil
}
