package narrative

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cashflow-service/internal/metrics"
)

// ErrUnavailable is returned when no provider produced text.
var ErrUnavailable = errors.New("narrative: no provider available")

// Request is one narrative generation call.
type Request struct {
	Prompt   string
	Task     string
	Language string
}

// Provider generates free text for a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, system, prompt string) (string, error)
	// Ping reports whether the provider is reachable.
	Ping(ctx context.Context) error
}

// Narrator produces replacement summaries for computed results. Callers keep their own text when
// Narrate fails.
type Narrator interface {
	Narrate(ctx context.Context, req Request) (string, error)
	Status(ctx context.Context) map[string]string
}

// Chain asks each provider in order and returns the first non-empty answer.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	log       *logrus.Logger
}

// NewChain builds a narrator over providers. Nil providers are skipped.
func NewChain(log *logrus.Logger, timeout time.Duration, providers ...Provider) *Chain {
	c := &Chain{timeout: timeout, log: log}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

func (c *Chain) Narrate(ctx context.Context, req Request) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrUnavailable
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	system := SystemPrompt(req.Language, req.Task)
	var errs []error
	for _, p := range c.providers {
		start := time.Now()
		text, err := p.Generate(ctx, system, req.Prompt)
		if err == nil && text == "" {
			err = fmt.Errorf("%s returned empty text", p.Name())
		}
		metrics.ObserveNarrative(p.Name(), err, time.Since(start))
		if err == nil {
			return text, nil
		}

		c.log.WithFields(logrus.Fields{"provider": p.Name(), "error": err}).Warn("Narrative provider failed")
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

// Status pings every provider and reports "connected" or "offline" per provider name.
func (c *Chain) Status(ctx context.Context) map[string]string {
	out := make(map[string]string, len(c.providers))
	for _, p := range c.providers {
		status := "connected"
		if err := p.Ping(ctx); err != nil {
			status = "offline"
		}
		out[p.Name()] = status
	}
	return out
}

// Disabled never produces text.
type Disabled struct{}

func (Disabled) Narrate(context.Context, Request) (string, error) { return "", ErrUnavailable }
func (Disabled) Status(context.Context) map[string]string         { return map[string]string{} }
