package jobs

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dan9191/cashflow-service/internal/ratelimit"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSize int

func (f fixedSize) Len() int { return int(f) }

type countingRates struct {
	calls atomic.Int32
	err   error
}

func (c *countingRates) GetKeyRate(context.Context) (float64, error) {
	c.calls.Add(1)
	return 16, c.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSweepCallers(t *testing.T) {
	limiter := ratelimit.NewRegistry(1, 1)
	limiter.Allow("a")
	limiter.Allow("b")

	s := NewScheduler(limiter, fixedSize(0), nil, 0, quietLogger())
	time.Sleep(time.Millisecond)
	s.sweepCallers()
	assert.Equal(t, 0, limiter.Len())
}

func TestStartAndStop(t *testing.T) {
	rates := &countingRates{err: errors.New("cbr down")}
	s := NewScheduler(ratelimit.NewRegistry(1, 1), fixedSize(3), rates, time.Minute, quietLogger())

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 3)
	assert.Eventually(t, func() bool { return rates.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.publishCacheStats()
	s.Stop()
}

func TestStartWithoutRates(t *testing.T) {
	s := NewScheduler(ratelimit.NewRegistry(1, 1), fixedSize(0), nil, time.Minute, quietLogger())
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 2)
	s.Stop()
}
