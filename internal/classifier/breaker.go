package classifier

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"casedocs/internal/config"
)

// Breaker wraps a Classifier with a circuit breaker so a down classification
// service fails fast instead of stacking up timed-out requests. Open-circuit
// rejections surface as *Error like any other classification failure, so
// callers treat them uniformly. Context cancellation is not counted as a
// service failure.
type Breaker struct {
	next Classifier
	cb   *gobreaker.CircuitBreaker[*Result]
}

var _ Classifier = (*Breaker)(nil)

// NewBreaker decorates next with a circuit breaker configured from cfg.
func NewBreaker(next Classifier, cfg config.ClassifierConfig) *Breaker {
	maxFailures := uint32(cfg.BreakerMaxFailures)
	if maxFailures == 0 {
		maxFailures = 5
	}
	settings := gobreaker.Settings{
		Name:    "classifier",
		Timeout: time.Duration(cfg.BreakerOpenTimeoutS) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// The caller giving up must not trip the breaker.
			return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	}
	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*Result](settings),
	}
}

func (b *Breaker) Classify(ctx context.Context, name, format string, content []byte) (*Result, error) {
	res, err := b.cb.Execute(func() (*Result, error) {
		return b.next.Classify(ctx, name, format, content)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, newError("classifier circuit open", err)
		}
		return nil, err
	}
	return res, nil
}
