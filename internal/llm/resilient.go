package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// Resilient повторяет временные ошибки с экспоненциальной задержкой и не
// пускает запросы к модели, пока открыт circuit breaker.
type Resilient struct {
	next       Generator
	breaker    *CircuitBreaker
	maxRetries int
	baseDelay  time.Duration
	log        *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewResilient(next Generator, log *zap.Logger) *Resilient {
	return NewResilientWithPolicy(next, NewCircuitBreaker(5, 30*time.Second), 3, time.Second, log)
}

func NewResilientWithPolicy(next Generator, breaker *CircuitBreaker, maxRetries int, baseDelay time.Duration, log *zap.Logger) *Resilient {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resilient{
		next:       next,
		breaker:    breaker,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		log:        log,
		sleep:      sleepContext,
	}
}

func (r *Resilient) Generate(ctx context.Context, instructions, inputText string) (*Result, error) {
	var (
		res     *Result
		lastErr error
	)

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.baseDelay << (attempt - 1)
			if delay > maxBackoff {
				delay = maxBackoff
			}
			r.log.Debug("Повтор запроса к модели", zap.Int("attempt", attempt+1), zap.Duration("delay", delay))
			if err := r.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		lastErr = r.breaker.Call(func() error {
			var err error
			res, err = r.next.Generate(ctx, instructions, inputText)
			return err
		})
		if lastErr == nil {
			return res, nil
		}
		if !isRetryable(lastErr) {
			return nil, lastErr
		}
	}

	r.log.Warn("Запрос к модели не удался после повторов",
		zap.Int("attempts", r.maxRetries),
		zap.Stringer("breaker", r.breaker.State()),
		zap.Error(lastErr),
	)
	return nil, fmt.Errorf("попытки исчерпаны (%d): %w", r.maxRetries, lastErr)
}

// isRetryable: сетевые ошибки, 429 и 5xx от API.
func isRetryable(err error) bool {
	if IsNetwork(err) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
