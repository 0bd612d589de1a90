package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter - token bucket по двум осям: запросы в минуту и символы контекста в час.
type RateLimiter struct {
	mu  sync.Mutex
	now func() time.Time

	requestsPerMinute int
	requestTokens     float64
	charsPerHour      int
	charBudget        float64
	lastCheck         time.Time
}

// NewRateLimiter создает лимитер; неположительные значения заменяются дефолтами.
func NewRateLimiter(requestsPerMinute, charsPerHour int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if charsPerHour <= 0 {
		charsPerHour = 360000 // ~90k токенов при 4 символах на токен
	}

	rl := &RateLimiter{
		now:               time.Now,
		requestsPerMinute: requestsPerMinute,
		requestTokens:     float64(requestsPerMinute),
		charsPerHour:      charsPerHour,
		charBudget:        float64(charsPerHour),
	}
	rl.lastCheck = rl.now()
	return rl
}

func (rl *RateLimiter) refill() {
	now := rl.now()
	elapsed := now.Sub(rl.lastCheck)
	rl.lastCheck = now

	rl.requestTokens = min(float64(rl.requestsPerMinute), rl.requestTokens+elapsed.Minutes()*float64(rl.requestsPerMinute))
	rl.charBudget = min(float64(rl.charsPerHour), rl.charBudget+elapsed.Hours()*float64(rl.charsPerHour))
}

// Allow списывает один запрос и chars символов либо возвращает ErrRateLimited без списания.
func (rl *RateLimiter) Allow(ctx context.Context, chars int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.requestTokens < 1 {
		return fmt.Errorf("%w (%d RPM), повторите через %v", ErrRateLimited, rl.requestsPerMinute, time.Minute/time.Duration(rl.requestsPerMinute))
	}
	if rl.charBudget < float64(chars) {
		return fmt.Errorf("%w: нужно %d символов, доступно %d из %d в час", ErrRateLimited, chars, int(rl.charBudget), rl.charsPerHour)
	}

	rl.requestTokens--
	rl.charBudget -= float64(chars)
	return nil
}

// Stats возвращает доступные запросы и символы.
func (rl *RateLimiter) Stats() (requests int, chars int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	return int(rl.requestTokens), int(rl.charBudget)
}
