package aws

import (
	"context"
	"math"
	"sync"
	"time"

	"cloudpwn/internal/config"
	"cloudpwn/internal/logging"
)

// backoffReset is how long after the last failure the backoff is forgotten
const backoffReset = 5 * time.Minute

// RateLimiter paces enumeration routines with a token bucket and applies
// exponential backoff after throttled calls. A nil *RateLimiter never waits.
type RateLimiter struct {
	tokens    chan struct{}
	interval  time.Duration
	baseDelay time.Duration
	maxDelay  time.Duration
	done      chan struct{}
	stopOnce  sync.Once

	mu           sync.RWMutex
	failureCount int
	lastFailure  time.Time
}

// NewRateLimiter creates a rate limiter from cfg. It returns nil when the
// configured rate is zero, which disables pacing.
func NewRateLimiter(cfg config.RateLimit) *RateLimiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}

	tokenCount := int(math.Ceil(cfg.RequestsPerSecond))
	rl := &RateLimiter{
		tokens:    make(chan struct{}, tokenCount),
		interval:  time.Duration(float64(time.Second) / cfg.RequestsPerSecond),
		baseDelay: cfg.BaseDelay,
		maxDelay:  cfg.MaxDelay,
		done:      make(chan struct{}),
	}

	for i := 0; i < tokenCount; i++ {
		rl.tokens <- struct{}{}
	}

	go rl.replenish()

	return rl
}

func (rl *RateLimiter) replenish() {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			select {
			case rl.tokens <- struct{}{}:
			default:
				// bucket full
			}
		}
	}
}

// Stop releases the replenishment goroutine
func (rl *RateLimiter) Stop() {
	if rl == nil {
		return
	}
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) currentBackoff() time.Duration {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	if rl.failureCount == 0 || time.Since(rl.lastFailure) > backoffReset {
		return 0
	}

	backoff := float64(rl.baseDelay) * math.Pow(2, float64(rl.failureCount-1))
	if backoff > float64(rl.maxDelay) {
		backoff = float64(rl.maxDelay)
	}
	return time.Duration(backoff)
}

// Wait blocks until a token is available, applying backoff first if needed
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return ctx.Err()
	}

	if backoff := rl.currentBackoff(); backoff > 0 {
		logging.Debug("Rate limiter applying backoff", map[string]interface{}{
			"backoff_ms": backoff.Milliseconds(),
		})
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-rl.tokens:
		return nil
	}
}

// OnSuccess resets the backoff
func (rl *RateLimiter) OnSuccess() {
	if rl == nil {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.failureCount > 0 {
		logging.Debug("Rate limiter resetting backoff after success", map[string]interface{}{
			"previous_failure_count": rl.failureCount,
		})
		rl.failureCount = 0
		rl.lastFailure = time.Time{}
	}
}

// OnFailure records a throttled call and grows the backoff
func (rl *RateLimiter) OnFailure() {
	if rl == nil {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.failureCount++
	rl.lastFailure = time.Now()

	logging.Debug("Rate limiter recorded throttling", map[string]interface{}{
		"failure_count": rl.failureCount,
	})
}

// Observe feeds a routine result back into the limiter
func (rl *RateLimiter) Observe(r Result) {
	if r.Kind == ResultFailed && r.Failure != nil && r.Failure.Kind == FailureThrottled {
		rl.OnFailure()
		return
	}
	rl.OnSuccess()
}

// RateLimiters hands out one limiter per region
type RateLimiters struct {
	cfg      config.RateLimit
	limiters sync.Map
}

// NewRateLimiters creates an empty per-region limiter set
func NewRateLimiters(cfg config.RateLimit) *RateLimiters {
	return &RateLimiters{cfg: cfg}
}

// For gets or creates the limiter of a region. It returns nil when pacing is disabled.
func (r *RateLimiters) For(region string) *RateLimiter {
	if r == nil || r.cfg.RequestsPerSecond <= 0 {
		return nil
	}
	if limiter, ok := r.limiters.Load(region); ok {
		return limiter.(*RateLimiter)
	}

	limiter := NewRateLimiter(r.cfg)
	actual, loaded := r.limiters.LoadOrStore(region, limiter)
	if loaded {
		limiter.Stop()
	}
	return actual.(*RateLimiter)
}

// Stop stops every limiter handed out so far
func (r *RateLimiters) Stop() {
	if r == nil {
		return
	}
	r.limiters.Range(func(_, v interface{}) bool {
		v.(*RateLimiter).Stop()
		return true
	})
}
