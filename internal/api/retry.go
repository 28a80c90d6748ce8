package api

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	DefaultServerRetries    = 1
	DefaultRetryDelay       = time.Second
	DefaultBreakerThreshold = 5
	DefaultBreakerCooldown  = 30 * time.Second
)

// RetryConfig tunes how the client reacts to 5xx responses. Only GETs are
// repeated; every request counts toward the breaker.
type RetryConfig struct {
	// ServerRetries is how many times a GET answered with 5xx is resent.
	ServerRetries int
	RetryDelay    time.Duration
	// BreakerThreshold consecutive 5xx responses stop further requests
	// for BreakerCooldown.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// DefaultRetryConfig applies SW_MAX_5XX_RETRIES, SW_RETRY_DELAY,
// SW_BREAKER_THRESHOLD and SW_BREAKER_COOLDOWN over the defaults. Invalid
// or negative values are ignored.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		ServerRetries:    envOr("SW_MAX_5XX_RETRIES", DefaultServerRetries, strconv.Atoi),
		RetryDelay:       envOr("SW_RETRY_DELAY", DefaultRetryDelay, time.ParseDuration),
		BreakerThreshold: envOr("SW_BREAKER_THRESHOLD", DefaultBreakerThreshold, strconv.Atoi),
		BreakerCooldown:  envOr("SW_BREAKER_COOLDOWN", DefaultBreakerCooldown, time.ParseDuration),
	}
}

func envOr[T int | time.Duration](key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	// breakerProbing has one request in flight after the cooldown; its
	// outcome closes or reopens the breaker and everything else is refused
	// until then.
	breakerProbing
)

// circuitBreaker refuses requests once the server keeps failing. The zero
// value uses the default threshold and cooldown.
type circuitBreaker struct {
	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time

	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

func newCircuitBreaker(cfg RetryConfig) *circuitBreaker {
	return &circuitBreaker{threshold: cfg.BreakerThreshold, cooldown: cfg.BreakerCooldown}
}

func (cb *circuitBreaker) configure(cfg RetryConfig) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.threshold = cfg.BreakerThreshold
	cb.cooldown = cfg.BreakerCooldown
}

func (cb *circuitBreaker) clock() time.Time {
	if cb.now == nil {
		return time.Now()
	}
	return cb.now()
}

// allow reports whether a request may be sent now. Once the cooldown is
// over the first caller becomes the probe.
func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case breakerClosed:
		return true
	case breakerProbing:
		return false
	}
	cooldown := cb.cooldown
	if cooldown <= 0 {
		cooldown = DefaultBreakerCooldown
	}
	if cb.clock().Sub(cb.openedAt) < cooldown {
		return false
	}
	cb.state = breakerProbing
	return true
}

// succeeded records a response below 500. The server is answering, so
// the failure streak ends and a probe closes the breaker.
func (cb *circuitBreaker) succeeded() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = breakerClosed
	cb.failures = 0
}

// failed records a 5xx and reports whether the breaker is now open.
func (cb *circuitBreaker) failed() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++

	threshold := cb.threshold
	if threshold <= 0 {
		threshold = DefaultBreakerThreshold
	}
	if cb.state == breakerProbing || (cb.state == breakerClosed && cb.failures >= threshold) {
		cb.open()
		return true
	}
	return cb.state == breakerOpen
}

// aborted records a request that got no response. Outside a probe it
// leaves the streak as it is; a probe without an answer reopens.
func (cb *circuitBreaker) aborted() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == breakerProbing {
		cb.open()
	}
}

func (cb *circuitBreaker) open() {
	cb.state = breakerOpen
	cb.openedAt = cb.clock()
}

func (cb *circuitBreaker) reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = breakerClosed
	cb.failures = 0
	cb.openedAt = time.Time{}
}

// sleepCtx waits for d unless ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
