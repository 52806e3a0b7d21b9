package hapi

import (
	"context"
	"errors"
	"sync"
	"time"
)

type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
	IsFailure        func(error) bool
}

// CircuitBreakerGateway stops calling the API after repeated transport failures.
// It never retries; callers see ErrCircuitOpen while the circuit is open.
type CircuitBreakerGateway struct {
	next Gateway
	cfg  CircuitBreakerConfig

	mu           sync.Mutex
	state        int
	failures     int
	successes    int
	openedAt     time.Time
	halfInFlight bool
}

const (
	cbClosed = iota
	cbOpen
	cbHalfOpen
)

func isTransportFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if he, ok := AsError(err); ok {
		return he.Temporary()
	}
	return !errors.Is(err, ErrLinkNotFound) &&
		!errors.Is(err, ErrMalformedResource) &&
		!errors.Is(err, context.Canceled)
}

func NewCircuitBreakerGateway(next Gateway, cfg CircuitBreakerConfig) *CircuitBreakerGateway {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = isTransportFailure
	}
	return &CircuitBreakerGateway{next: next, cfg: cfg, state: cbClosed}
}

func (g *CircuitBreakerGateway) EntryPoint(ctx context.Context) (*Resource, error) {
	if err := g.beforeCall(); err != nil {
		return nil, err
	}
	res, err := g.next.EntryPoint(ctx)
	g.afterCall(err)
	return res, err
}

func (g *CircuitBreakerGateway) Follow(ctx context.Context, from *Resource, f Follow) (*Resource, error) {
	if err := g.beforeCall(); err != nil {
		return nil, err
	}
	res, err := g.next.Follow(ctx, from, f)
	g.afterCall(err)
	return res, err
}

// Open reports whether calls are currently being rejected.
func (g *CircuitBreakerGateway) Open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == cbOpen && time.Since(g.openedAt) < g.cfg.OpenTimeout
}

func (g *CircuitBreakerGateway) beforeCall() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case cbClosed:
		return nil
	case cbOpen:
		if time.Since(g.openedAt) < g.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		g.state = cbHalfOpen
		g.successes = 0
		g.halfInFlight = false
		fallthrough
	case cbHalfOpen:
		if g.halfInFlight {
			return ErrCircuitOpen
		}
		g.halfInFlight = true
		return nil
	default:
		return ErrCircuitOpen
	}
}

func (g *CircuitBreakerGateway) afterCall(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == cbHalfOpen {
		g.halfInFlight = false
	}

	if err == nil || !g.cfg.IsFailure(err) {
		switch g.state {
		case cbClosed:
			g.failures = 0
		case cbHalfOpen:
			g.successes++
			if g.successes >= g.cfg.SuccessThreshold {
				g.state = cbClosed
				g.failures = 0
				g.successes = 0
			}
		}
		return
	}

	switch g.state {
	case cbClosed:
		g.failures++
		if g.failures >= g.cfg.FailureThreshold {
			g.state = cbOpen
			g.openedAt = time.Now().UTC()
			g.successes = 0
		}
	case cbHalfOpen:
		g.state = cbOpen
		g.openedAt = time.Now().UTC()
		g.failures = g.cfg.FailureThreshold
		g.successes = 0
	}
}
