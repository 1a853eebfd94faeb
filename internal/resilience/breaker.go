package resilience

import (
	"context"
	"sync"
	"time"
)

// State 회로 상태
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// BreakerConfig 회로 차단기 설정
type BreakerConfig struct {
	Threshold    int
	ResetTimeout time.Duration
	Now          func() time.Time
}

type circuit struct {
	state       State
	failures    int
	lastFailure time.Time
	probing     bool
}

// CircuitBreaker keeps one circuit per operation key. State lives in process
// memory only; separate instances of the service do not share it.
type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	circuits map[string]*circuit
}

// NewCircuitBreaker 기본값: threshold 5, reset 60초
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 60 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &CircuitBreaker{
		cfg:      cfg,
		circuits: make(map[string]*circuit),
	}
}

func (b *CircuitBreaker) get(key string) *circuit {
	c, ok := b.circuits[key]
	if !ok {
		c = &circuit{}
		b.circuits[key] = c
	}
	return c
}

// acquire decides whether a call may proceed. In half-open only one trial
// call is admitted at a time.
func (b *CircuitBreaker) acquire(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.get(key)
	switch c.state {
	case StateOpen:
		if b.cfg.Now().Sub(c.lastFailure) < b.cfg.ResetTimeout {
			return ErrCircuitOpen
		}
		c.state = StateHalfOpen
		c.probing = true
		return nil
	case StateHalfOpen:
		if c.probing {
			return ErrCircuitOpen
		}
		c.probing = true
		return nil
	}
	return nil
}

func (b *CircuitBreaker) record(key string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.get(key)
	c.probing = false
	if err == nil {
		c.state = StateClosed
		c.failures = 0
		return
	}

	c.failures++
	c.lastFailure = b.cfg.Now()
	if c.state == StateHalfOpen || c.failures >= b.cfg.Threshold {
		c.state = StateOpen
	}
}

// State reports the current state for key without changing it.
func (b *CircuitBreaker) State(key string) State {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.circuits[key]
	if !ok {
		return StateClosed
	}
	if c.state == StateOpen && b.cfg.Now().Sub(c.lastFailure) >= b.cfg.ResetTimeout {
		return StateHalfOpen
	}
	return c.state
}

// Failures 연속 실패 횟수
func (b *CircuitBreaker) Failures(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.circuits[key]; ok {
		return c.failures
	}
	return 0
}

// Execute runs op through the circuit identified by key.
func Execute[T any](ctx context.Context, b *CircuitBreaker, key string, op func(context.Context) (T, error)) (T, error) {
	if err := b.acquire(key); err != nil {
		var zero T
		return zero, err
	}

	result, err := op(ctx)
	b.record(key, err)
	return result, err
}
