package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// 카운터 범위
const (
	ScopeGlobal = "global"
	ScopeIP     = "ip"

	GlobalKey = "global_daily"
)

// Rule fixed-window 한도
type Rule struct {
	Max    int64
	Window time.Duration
}

// Config Limiter 설정
type Config struct {
	Global Rule
	IP     Rule
}

// DefaultConfig 전역 2500회/24시간, IP별 100회/1시간
func DefaultConfig() Config {
	return Config{
		Global: Rule{Max: 2500, Window: 24 * time.Hour},
		IP:     Rule{Max: 100, Window: time.Hour},
	}
}

// Store increments the counter for key and returns the post-increment count
// and the end of the current window. A counter whose window has ended starts
// over at 1 with a fresh window.
type Store interface {
	Increment(ctx context.Context, key, scope string, window time.Duration) (int64, time.Time, error)
}

// Usage 한 범위의 현재 사용량
type Usage struct {
	Count     int64     `json:"count"`
	Limit     int64     `json:"limit"`
	Remaining int64     `json:"remaining"`
	ResetAt   time.Time `json:"resetAt"`
}

// Decision 요청 허용 여부
type Decision struct {
	Allowed bool  `json:"allowed"`
	Global  Usage `json:"global"`
	IP      Usage `json:"ip"`
}

// Limiter applies a global window and a per-IP window. Every check counts
// against both, including rejected ones.
type Limiter struct {
	store Store
	cfg   Config
}

func New(store Store, cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.Global.Max <= 0 || cfg.Global.Window <= 0 {
		cfg.Global = def.Global
	}
	if cfg.IP.Max <= 0 || cfg.IP.Window <= 0 {
		cfg.IP = def.IP
	}
	return &Limiter{store: store, cfg: cfg}
}

// Check 전역/IP 카운터 증가 후 허용 여부 판단
func (l *Limiter) Check(ctx context.Context, ip string) (*Decision, error) {
	global, err := l.count(ctx, GlobalKey, ScopeGlobal, l.cfg.Global)
	if err != nil {
		return nil, err
	}
	perIP, err := l.count(ctx, "ip_"+ip, ScopeIP, l.cfg.IP)
	if err != nil {
		return nil, err
	}

	return &Decision{
		Allowed: global.Count <= global.Limit && perIP.Count <= perIP.Limit,
		Global:  global,
		IP:      perIP,
	}, nil
}

func (l *Limiter) count(ctx context.Context, key, scope string, rule Rule) (Usage, error) {
	n, resetAt, err := l.store.Increment(ctx, key, scope, rule.Window)
	if err != nil {
		return Usage{}, fmt.Errorf("rate limit %s: %w", scope, err)
	}
	remaining := rule.Max - n
	if remaining < 0 {
		remaining = 0
	}
	return Usage{Count: n, Limit: rule.Max, Remaining: remaining, ResetAt: resetAt}, nil
}
