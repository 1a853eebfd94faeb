package resilience

import (
	"errors"
)

var (
	// ErrTimeout 제한 시간 초과
	ErrTimeout = errors.New("operation timed out")
	// ErrCircuitOpen 회로 차단기가 열려 있어 호출이 즉시 거부됨
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrBoundaryTripped 최근 실패가 임계치를 넘어 fallback으로 대체됨
	ErrBoundaryTripped = errors.New("error boundary tripped")
)

// 일시적 오류로 취급하는 에러 코드
const (
	CodeQuotaExceeded   = "QUOTA_EXCEEDED"
	CodeNetwork         = "NETWORK_ERROR"
	CodeStoreConnection = "STORE_CONNECTION_ERROR"
)

// TransientCodes DefaultShouldRetry가 재시도하는 코드 목록
var TransientCodes = map[string]struct{}{
	CodeQuotaExceeded:   {},
	CodeNetwork:         {},
	CodeStoreConnection: {},
}

type coder interface {
	Code() string
}

type statusCoder interface {
	StatusCode() int
}

// DefaultShouldRetry retries timeouts, errors carrying a transient code and
// errors reporting a 5xx status.
func DefaultShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}

	var c coder
	if errors.As(err, &c) {
		if _, ok := TransientCodes[c.Code()]; ok {
			return true
		}
	}

	var s statusCoder
	if errors.As(err, &s) {
		code := s.StatusCode()
		return code >= 500 && code < 600
	}
	return false
}
