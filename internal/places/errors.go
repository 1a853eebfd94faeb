package places

import (
	"fmt"

	"github.com/ggorockee/localdirectory/internal/resilience"
)

// 업스트림 에러 코드
const (
	CodeQuotaExceeded = resilience.CodeQuotaExceeded
	CodeNetwork       = resilience.CodeNetwork
	CodeHTTP          = "PLACES_API_HTTP_ERROR"
	CodeStatus        = "PLACES_API_STATUS_ERROR"
)

// Error is an upstream failure. Quota and network errors, and HTTP 5xx
// responses, are retryable; everything else is fatal.
type Error struct {
	Kind       string
	Status     string
	HTTPStatus int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("places api %s", e.Kind)
	if e.Status != "" {
		msg += " status=" + e.Status
	}
	if e.HTTPStatus != 0 {
		msg += fmt.Sprintf(" http=%d", e.HTTPStatus)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Code 재시도 판단용 에러 코드
func (e *Error) Code() string { return e.Kind }

// StatusCode HTTP 상태 코드 (없으면 0)
func (e *Error) StatusCode() int { return e.HTTPStatus }

// Retryable reports whether the default retry policy would retry e.
func (e *Error) Retryable() bool {
	return resilience.DefaultShouldRetry(e)
}

func statusError(resp *RawResponse) *Error {
	if resp.Status == StatusOverQueryLimit {
		return &Error{Kind: CodeQuotaExceeded, Status: resp.Status, Message: resp.ErrorMessage}
	}
	return &Error{Kind: CodeStatus, Status: resp.Status, Message: resp.ErrorMessage}
}
