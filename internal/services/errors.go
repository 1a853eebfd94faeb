package services

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationError 필드별 입력 검증 실패
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// asValidationError converts ozzo field errors. Anything else (an internal
// rule error) is returned unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for field, fe := range fieldErrs {
		out.Fields[field] = fe.Error()
	}
	return out
}
