package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error codes surfaced to callers.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeInvalidValue = "INVALID_VALUE"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports every failing field at once. fields maps field name to message.
func NewValidationError(message string, fields map[string]string) error {
	details := map[string]any{}
	if len(fields) > 0 {
		copied := make(map[string]string, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		details["fields"] = copied
	}
	if message == "" {
		message = "validation failed: " + strings.Join(sortedKeys(fields), ", ")
	}
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewInvalidValue reports a value outside its enumerated set.
func NewInvalidValue(field, value string, allowed []string) error {
	return NewDomainError(CodeInvalidValue,
		fmt.Sprintf("invalid %s %q", field, value),
		http.StatusBadRequest,
		map[string]any{
			"field":   field,
			"value":   value,
			"allowed": allowed,
		})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}

func IsValidation(err error) bool   { return HasCode(err, CodeValidation) }
func IsInvalidValue(err error) bool { return HasCode(err, CodeInvalidValue) }
func IsNotFound(err error) bool     { return HasCode(err, CodeNotFound) }
func IsConflict(err error) bool     { return HasCode(err, CodeConflict) }

// FieldErrors extracts the field map of a validation error.
func FieldErrors(err error) map[string]string {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Details == nil {
		return nil
	}
	fields, _ := domainErr.Details["fields"].(map[string]string)
	return fields
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
