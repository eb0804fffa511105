package usecase

import (
	"errors"
	"fmt"
)

// HTTPError はusecaseの失敗をhandlerのstatus/messageに対応づける。
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ValidationError は欠けている/不正なフィールドを列挙して400で返す。
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %v", e.Missing)
}

func NewValidationError(missing []string) error {
	return &ValidationError{Missing: missing}
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
