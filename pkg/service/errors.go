package service

import (
	"errors"
	"fmt"
	"os"
)

// Kind classifies why a query produced no data.
type Kind string

const (
	KindInvalidParameter   Kind = "InvalidParameter"
	KindNotFound           Kind = "NotFound"
	KindStorageUnavailable Kind = "StorageUnavailable"
)

// Sentinels for errors.Is checks against an *Error's kind.
var (
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Error is the failure half of a service result.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidParameter:
		return e.Kind == KindInvalidParameter
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrStorageUnavailable:
		return e.Kind == KindStorageUnavailable
	}
	return false
}

func invalidParameter(field, format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidParameter,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

func unknownField(field, column string) *Error {
	return invalidParameter(field, "unknown filter field %q", column)
}

// loadError classifies a failure from a table source.
func loadError(dataset string, err error) *Error {
	if errors.Is(err, os.ErrNotExist) {
		return &Error{
			Kind:    KindNotFound,
			Field:   dataset,
			Message: fmt.Sprintf("dataset %s is not available", dataset),
			Err:     err,
		}
	}
	return &Error{
		Kind:    KindStorageUnavailable,
		Field:   dataset,
		Message: fmt.Sprintf("failed to load dataset %s", dataset),
		Err:     err,
	}
}
