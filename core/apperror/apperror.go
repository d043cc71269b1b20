// Package apperror holds the typed errors shared by the inventory and sales services.
//
// Each type matches its kind sentinel through errors.Is, so callers can branch on
// either the sentinel or the concrete type:
//
//	if errors.Is(err, apperror.ErrNotFound) { ... }
//	var inv *apperror.InvalidStateError
//	if errors.As(err, &inv) { ... }
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrEmptyInput   = errors.New("empty input")
	// ErrConflict is returned by stores when a unique key is already taken by a
	// concurrent writer. It is not a row-level error on its own.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports malformed input rejected before any write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a sku or order id absent from its store.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidStateError reports a mutation that would break the non-negative quantity rule.
type InvalidStateError struct {
	SKU       string
	Current   int64
	Requested int64
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("sku=%s: delta %d would leave quantity %d below zero", e.SKU, e.Requested, e.Current+e.Requested)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// EmptyInputError reports an aggregation over zero records.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return e.Op + ": empty input"
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func NotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// IsDomain reports whether err is one of the row-recoverable kinds.
func IsDomain(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrEmptyInput)
}
