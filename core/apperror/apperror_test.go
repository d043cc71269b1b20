package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKinds_MatchSentinels(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{Validation("units", "must be positive"), ErrValidation},
		{NotFound("stock record", "A1"), ErrNotFound},
		{&InvalidStateError{SKU: "A1", Current: 1, Requested: -2}, ErrInvalidState},
		{&EmptyInputError{Op: "aggregate"}, ErrEmptyInput},
	}
	for _, c := range cases {
		wrapped := fmt.Errorf("outer: %w", c.err)
		if !errors.Is(wrapped, c.kind) {
			t.Errorf("%v: errors.Is(%v) = false", c.err, c.kind)
		}
		if !IsDomain(wrapped) {
			t.Errorf("%v: IsDomain = false", c.err)
		}
	}
}

func TestIsDomain_Other(t *testing.T) {
	if IsDomain(errors.New("connection refused")) {
		t.Error("plain error should not be a domain error")
	}
}

func TestInvalidStateError_Message(t *testing.T) {
	err := &InvalidStateError{SKU: "A1", Current: 3, Requested: -4}
	want := "sku=A1: delta -4 would leave quantity -1 below zero"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	var target *InvalidStateError
	if !errors.As(fmt.Errorf("x: %w", err), &target) || target.Current != 3 {
		t.Error("errors.As should recover the InvalidStateError")
	}
}
