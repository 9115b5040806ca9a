package errors

import (
	stdErrors "errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"not found", ErrNotFound},
		{"already exists", ErrAlreadyExists},
		{"conflict", ErrConflict},
		{"invalid credentials", ErrInvalidCredentials},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("end_date", "must be after start_date")
	if err.Error() != "invalid end_date: must be after start_date" {
		t.Fatalf("unexpected message: %s", err.Error())
	}

	var target *ValidationError
	if !stdErrors.As(error(err), &target) {
		t.Fatal("expected errors.As to match ValidationError")
	}
	if target.Field != "end_date" {
		t.Fatalf("unexpected field %q", target.Field)
	}
}

func TestReferentialIntegrityError(t *testing.T) {
	err := &ReferentialIntegrityError{Kind: "product", ID: 42}
	if err.Error() != "product 42 no longer exists" {
		t.Fatalf("unexpected message: %s", err.Error())
	}

	var target *ReferentialIntegrityError
	if !stdErrors.As(error(err), &target) {
		t.Fatal("expected errors.As to match ReferentialIntegrityError")
	}
}
