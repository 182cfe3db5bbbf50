package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := ValidateEmail("USER@example.com"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}

	if err := ValidateEmail("invalid-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("StrongPass1"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}

	if err := ValidatePassword("short1A"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for short password, got %v", err)
	}

	if err := ValidatePassword(strings.Repeat("Aa1", 30)); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for overly long password, got %v", err)
	}

	if err := ValidatePassword("alllowercase1"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for missing upper case, got %v", err)
	}

	if err := ValidatePassword("NoDigitsHere"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for missing digits, got %v", err)
	}
}

func TestValidateDay(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"2024-02-29", "2023-12-31"} {
		if err := ValidateDay(ok); err != nil {
			t.Fatalf("expected %q to be valid, got %v", ok, err)
		}
	}

	for _, bad := range []string{"", "2023-02-29", "31/12/2023", "2024-1-5"} {
		if err := ValidateDay(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate for %q, got %v", bad, err)
		}
	}
}

func TestValidateDateRange(t *testing.T) {
	t.Parallel()

	if err := ValidateDateRange("", ""); err != nil {
		t.Fatalf("expected open range to be valid, got %v", err)
	}

	if err := ValidateDateRange("2024-03-10", "2024-03-01"); err != nil {
		t.Fatalf("expected inverted range to be accepted, got %v", err)
	}

	err := ValidateDateRange("2024-03-01", "tomorrow")
	if !errors.Is(err, ErrInvalidDateRange) || !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected wrapped range and date errors, got %v", err)
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit, want int
	}{
		{0, 50},
		{-3, 50},
		{20, 20},
		{5000, 300},
	}

	for _, tt := range tests {
		if got := ClampLimit(tt.limit, 50, 300); got != tt.want {
			t.Fatalf("ClampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
		}
	}
}
