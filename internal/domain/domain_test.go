package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", UnknownUsername},
		{"   ", UnknownUsername},
		{"alice", "alice"},
		{" bob ", "bob"},
		{strings.Repeat("x", MaxUsernameLen+5), strings.Repeat("x", MaxUsernameLen)},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.in); got != tt.want {
			t.Errorf("DisplayName(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewUser_RejectsBadUsername(t *testing.T) {
	if _, err := NewUser("", "a@b.c", "h"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v, want ErrValidation", err)
	}
	if _, err := NewUser(strings.Repeat("x", MaxUsernameLen+1), "a@b.c", "h"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err=%v, want ErrValidation", err)
	}
	u, err := NewUser("alice", "a@b.c", "h")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	if u.ID == "" || u.CreatedAt.IsZero() {
		t.Fatalf("user not initialised: %+v", u)
	}
}

func TestReason(t *testing.T) {
	wrapped := fmt.Errorf("lookup room: %w", ErrNotFound)
	if got := Reason(wrapped); got != "not_found" {
		t.Fatalf("Reason=%q, want not_found", got)
	}
	if got := Reason(errors.New("boom")); got != "internal_error" {
		t.Fatalf("Reason=%q, want internal_error", got)
	}
}
