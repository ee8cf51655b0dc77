// Package domain contains entity without logic, just meta-data
package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxUserIDLen   = 36
	MaxUsernameLen = 36

	// UnknownUsername is shown for clients that never told us their name.
	UnknownUsername = "Unknown"
	// SystemSender signs notices produced by the relay itself.
	SystemSender = "System"
)

type UserID string

type User struct {
	ID           UserID    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(username, email, passwordHash string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	return &User{
		ID:           UserID(uuid.NewString()),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username empty", ErrValidation)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return fmt.Errorf("%w: username too long", ErrValidation)
	}
	return nil
}

// DisplayName returns the client-supplied name or UnknownUsername.
// It is best-effort and never authenticated.
func DisplayName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownUsername
	}
	if r := []rune(raw); len(r) > MaxUsernameLen {
		return string(r[:MaxUsernameLen])
	}
	return raw
}

// Identity is what a validated bearer token asserts.
type Identity struct {
	UserID UserID `json:"user_id"`
}

func (i Identity) IsZero() bool { return i.UserID == "" }
