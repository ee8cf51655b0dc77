package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type MemoryUsers struct {
	mu       sync.RWMutex
	byID     map[domain.UserID]*domain.User
	byName   map[string]domain.UserID
	byEmail  map[string]domain.UserID
	cost     int
	validate *validator.Validate
}

// NewMemoryUsers returns an in-process user store hashing with the given
// bcrypt cost (0 means bcrypt.DefaultCost).
func NewMemoryUsers(cost int) *MemoryUsers {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &MemoryUsers{
		byID:     make(map[domain.UserID]*domain.User),
		byName:   make(map[string]domain.UserID),
		byEmail:  make(map[string]domain.UserID),
		cost:     cost,
		validate: validator.New(),
	}
}

func (s *MemoryUsers) Create(_ context.Context, username, email, password string) (*domain.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: missing required fields", domain.ErrValidation)
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	email = strings.ToLower(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := domain.NewUser(username, email, string(hash))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[username]; ok {
		return nil, fmt.Errorf("%w: user with that username or email already exists", domain.ErrConflict)
	}
	if _, ok := s.byEmail[email]; ok {
		return nil, fmt.Errorf("%w: user with that username or email already exists", domain.ErrConflict)
	}
	s.byID[u.ID] = u
	s.byName[username] = u.ID
	s.byEmail[email] = u.ID
	return u, nil
}

func (s *MemoryUsers) Authenticate(_ context.Context, usernameOrEmail, password string) (*domain.User, error) {
	if usernameOrEmail == "" || password == "" {
		return nil, fmt.Errorf("%w: missing username/email or password", domain.ErrValidation)
	}
	s.mu.RLock()
	id, ok := s.byName[usernameOrEmail]
	if !ok {
		id, ok = s.byEmail[strings.ToLower(usernameOrEmail)]
	}
	u := s.byID[id]
	s.mu.RUnlock()

	if !ok || u == nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrAuthenticationInvalid)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrAuthenticationInvalid)
	}
	return u, nil
}

func (s *MemoryUsers) Get(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, id)
	}
	cp := *u
	return &cp, nil
}
