// Package store keeps user accounts and room metadata. The relay never reads
// it: live membership is tracked by app.Directory, this is only what the REST
// surface creates and lists.
package store

import (
	"context"

	"github.com/dkeye/Huddle/internal/domain"
)

type Users interface {
	Create(ctx context.Context, username, email, password string) (*domain.User, error)
	// Authenticate checks password for the user with this username or email.
	Authenticate(ctx context.Context, usernameOrEmail, password string) (*domain.User, error)
	Get(ctx context.Context, id domain.UserID) (*domain.User, error)
}

type Rooms interface {
	Create(ctx context.Context, name domain.RoomName, owner domain.UserID) (*domain.Room, error)
	Get(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
}
