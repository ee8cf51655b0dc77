package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/google/uuid"
)

const MaxRoomNameLen = 64

type MemoryRooms struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]domain.Room
	now   func() time.Time
}

func NewMemoryRooms() *MemoryRooms {
	return &MemoryRooms{
		rooms: make(map[domain.RoomID]domain.Room),
		now:   time.Now,
	}
}

func (s *MemoryRooms) Create(_ context.Context, name domain.RoomName, owner domain.UserID) (*domain.Room, error) {
	if strings.TrimSpace(string(name)) == "" {
		return nil, fmt.Errorf("%w: room name is required", domain.ErrValidation)
	}
	if len(name) > MaxRoomNameLen {
		return nil, fmt.Errorf("%w: room name too long", domain.ErrValidation)
	}
	r := domain.Room{
		ID:        domain.RoomID(uuid.NewString()),
		Name:      name,
		OwnerID:   owner,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.rooms[r.ID] = r
	s.mu.Unlock()
	return &r, nil
}

func (s *MemoryRooms) Get(_ context.Context, id domain.RoomID) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: room %s", domain.ErrNotFound, id)
	}
	return &r, nil
}

func (s *MemoryRooms) ListByOwner(_ context.Context, owner domain.UserID) ([]domain.Room, error) {
	return s.filter(func(r domain.Room) bool { return r.OwnerID == owner }), nil
}

func (s *MemoryRooms) List(_ context.Context) ([]domain.Room, error) {
	return s.filter(func(domain.Room) bool { return true }), nil
}

func (s *MemoryRooms) filter(keep func(domain.Room) bool) []domain.Room {
	s.mu.RLock()
	out := make([]domain.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if keep(r) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
