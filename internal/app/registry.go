package app

import (
	"context"
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	Conn     core.SignalConnection
	Identity domain.Identity
	Rooms    map[domain.RoomID]struct{}
	Cancel   context.CancelFunc
}

// Registry is the source of truth for live connections and the rooms each
// of them believes it is in. It implements core.MembershipTracker.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[core.ConnID]*connEntry),
	}
}

// Register allocates a fresh connection id for conn.
func (r *Registry) Register(conn core.SignalConnection, cancel context.CancelFunc) core.ConnID {
	id := core.ConnID(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{
		Conn:   conn,
		Rooms:  make(map[domain.RoomID]struct{}),
		Cancel: cancel,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Int("total", len(r.conns)).Msg("registered connection")
	return id
}

// Deregister drops the record and returns the rooms it was in.
// Unknown ids are a no-op: disconnects may race with other cleanup.
func (r *Registry) Deregister(id core.ConnID) []domain.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return nil
	}
	delete(r.conns, id)
	rooms := make([]domain.RoomID, 0, len(e.Rooms))
	for room := range e.Rooms {
		rooms = append(rooms, room)
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Int("rooms", len(rooms)).Int("total", len(r.conns)).Msg("deregistered connection")
	return rooms
}

// AttachIdentity records who the connection authenticated as. Re-authentication overwrites.
func (r *Registry) AttachIdentity(id core.ConnID, ident domain.Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	e.Identity = ident
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("user", string(ident.UserID)).Msg("attached identity")
	return true
}

func (r *Registry) Identity(id core.ConnID) (domain.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.Identity.IsZero() {
		return domain.Identity{}, false
	}
	return e.Identity, true
}

func (r *Registry) Conn(id core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (r *Registry) RoomsOf(id core.ConnID) []domain.RoomID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return nil
	}
	out := make([]domain.RoomID, 0, len(e.Rooms))
	for room := range e.Rooms {
		out = append(out, room)
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) TrackJoin(id core.ConnID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	e.Rooms[room] = struct{}{}
	return true
}

func (r *Registry) TrackLeave(id core.ConnID, room domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		delete(e.Rooms, room)
	}
}

// Cancel stops the connection's pumps and closes its transport.
// The adapter's read loop then drives the regular disconnect path.
func (r *Registry) Cancel(id core.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	if e.Conn != nil {
		e.Conn.Close()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}
