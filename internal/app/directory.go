package app

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// Directory is the in-memory presence index: room id -> joined connections.
// Rooms exist here only while they have members; persisted room metadata
// lives in the store and is never consulted by the relay.
type Directory struct {
	mu      sync.RWMutex
	rooms   map[domain.RoomID]map[core.ConnID]struct{}
	tracker core.MembershipTracker
}

func NewDirectory(tracker core.MembershipTracker) *Directory {
	return &Directory{
		rooms:   make(map[domain.RoomID]map[core.ConnID]struct{}),
		tracker: tracker,
	}
}

// Join adds id to room, creating the room entry on first join.
// Joining a room twice is a no-op.
func (d *Directory) Join(room domain.RoomID, id core.ConnID) error {
	if room == "" {
		return fmt.Errorf("%w: room is required", domain.ErrValidation)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[room]
	if ok {
		if _, already := members[id]; already {
			return nil
		}
	}
	if d.tracker != nil && !d.tracker.TrackJoin(id, room) {
		return fmt.Errorf("%w: connection %s", domain.ErrNotFound, id)
	}
	if !ok {
		members = make(map[core.ConnID]struct{})
		d.rooms[room] = members
	}
	members[id] = struct{}{}
	log.Debug().Str("module", "app.directory").Str("room", string(room)).Str("conn", string(id)).Int("members", len(members)).Msg("joined")
	return nil
}

// Leave removes id from room and drops the room once it is empty. Idempotent.
func (d *Directory) Leave(room domain.RoomID, id core.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tracker != nil {
		d.tracker.TrackLeave(id, room)
	}
	members, ok := d.rooms[room]
	if !ok {
		return
	}
	if _, in := members[id]; !in {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(d.rooms, room)
		log.Debug().Str("module", "app.directory").Str("room", string(room)).Msg("room emptied")
		return
	}
	log.Debug().Str("module", "app.directory").Str("room", string(room)).Str("conn", string(id)).Int("members", len(members)).Msg("left")
}

// MembersOf returns a snapshot; membership may change right after.
func (d *Directory) MembersOf(room domain.RoomID) []core.ConnID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	members := d.rooms[room]
	out := make([]core.ConnID, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}

func (d *Directory) IsMember(room domain.RoomID, id core.ConnID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[room][id]
	return ok
}

func (d *Directory) List() []core.RoomInfo {
	d.mu.RLock()
	out := make([]core.RoomInfo, 0, len(d.rooms))
	for id, members := range d.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: len(members)})
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Directory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
