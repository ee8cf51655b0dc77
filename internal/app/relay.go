package app

import (
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

const relayStripes = 64

type memberSource interface {
	MembersOf(room domain.RoomID) []core.ConnID
}

type connSource interface {
	Conn(id core.ConnID) (core.SignalConnection, bool)
}

// Relay fans envelopes out to the members of a room.
// Broadcasts to the same room are serialized so every member sees them in
// the order the relay processed them; different rooms proceed in parallel.
type Relay struct {
	members memberSource
	conns   connSource
	stripes [relayStripes]sync.Mutex
}

func NewRelay(members memberSource, conns connSource) *Relay {
	return &Relay{members: members, conns: conns}
}

func (r *Relay) stripe(room domain.RoomID) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(room))
	return &r.stripes[h.Sum32()%relayStripes]
}

// Broadcast delivers env to every member of room except exclude (empty = nobody).
// A failing target never stops delivery to the others.
func (r *Relay) Broadcast(room domain.RoomID, env core.Envelope, exclude core.ConnID) core.PublishResult {
	res := core.PublishResult{}
	frame, err := env.Encode()
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("room", string(room)).Msg("encode envelope")
		return res
	}

	mu := r.stripe(room)
	mu.Lock()
	defer mu.Unlock()

	for _, id := range r.members.MembersOf(room) {
		if exclude != "" && id == exclude {
			continue
		}
		conn, ok := r.conns.Conn(id)
		if !ok {
			// Disconnected between snapshot and delivery.
			log.Debug().Str("module", "app.relay").Str("room", string(room)).Str("conn", string(id)).Msg("target gone")
			continue
		}
		if err := conn.TrySend(frame); err != nil {
			err = fmt.Errorf("%w: %w", domain.ErrRelayTargetUnavailable, err)
			log.Warn().Err(err).Str("module", "app.relay").Str("room", string(room)).Str("conn", string(id)).Msg("delivery failed")
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SendTo++
	}
	log.Debug().Str("module", "app.relay").Str("room", string(room)).Str("kind", string(env.Kind)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
