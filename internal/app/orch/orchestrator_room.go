package orch

import (
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// JoinRoom adds the connection to room and announces it to everyone there,
// the joiner included.
func (o *Orchestrator) JoinRoom(id core.ConnID, room domain.RoomID, username string) error {
	if err := o.authorize(id); err != nil {
		return err
	}
	if err := o.Rooms.Join(room, id); err != nil {
		return err
	}
	name := domain.DisplayName(username)
	log.Info().Str("module", "orch").Str("conn", string(id)).Str("room", string(room)).Str("name", name).Msg("joined room")

	notice := core.Notice(room, fmt.Sprintf("%s joined the room.", name))
	o.applyPolicy(room, o.Relay.Broadcast(room, notice, ""))
	return nil
}

// LeaveRoom removes the connection from room and tells the remaining members.
func (o *Orchestrator) LeaveRoom(id core.ConnID, room domain.RoomID, username string) error {
	if room == "" {
		return fmt.Errorf("%w: room is required", domain.ErrValidation)
	}
	o.Rooms.Leave(room, id)
	name := domain.DisplayName(username)
	log.Info().Str("module", "orch").Str("conn", string(id)).Str("room", string(room)).Str("name", name).Msg("left room")

	notice := core.Notice(room, fmt.Sprintf("%s left the room.", name))
	o.applyPolicy(room, o.Relay.Broadcast(room, notice, ""))
	return nil
}
