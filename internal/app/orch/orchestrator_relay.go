package orch

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// SendMessage relays chat text to the whole room; the sender sees its own echo.
func (o *Orchestrator) SendMessage(id core.ConnID, room domain.RoomID, username, text string) (core.PublishResult, error) {
	if err := o.authorize(id); err != nil {
		return core.PublishResult{}, err
	}
	if room == "" {
		return core.PublishResult{}, fmt.Errorf("%w: room is required", domain.ErrValidation)
	}
	env := core.Envelope{
		Kind:   core.KindChat,
		Room:   room,
		Sender: domain.DisplayName(username),
		Text:   text,
	}
	res := o.Relay.Broadcast(room, env, "")
	o.applyPolicy(room, res)
	return res, nil
}

// Signal relays a WebRTC negotiation payload to every room member but the sender.
func (o *Orchestrator) Signal(id core.ConnID, kind core.Kind, room domain.RoomID, username string, payload json.RawMessage) (core.PublishResult, error) {
	if !kind.IsSignaling() {
		return core.PublishResult{}, fmt.Errorf("%w: %q is not a signaling kind", domain.ErrValidation, kind)
	}
	if err := o.authorize(id); err != nil {
		return core.PublishResult{}, err
	}
	if room == "" {
		return core.PublishResult{}, fmt.Errorf("%w: room is required", domain.ErrValidation)
	}
	env := core.Envelope{
		Kind:    kind,
		Room:    room,
		Sender:  domain.DisplayName(username),
		Payload: payload,
	}
	res := o.Relay.Broadcast(room, env, id)
	o.applyPolicy(room, res)
	return res, nil
}
