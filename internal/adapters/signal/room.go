package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type roomPayload struct {
	Room     string `json:"room"`
	Username string `json:"username,omitempty"`
}

func (p roomPayload) validate() error {
	if p.Room == "" {
		return fmt.Errorf("%w: room is required", domain.ErrValidation)
	}
	return nil
}

func (ctl *SignalWSController) handleJoin(id core.ConnID, data json.RawMessage) error {
	var p roomPayload
	if err := decodePayload(data, &p); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	return ctl.Orch.JoinRoom(id, domain.RoomID(p.Room), p.Username)
}

// handleLeave leaves one room; the connection itself stays open.
func (ctl *SignalWSController) handleLeave(id core.ConnID, data json.RawMessage) error {
	var p roomPayload
	if err := decodePayload(data, &p); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	return ctl.Orch.LeaveRoom(id, domain.RoomID(p.Room), p.Username)
}
