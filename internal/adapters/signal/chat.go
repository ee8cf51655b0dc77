package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type chatPayload struct {
	Room     string  `json:"room"`
	Message  *string `json:"message"`
	Username string  `json:"username"`
}

func (ctl *SignalWSController) handleMessage(id core.ConnID, data json.RawMessage) error {
	var p chatPayload
	if err := decodePayload(data, &p); err != nil {
		return err
	}
	switch {
	case p.Room == "":
		return fmt.Errorf("%w: room is required", domain.ErrValidation)
	case p.Message == nil:
		return fmt.Errorf("%w: message is required", domain.ErrValidation)
	case p.Username == "":
		return fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	_, err := ctl.Orch.SendMessage(id, domain.RoomID(p.Room), p.Username, *p.Message)
	return err
}
