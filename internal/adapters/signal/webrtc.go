package signal

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// The negotiation payload is relayed as raw JSON; SDP and ICE are never parsed.
type webrtcPayload struct {
	Room      string          `json:"room"`
	Username  string          `json:"username,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

func (p webrtcPayload) payload(kind core.Kind) json.RawMessage {
	switch kind {
	case core.KindOffer:
		return p.Offer
	case core.KindAnswer:
		return p.Answer
	case core.KindICECandidate:
		return p.Candidate
	}
	return nil
}

func (ctl *SignalWSController) handleWebRTC(id core.ConnID, kind core.Kind, data json.RawMessage) error {
	var p webrtcPayload
	if err := decodePayload(data, &p); err != nil {
		return err
	}
	if p.Room == "" {
		return fmt.Errorf("%w: room is required", domain.ErrValidation)
	}
	payload := p.payload(kind)
	if len(payload) == 0 {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, kind.PayloadField())
	}
	_, err := ctl.Orch.Signal(id, kind, domain.RoomID(p.Room), p.Username, payload)
	return err
}
