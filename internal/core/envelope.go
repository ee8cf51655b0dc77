package core

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Huddle/internal/domain"
)

type Kind string

const (
	KindChat         Kind = "chat"
	KindSystemNotice Kind = "system_notice"
	KindOffer        Kind = "webrtc_offer"
	KindAnswer       Kind = "webrtc_answer"
	KindICECandidate Kind = "webrtc_ice_candidate"
)

// EventReceiveMessage carries chat text and system notices to clients.
const EventReceiveMessage = "receive_message"

// IsSignaling reports whether k is a WebRTC negotiation kind.
// A peer must never get its own negotiation payload back.
func (k Kind) IsSignaling() bool {
	switch k {
	case KindOffer, KindAnswer, KindICECandidate:
		return true
	}
	return false
}

// PayloadField is the data key the signaling payload travels under.
func (k Kind) PayloadField() string {
	switch k {
	case KindOffer:
		return "offer"
	case KindAnswer:
		return "answer"
	case KindICECandidate:
		return "candidate"
	}
	return ""
}

// Envelope is the unit of relay. It lives only for one broadcast.
type Envelope struct {
	Kind   Kind
	Room   domain.RoomID
	Sender string
	// Text is set for chat and system notices.
	Text string
	// Payload is set for signaling kinds and is relayed verbatim.
	Payload json.RawMessage
}

// WireMessage is the JSON frame exchanged over the signal transport.
type WireMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type chatData struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

func Notice(room domain.RoomID, text string) Envelope {
	return Envelope{Kind: KindSystemNotice, Room: room, Sender: domain.SystemSender, Text: text}
}

// Encode renders the envelope as the outbound frame its kind maps to.
func (e Envelope) Encode() (Frame, error) {
	var msg WireMessage
	switch {
	case e.Kind == KindChat || e.Kind == KindSystemNotice:
		msg = WireMessage{Event: EventReceiveMessage, Data: chatData{Sender: e.Sender, Message: e.Text}}
	case e.Kind.IsSignaling():
		payload := e.Payload
		if len(payload) == 0 {
			payload = json.RawMessage("null")
		}
		msg = WireMessage{Event: string(e.Kind), Data: map[string]any{
			e.Kind.PayloadField(): payload,
			"username":            e.Sender,
		}}
	default:
		return nil, fmt.Errorf("%w: unknown envelope kind %q", domain.ErrValidation, e.Kind)
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", e.Kind, err)
	}
	return b, nil
}
