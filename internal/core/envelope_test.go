package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dkeye/Huddle/internal/domain"
)

func decode(t *testing.T, f Frame) (string, map[string]json.RawMessage) {
	t.Helper()
	var msg struct {
		Event string                     `json:"event"`
		Data  map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(f, &msg); err != nil {
		t.Fatalf("unmarshal %s: %v", f, err)
	}
	return msg.Event, msg.Data
}

func TestEncode_ChatIsReceiveMessage(t *testing.T) {
	f, err := Envelope{Kind: KindChat, Room: "r1", Sender: "A", Text: "hi"}.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	event, data := decode(t, f)
	if event != EventReceiveMessage {
		t.Fatalf("event=%q, want %q", event, EventReceiveMessage)
	}
	if string(data["sender"]) != `"A"` || string(data["message"]) != `"hi"` {
		t.Fatalf("data=%v", data)
	}
}

func TestEncode_NoticeIsSignedBySystem(t *testing.T) {
	f, err := Notice("r1", "bob joined the room.").Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, data := decode(t, f)
	if string(data["sender"]) != `"System"` {
		t.Fatalf("sender=%s", data["sender"])
	}
}

func TestEncode_SignalingPayloadVerbatim(t *testing.T) {
	tests := []struct {
		kind  Kind
		field string
	}{
		{KindOffer, "offer"},
		{KindAnswer, "answer"},
		{KindICECandidate, "candidate"},
	}
	for _, tt := range tests {
		raw := json.RawMessage(`{"sdp":"X","weird":[1,2,{"k":null}]}`)
		f, err := Envelope{Kind: tt.kind, Room: "r1", Sender: "A", Payload: raw}.Encode()
		if err != nil {
			t.Fatalf("%s: Encode: %v", tt.kind, err)
		}
		event, data := decode(t, f)
		if event != string(tt.kind) {
			t.Fatalf("event=%q, want %q", event, tt.kind)
		}
		if string(data[tt.field]) != string(raw) {
			t.Fatalf("%s payload=%s, want %s", tt.kind, data[tt.field], raw)
		}
		if string(data["username"]) != `"A"` {
			t.Fatalf("username=%s", data["username"])
		}
	}
}

func TestEncode_UnknownKind(t *testing.T) {
	_, err := Envelope{Kind: "bogus"}.Encode()
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err=%v, want ErrValidation", err)
	}
}

func TestKind_IsSignaling(t *testing.T) {
	if KindChat.IsSignaling() || KindSystemNotice.IsSignaling() {
		t.Fatal("chat and notices include the sender")
	}
	if !KindOffer.IsSignaling() || !KindAnswer.IsSignaling() || !KindICECandidate.IsSignaling() {
		t.Fatal("webrtc kinds must exclude the sender")
	}
}
