package orch

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type wireMsg struct {
	Event string                     `json:"event"`
	Data  map[string]json.RawMessage `json:"data"`
}

type testConn struct {
	mu     sync.Mutex
	msgs   []wireMsg
	full   bool
	closed bool
}

func (c *testConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full || c.closed {
		return errors.New("full")
	}
	var m wireMsg
	if err := json.Unmarshal(f, &m); err != nil {
		return err
	}
	c.msgs = append(c.msgs, m)
	return nil
}

func (c *testConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *testConn) Received() []wireMsg {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]wireMsg(nil), c.msgs...)
}

func (c *testConn) Reset() {
	c.mu.Lock()
	c.msgs = nil
	c.mu.Unlock()
}

type staticTokens map[string]domain.UserID

func (s staticTokens) Validate(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrAuthenticationMissing
	}
	uid, ok := s[token]
	if !ok {
		return domain.Identity{}, domain.ErrAuthenticationInvalid
	}
	return domain.Identity{UserID: uid}, nil
}

func connect(o *Orchestrator) (core.ConnID, *testConn) {
	c := &testConn{}
	return o.Connect(c, nil), c
}

func str(raw json.RawMessage) string {
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

func TestJoinRoom_NoticeReachesEveryoneIncludingJoiner(t *testing.T) {
	o := New(nil, app.DropPolicy{}, false)
	a, ca := connect(o)
	b, cb := connect(o)

	if err := o.JoinRoom(a, "r1", "A"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}
	if err := o.JoinRoom(b, "r1", "B"); err != nil {
		t.Fatalf("JoinRoom: %v", err)
	}

	got := ca.Received()
	if len(got) != 2 {
		t.Fatalf("A received %d messages, want 2", len(got))
	}
	if got[0].Event != core.EventReceiveMessage || str(got[0].Data["sender"]) != "System" || str(got[0].Data["message"]) != "A joined the room." {
		t.Fatalf("first notice=%+v", got[0])
	}
	if str(got[1].Data["message"]) != "B joined the room." {
		t.Fatalf("second notice=%+v", got[1])
	}
	if gb := cb.Received(); len(gb) != 1 || str(gb[0].Data["message"]) != "B joined the room." {
		t.Fatalf("B received %+v", gb)
	}
}

func TestJoinRoom_DefaultsUnknownUsername(t *testing.T) {
	o := New(nil, nil, false)
	a, ca := connect(o)
	_ = o.JoinRoom(a, "r1", "")
	if got := ca.Received(); len(got) != 1 || str(got[0].Data["message"]) != "Unknown joined the room." {
		t.Fatalf("got %+v", got)
	}
}

func TestLeaveRoom_NoticeToRemainingMembers(t *testing.T) {
	o := New(nil, nil, false)
	a, ca := connect(o)
	b, cb := connect(o)
	_ = o.JoinRoom(a, "r1", "A")
	_ = o.JoinRoom(b, "r1", "B")
	ca.Reset()
	cb.Reset()

	if err := o.LeaveRoom(a, "r1", "A"); err != nil {
		t.Fatalf("LeaveRoom: %v", err)
	}
	if len(ca.Received()) != 0 {
		t.Fatal("leaver is no longer a member and must not get the notice")
	}
	if got := cb.Received(); len(got) != 1 || str(got[0].Data["message"]) != "A left the room." {
		t.Fatalf("B got %+v", got)
	}
	if err := o.LeaveRoom(a, "r1", "A"); err != nil {
		t.Fatalf("second LeaveRoom: %v", err)
	}
}

func TestSendMessage_EchoesToSender(t *testing.T) {
	o := New(nil, nil, false)
	a, ca := connect(o)
	b, cb := connect(o)
	c, cc := connect(o)
	for _, id := range []core.ConnID{a, b, c} {
		_ = o.JoinRoom(id, "r1", "x")
	}
	for _, conn := range []*testConn{ca, cb, cc} {
		conn.Reset()
	}

	res, err := o.SendMessage(a, "r1", "A", "hi")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if res.SendTo != 3 {
		t.Fatalf("SendTo=%d, want 3", res.SendTo)
	}
	for _, conn := range []*testConn{ca, cb, cc} {
		got := conn.Received()
		if len(got) != 1 || got[0].Event != "receive_message" || str(got[0].Data["sender"]) != "A" || str(got[0].Data["message"]) != "hi" {
			t.Fatalf("got %+v", got)
		}
	}
}

func TestSignal_OfferSkipsSender(t *testing.T) {
	o := New(nil, nil, false)
	a, ca := connect(o)
	b, cb := connect(o)
	_ = o.JoinRoom(a, "r1", "A")
	_ = o.JoinRoom(b, "r1", "B")
	ca.Reset()
	cb.Reset()

	if _, err := o.Signal(a, core.KindOffer, "r1", "A", json.RawMessage(`{"sdp":"X"}`)); err != nil {
		t.Fatalf("Signal: %v", err)
	}
	if len(ca.Received()) != 0 {
		t.Fatal("A must not receive its own offer")
	}
	got := cb.Received()
	if len(got) != 1 || got[0].Event != "webrtc_offer" {
		t.Fatalf("B got %+v", got)
	}
	if string(got[0].Data["offer"]) != `{"sdp":"X"}` || str(got[0].Data["username"]) != "A" {
		t.Fatalf("B got data %v", got[0].Data)
	}
}

func TestSignal_RejectsNonSignalingKind(t *testing.T) {
	o := New(nil, nil, false)
	a, _ := connect(o)
	if _, err := o.Signal(a, core.KindChat, "r1", "A", nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err=%v, want ErrValidation", err)
	}
}

func TestDisconnect_RemovesFromEveryRoom(t *testing.T) {
	o := New(nil, nil, false)
	a, ca := connect(o)
	b, cb := connect(o)
	_ = o.JoinRoom(a, "r1", "A")
	_ = o.JoinRoom(a, "r2", "A")
	_ = o.JoinRoom(b, "r1", "B")
	ca.Reset()
	cb.Reset()

	o.Disconnect(a)
	o.Disconnect(a)

	for _, room := range []domain.RoomID{"r1", "r2"} {
		for _, m := range o.Rooms.MembersOf(room) {
			if m == a {
				t.Fatalf("%s still lists disconnected member", room)
			}
		}
	}
	if o.Rooms.RoomCount() != 1 {
		t.Fatalf("RoomCount=%d, want 1 (r2 emptied)", o.Rooms.RoomCount())
	}
	if len(cb.Received()) != 0 {
		t.Fatal("abrupt disconnect must not produce a notice")
	}

	res, _ := o.SendMessage(b, "r1", "B", "anyone?")
	if res.SendTo != 1 || len(ca.Received()) != 0 {
		t.Fatalf("res=%+v, A frames=%d", res, len(ca.Received()))
	}
}

func TestRequireAuth_GatesRelay(t *testing.T) {
	o := New(staticTokens{"good": "u1"}, nil, true)
	a, _ := connect(o)

	if err := o.JoinRoom(a, "r1", "A"); !errors.Is(err, domain.ErrAuthenticationMissing) {
		t.Fatalf("err=%v, want ErrAuthenticationMissing", err)
	}
	if _, err := o.Authenticate(a, "bad"); !errors.Is(err, domain.ErrAuthenticationInvalid) {
		t.Fatalf("err=%v, want ErrAuthenticationInvalid", err)
	}
	ident, err := o.Authenticate(a, "good")
	if err != nil || ident.UserID != "u1" {
		t.Fatalf("Authenticate=%+v, %v", ident, err)
	}
	if err := o.JoinRoom(a, "r1", "A"); err != nil {
		t.Fatalf("JoinRoom after auth: %v", err)
	}
}

func TestAuthenticate_WithoutValidator(t *testing.T) {
	o := New(nil, nil, false)
	a, _ := connect(o)
	if _, err := o.Authenticate(a, "x"); !errors.Is(err, domain.ErrAuthenticationInvalid) {
		t.Fatalf("err=%v, want ErrAuthenticationInvalid", err)
	}
}

func TestKickPolicy_ClosesSlowMember(t *testing.T) {
	o := New(nil, app.SimplePolicy{}, false)
	a, _ := connect(o)
	b, cb := connect(o)
	_ = o.JoinRoom(a, "r1", "A")
	_ = o.JoinRoom(b, "r1", "B")

	cb.mu.Lock()
	cb.full = true
	cb.mu.Unlock()

	res, _ := o.SendMessage(a, "r1", "A", "hi")
	if len(res.Dropped) != 1 || res.Dropped[0] != b {
		t.Fatalf("Dropped=%v, want [%s]", res.Dropped, b)
	}
	cb.mu.Lock()
	closed := cb.closed
	cb.mu.Unlock()
	if !closed {
		t.Fatal("slow member should have been closed")
	}
}

func TestPresence(t *testing.T) {
	o := New(nil, nil, false)
	a, _ := connect(o)
	b, _ := connect(o)
	_ = o.JoinRoom(a, "r1", "A")
	_ = o.JoinRoom(b, "r1", "B")
	_ = o.JoinRoom(b, "r2", "B")

	got := o.Presence()
	if len(got) != 2 || got[0].ID != "r1" || got[0].MemberCount != 2 || got[1].MemberCount != 1 {
		t.Fatalf("Presence=%+v", got)
	}
}
