package app

import (
	"testing"

	"github.com/dkeye/Huddle/internal/domain"
)

func TestRegistry_RegisterAssignsUniqueIDs(t *testing.T) {
	reg := NewRegistry()
	a := reg.Register(&recConn{}, nil)
	b := reg.Register(&recConn{}, nil)
	if a == "" || a == b {
		t.Fatalf("ids a=%q b=%q", a, b)
	}
	if reg.Count() != 2 {
		t.Fatalf("Count=%d, want 2", reg.Count())
	}
}

func TestRegistry_DeregisterIsIdempotent(t *testing.T) {
	f := newFixture()
	id, _ := f.connect(t)
	if err := f.dir.Join("r1", id); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := f.dir.Join("r2", id); err != nil {
		t.Fatalf("Join: %v", err)
	}

	rooms := f.reg.Deregister(id)
	if len(rooms) != 2 {
		t.Fatalf("rooms=%v, want 2 rooms", rooms)
	}
	if again := f.reg.Deregister(id); again != nil {
		t.Fatalf("second Deregister=%v, want nil", again)
	}
	if f.reg.Deregister("never-seen") != nil {
		t.Fatal("unknown id should be a no-op")
	}
	if _, ok := f.reg.Conn(id); ok {
		t.Fatal("conn still registered")
	}
}

func TestRegistry_AttachIdentityOverwrites(t *testing.T) {
	reg := NewRegistry()
	id := reg.Register(&recConn{}, nil)
	if _, ok := reg.Identity(id); ok {
		t.Fatal("fresh connection has no identity")
	}
	reg.AttachIdentity(id, domain.Identity{UserID: "u1"})
	reg.AttachIdentity(id, domain.Identity{UserID: "u2"})
	got, ok := reg.Identity(id)
	if !ok || got.UserID != "u2" {
		t.Fatalf("identity=%+v ok=%v, want u2", got, ok)
	}
	if reg.AttachIdentity("missing", domain.Identity{UserID: "u"}) {
		t.Fatal("AttachIdentity on unknown connection must report false")
	}
}

func TestRegistry_CancelClosesConnection(t *testing.T) {
	reg := NewRegistry()
	c := &recConn{}
	canceled := false
	id := reg.Register(c, func() { canceled = true })
	if !reg.Cancel(id) {
		t.Fatal("Cancel returned false")
	}
	if !canceled || !c.closed {
		t.Fatalf("canceled=%v closed=%v", canceled, c.closed)
	}
	if reg.Cancel("missing") {
		t.Fatal("Cancel on unknown id must return false")
	}
}
