package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/dkeye/Huddle/internal/core"
)

var errFull = errors.New("buffer full")

// recConn records every frame it accepts.
type recConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
	closed bool
}

func (c *recConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail || c.closed {
		return errFull
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *recConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *recConn) Frames() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Frame(nil), c.frames...)
}

func (c *recConn) Messages(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, f := range c.Frames() {
		var msg struct {
			Event string `json:"event"`
			Data  struct {
				Message string `json:"message"`
			} `json:"data"`
		}
		if err := json.Unmarshal(f, &msg); err != nil {
			t.Fatalf("unmarshal %s: %v", f, err)
		}
		out = append(out, msg.Data.Message)
	}
	return out
}

type fixture struct {
	reg *Registry
	dir *Directory
	rel *Relay
}

func newFixture() *fixture {
	reg := NewRegistry()
	dir := NewDirectory(reg)
	return &fixture{reg: reg, dir: dir, rel: NewRelay(dir, reg)}
}

func (f *fixture) connect(t *testing.T) (core.ConnID, *recConn) {
	t.Helper()
	c := &recConn{}
	return f.reg.Register(c, nil), c
}
