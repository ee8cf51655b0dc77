// Package orch is the session manager: it owns the lifecycle of every signal
// connection and turns inbound events into registry, directory and relay calls.
package orch

import (
	"context"
	"fmt"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

// TokenValidator verifies a bearer credential and yields the identity it asserts.
type TokenValidator interface {
	Validate(token string) (domain.Identity, error)
}

type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.Directory
	Relay    *app.Relay
	Policy   app.Policy
	Tokens   TokenValidator
	// RequireAuth gates join/relay events behind Authenticate.
	RequireAuth bool
}

func New(tokens TokenValidator, policy app.Policy, requireAuth bool) *Orchestrator {
	reg := app.NewRegistry()
	dir := app.NewDirectory(reg)
	return &Orchestrator{
		Registry:    reg,
		Rooms:       dir,
		Relay:       app.NewRelay(dir, reg),
		Policy:      policy,
		Tokens:      tokens,
		RequireAuth: requireAuth,
	}
}

// Connect registers a freshly accepted transport. The connection is Connected
// and in no room.
func (o *Orchestrator) Connect(conn core.SignalConnection, cancel context.CancelFunc) core.ConnID {
	return o.Registry.Register(conn, cancel)
}

// Authenticate validates token and attaches the identity to the connection.
func (o *Orchestrator) Authenticate(id core.ConnID, token string) (domain.Identity, error) {
	if o.Tokens == nil {
		return domain.Identity{}, fmt.Errorf("%w: no token validator configured", domain.ErrAuthenticationInvalid)
	}
	ident, err := o.Tokens.Validate(token)
	if err != nil {
		return domain.Identity{}, err
	}
	if !o.Registry.AttachIdentity(id, ident) {
		return domain.Identity{}, fmt.Errorf("%w: connection %s", domain.ErrNotFound, id)
	}
	return ident, nil
}

// Disconnect deregisters the connection and leaves every room it was in.
// No farewell notice is sent: an abrupt close cannot produce one reliably.
func (o *Orchestrator) Disconnect(id core.ConnID) {
	rooms := o.Registry.Deregister(id)
	for _, room := range rooms {
		o.Rooms.Leave(room, id)
	}
	log.Info().Str("module", "orch").Str("conn", string(id)).Int("rooms_left", len(rooms)).Msg("disconnected")
}

func (o *Orchestrator) Presence() []core.RoomInfo {
	return o.Rooms.List()
}

func (o *Orchestrator) authorize(id core.ConnID) error {
	if !o.RequireAuth {
		return nil
	}
	if _, ok := o.Registry.Identity(id); !ok {
		return domain.ErrAuthenticationMissing
	}
	return nil
}

// applyPolicy runs the backpressure policy for every member a broadcast dropped.
func (o *Orchestrator) applyPolicy(room domain.RoomID, res core.PublishResult) {
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("room", string(room)).Str("conn", string(slow)).Msg("kicking slow member")
			o.Registry.Cancel(slow)
		case app.DropFrame, app.NoAction:
		}
	}
}
