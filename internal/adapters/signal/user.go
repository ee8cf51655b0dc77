package signal

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// handleWhoAmI reports what the server knows about this connection.
func (ctl *SignalWSController) handleWhoAmI(id core.ConnID, conn *WsSignalConn) {
	resp := struct {
		ConnectionID core.ConnID     `json:"connection_id"`
		UserID       domain.UserID   `json:"user_id,omitempty"`
		Rooms        []domain.RoomID `json:"rooms"`
	}{
		ConnectionID: id,
		Rooms:        ctl.Orch.Registry.RoomsOf(id),
	}
	if ident, ok := ctl.Orch.Registry.Identity(id); ok {
		resp.UserID = ident.UserID
	}
	if resp.Rooms == nil {
		resp.Rooms = []domain.RoomID{}
	}
	ctl.sendJSON(conn, "whoami", resp)
}
