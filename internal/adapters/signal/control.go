package signal

import (
	"encoding/json"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, eventPong, nil)
}

func (ctl *SignalWSController) sendWelcome(id core.ConnID, conn *WsSignalConn) {
	servers := ctl.opts.ICEServers
	if servers == nil {
		servers = []webrtc.ICEServer{}
	}
	ctl.sendJSON(conn, "welcome", struct {
		ConnectionID core.ConnID        `json:"connection_id"`
		ICEServers   []webrtc.ICEServer `json:"ice_servers"`
		AuthRequired bool               `json:"auth_required"`
	}{id, servers, ctl.Orch.RequireAuth})
}

func (ctl *SignalWSController) handleAuthenticate(id core.ConnID, conn *WsSignalConn, data json.RawMessage) {
	var p struct {
		Token string `json:"token"`
	}
	if err := decodePayload(data, &p); err != nil {
		ctl.sendError(conn, "authenticate", domain.Reason(err), err.Error())
		return
	}
	ctl.authenticate(id, conn, p.Token)
}

func (ctl *SignalWSController) authenticate(id core.ConnID, conn *WsSignalConn, token string) {
	ident, err := ctl.Orch.Authenticate(id, token)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("authentication failed")
		ctl.sendError(conn, "authenticate", domain.Reason(err), err.Error())
		return
	}
	ctl.sendJSON(conn, "authenticated", ident)
}
