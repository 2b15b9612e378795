package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/common/logging"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Terminals are served from the same deployment; the credential check at
	// handshake is the actual gate.
	CheckOrigin: func(*http.Request) bool { return true },
}

// WebSocket upgrades an authenticated terminal connection and attaches it to
// the hub. The auth middleware has already rejected invalid credentials, so
// no event is ever delivered to an unauthenticated connection.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	a, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.E(domain.KindAuthentication, "missing credentials"))
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	notify.NewClient(h.Hub, conn, a).Start()
}
