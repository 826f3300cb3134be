package http

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/salachat/server/internal/config"
	"github.com/salachat/server/internal/delivery/ws"
	"github.com/salachat/server/internal/middleware"
	"github.com/salachat/server/view/pages"
)

// Handler serves the chat page, the websocket upgrade and the admin API.
type Handler struct {
	cfg      *config.Config
	hub      *ws.Hub
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(cfg *config.Config, hub *ws.Hub, log zerolog.Logger) *Handler {
	h := &Handler{cfg: cfg, hub: hub, log: log}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return h.originAllowed(r.Header.Get("Origin"))
		},
	}
	return h
}

// originAllowed checks if the origin is in the allowed list. An empty origin
// (same-origin request) is always allowed.
func (h *Handler) originAllowed(origin string) bool {
	if origin == "" {
		return true
	}

	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

// HandleIndex serves the login + chat page.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	component := pages.Chat()
	component.Render(r.Context(), w)
}

// HandleWebSocket upgrades the request and hands the connection to the relay.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client, ok := h.hub.Accept(conn, Fingerprint(middleware.ClientIP(r)))
	if !ok {
		// rejected at accept time (banned fingerprint); already closed
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// HandleStats reports relay counters (admin/debug).
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	online, banned, violations := h.hub.Stats()
	writeJSON(w, map[string]int{
		"online":     online,
		"banned":     banned,
		"violations": violations,
	})
}

// HandleBanned dumps the ban ledger (admin/debug). This mirrors the
// get_banned_users socket event for non-socket consumers.
func (h *Handler) HandleBanned(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.hub.BannedUsers())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Fingerprint derives the stable ban key from a client address. Ports are
// stripped so reconnects from the same host map to the same key.
func Fingerprint(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	sum := sha256.Sum256([]byte(addr))
	return hex.EncodeToString(sum[:])[:16]
}
