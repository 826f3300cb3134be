package ws

import (
	"context"
	"encoding/json"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/salachat/server/internal/config"
	"github.com/salachat/server/internal/domain"
	"github.com/salachat/server/internal/moderation"
)

// statsInterval is the period of the stats/memory monitor sweep.
const statsInterval = time.Minute

// Hub is the broadcast relay. It owns the connection registry, the ban
// ledger and the content scanner, runs every inbound event to completion
// under its lock, and fans accepted events out to all registered clients.
type Hub struct {
	mu  sync.RWMutex
	log zerolog.Logger
	cfg *config.Config

	scanner *moderation.Scanner
	ledger  *moderation.Ledger
	spam    *moderation.SpamGuard

	clients map[int64]*Client
	nextID  int64
}

// NewHub creates a relay with the built-in denylist.
func NewHub(cfg *config.Config, log zerolog.Logger) *Hub {
	h := &Hub{
		log:     log,
		cfg:     cfg,
		scanner: moderation.DefaultScanner(),
		ledger:  moderation.NewLedger(cfg.BanLedgerCap, cfg.BanRetention, cfg.ViolationCap, cfg.ViolationRetention),
		clients: make(map[int64]*Client),
	}
	if cfg.SpamGuardEnabled {
		h.spam = moderation.NewSpamGuard(cfg.SpamWarnLimit, cfg.SpamBanLimit, cfg.SpamWindow)
	}
	return h
}

// Accept runs the connect handshake for a fresh connection: the fingerprint
// is checked against the ban ledger, and accepted users get an id, a default
// name and a user_id frame before the online count is republished. Returns
// false when the connection was rejected and closed.
func (h *Hub) Accept(conn *websocket.Conn, fingerprint string) (*Client, bool) {
	if rec, ok := h.ledger.LookupFingerprint(fingerprint); ok {
		h.log.Warn().
			Str("fingerprint", fingerprint).
			Str("reason", rec.Reason).
			Msg("banned user rejected at connect")
		if conn != nil {
			if frame, err := domain.Encode(domain.EventUserBanned, domain.Banned{Reason: rec.Reason, Timestamp: rec.Timestamp}); err == nil {
				conn.WriteMessage(websocket.TextMessage, frame)
			}
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, rec.Reason))
			conn.Close()
		}
		return nil, false
	}

	h.mu.Lock()
	h.nextID++
	user := domain.NewUser(h.nextID, fingerprint)
	client := newClient(h, conn, user)
	h.clients[user.ID] = client
	h.mu.Unlock()

	h.log.Info().Int64("user_id", user.ID).Str("user", user.Name).Msg("user connected")

	h.sendEvent(client, domain.EventUserID, domain.UserIdentity{UserID: user.ID, UserName: user.Name})
	h.broadcastOnlineCount()

	return client, true
}

// disconnect removes a client from the registry, republishes the online
// count and clears any stale typing indicator on peers. Safe to call more
// than once; only the first call for a client does anything.
func (h *Hub) disconnect(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.User.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.User.ID)
	close(c.send)
	h.mu.Unlock()

	if h.spam != nil {
		h.spam.Forget(c.User.ID)
	}

	h.log.Info().Int64("user_id", c.User.ID).Str("user", c.User.Name).Msg("user disconnected")

	h.broadcastOnlineCount()
	h.broadcastEvent(domain.EventUserTyping, domain.UserTyping{
		UserID:   c.User.ID,
		UserName: c.User.Name,
		IsTyping: false,
	})
}

// drop removes the client from the registry and closes its send channel so
// WritePump flushes queued frames and then closes the transport with the
// given code.
func (h *Hub) drop(c *Client, code int, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[c.User.ID]; ok {
		delete(h.clients, c.User.ID)
		c.closeCode = code
		c.closeReason = reason
		close(c.send)
	}
	h.mu.Unlock()
}

// dispatch decodes one inbound frame and routes it by event type. Malformed
// frames are logged and dropped; unknown types are ignored.
func (h *Hub) dispatch(c *Client, frame []byte) {
	var evt domain.Event
	if err := json.Unmarshal(frame, &evt); err != nil {
		h.log.Debug().Err(err).Int64("user_id", c.User.ID).Msg("dropping malformed frame")
		return
	}

	switch evt.Type {
	case domain.EventSetName:
		h.handleSetName(c, evt.Data)
	case domain.EventMessage:
		h.handleText(c, evt.Data)
	case domain.EventAudioMessage:
		h.handleAudio(c, evt.Data)
	case domain.EventImageMessage:
		h.handleImage(c, evt.Data)
	case domain.EventVideoMessage:
		h.handleVideo(c, evt.Data)
	case domain.EventStickerMessage:
		h.handleSticker(c, evt.Data)
	case domain.EventTypingStart:
		h.handleTyping(c, true)
	case domain.EventTypingStop:
		h.handleTyping(c, false)
	case domain.EventCheckBanned:
		h.handleCheckBanned(c)
	case domain.EventGetBannedUsers:
		h.handleListBanned(c)
	default:
		// unknown event types are not an error, just ignored
	}
}

// broadcast fans a frame out to every registered client. A peer whose send
// buffer is full simply misses the frame; the fan-out never blocks and never
// aborts on one peer.
func (h *Hub) broadcast(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.Send(frame)
	}
}

// broadcastEvent encodes and fans out one event.
func (h *Hub) broadcastEvent(t domain.EventType, data any) {
	frame, err := domain.Encode(t, data)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(t)).Msg("encoding broadcast")
		return
	}
	h.broadcast(frame)
}

// sendEvent encodes and queues one event for a single client. The registry
// check under the read lock guarantees the send channel is still open: drop
// and disconnect close it only after removing the client, holding the write
// lock.
func (h *Hub) sendEvent(c *Client, t domain.EventType, data any) {
	frame, err := domain.Encode(t, data)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(t)).Msg("encoding event")
		return
	}

	h.mu.RLock()
	if _, ok := h.clients[c.User.ID]; ok {
		c.Send(frame)
	}
	h.mu.RUnlock()
}

// broadcastOnlineCount publishes the current user list to everyone.
func (h *Hub) broadcastOnlineCount() {
	h.mu.RLock()
	users := make([]domain.UserInfo, 0, len(h.clients))
	for _, c := range h.clients {
		users = append(users, domain.UserInfo{ID: c.User.ID, Name: c.User.Name})
	}
	h.mu.RUnlock()

	h.broadcastEvent(domain.EventOnlineCount, domain.OnlineCount{Count: len(users), Users: users})
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns online, banned and violation-tracked user counts.
func (h *Hub) Stats() (online, banned, violations int) {
	return h.ClientCount(), h.ledger.BanCount(), h.ledger.ViolationUserCount()
}

// BannedUsers returns the ban ledger in insertion order.
func (h *Hub) BannedUsers() []domain.BanRecord {
	return h.ledger.Bans()
}

// Run drives the retention and stats sweeps until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	cleanup := time.NewTicker(h.cfg.CleanupInterval)
	stats := time.NewTicker(statsInterval)
	defer cleanup.Stop()
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-cleanup.C:
			h.ledger.Purge(time.Now())
			if h.spam != nil {
				h.spam.Prune(time.Now())
			}

		case <-stats.C:
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			online, banned, violations := h.Stats()
			h.log.Info().
				Uint64("heap_bytes", ms.HeapAlloc).
				Int("online", online).
				Int("banned", banned).
				Int("violations", violations).
				Msg("relay stats")
			if ms.HeapAlloc > h.cfg.MemoryPressureBytes {
				h.log.Warn().Uint64("heap_bytes", ms.HeapAlloc).Msg("memory pressure, purging early")
				h.ledger.Purge(time.Now())
			}
		}
	}
}

// Shutdown closes every live connection and clears all relay state. Bans and
// violation history do not survive a restart.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	for id, c := range h.clients {
		delete(h.clients, id)
		c.closeCode = websocket.CloseGoingAway
		c.closeReason = "servidor encerrando"
		close(c.send)
	}
	h.mu.Unlock()

	h.ledger.Reset()
}
