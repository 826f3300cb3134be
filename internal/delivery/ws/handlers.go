package ws

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/salachat/server/internal/config"
	"github.com/salachat/server/internal/domain"
	"github.com/salachat/server/internal/moderation"
)

const (
	minNameLen = 3
	maxNameLen = 20
)

// handleSetName validates and applies a rename, then republishes the user
// list. Rejected renames get an error event and mutate nothing.
func (h *Hub) handleSetName(c *Client, data json.RawMessage) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		h.sendError(c, "nome inválido")
		return
	}
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		h.sendError(c, fmt.Sprintf("o nome deve ter entre %d e %d caracteres", minNameLen, maxNameLen))
		return
	}

	h.mu.Lock()
	old := c.User.Name
	c.User.Name = name
	h.mu.Unlock()

	h.log.Info().Int64("user_id", c.User.ID).Str("old", old).Str("new", name).Msg("user renamed")
	h.broadcastOnlineCount()
}

// handleText runs a text message through the moderation pipeline and, when
// accepted, broadcasts it to everyone.
func (h *Hub) handleText(c *Client, data json.RawMessage) {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		h.log.Debug().Err(err).Int64("user_id", c.User.ID).Msg("dropping non-string message payload")
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if utf8.RuneCountInString(text) > h.cfg.MaxMessageChars {
		h.sendBlocked(c, fmt.Sprintf("mensagem muito longa (máximo %d caracteres)", h.cfg.MaxMessageChars))
		return
	}

	if !h.admit(c, text) {
		return
	}

	h.broadcastEvent(domain.EventMessage, domain.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    c.User.ID,
		UserName:  c.User.Name,
		Content:   text,
		Timestamp: time.Now(),
	})
}

// admit runs the moderation pipeline for one text message. It returns false
// when the message must not be broadcast; the offending connection may
// already be closed by then.
func (h *Hub) admit(c *Client, text string) bool {
	// Defensive re-check: a banned user should have been rejected at
	// connect, but a stale client can still hold an open socket.
	if rec, ok := h.ledger.Lookup(c.User.ID); ok {
		h.sendBlocked(c, "Você está banido: "+rec.Reason)
		h.drop(c, websocket.ClosePolicyViolation, rec.Reason)
		h.broadcastOnlineCount()
		return false
	}

	if h.spam != nil {
		switch h.spam.Note(c.User.ID) {
		case moderation.LevelBan:
			h.ban(c, "Spam: muitas mensagens em poucos segundos")
			return false
		case moderation.LevelWarn:
			h.sendBlocked(c, "Você está enviando mensagens rápido demais")
			return false
		}
	}

	verdict := h.scanner.Scan(text)
	switch verdict.Kind {
	case moderation.LinkDetected:
		count := h.ledger.RecordViolation(c.User.ID, domain.Violation{
			Type:      domain.ViolationLink,
			Timestamp: time.Now(),
		})
		h.log.Warn().Int64("user_id", c.User.ID).Str("user", c.User.Name).Msg("link detected")
		h.punish(c, count, "Envio de links não autorizado")
		return false

	case moderation.BannedWord:
		count := h.ledger.RecordViolation(c.User.ID, domain.Violation{
			Type:      domain.ViolationBannedWord,
			Word:      verdict.Word,
			Timestamp: time.Now(),
		})
		h.log.Warn().Int64("user_id", c.User.ID).Str("user", c.User.Name).Str("word", verdict.Word).Msg("banned word detected")
		h.punish(c, count, fmt.Sprintf("Uso de conteúdo inadequado: %q", verdict.Word))
		return false
	}

	return true
}

// punish applies the configured ban policy after a recorded violation.
func (h *Hub) punish(c *Client, violations int, reason string) {
	if h.cfg.BanPolicy == config.BanPolicyStrikes && violations < h.cfg.StrikeLimit {
		h.sendBlocked(c, fmt.Sprintf("%s (advertência %d de %d)", reason, violations, h.cfg.StrikeLimit))
		return
	}
	h.ban(c, reason)
}

// ban records the ban, notifies the offender and the remaining peers, removes
// the user from the registry and forces a policy close so the client does not
// reconnect.
func (h *Hub) ban(c *Client, reason string) {
	now := time.Now()
	h.ledger.Ban(domain.BanRecord{
		UserID:      c.User.ID,
		UserName:    c.User.Name,
		Reason:      reason,
		Fingerprint: c.User.Fingerprint,
		Timestamp:   now,
	})

	h.log.Warn().Int64("user_id", c.User.ID).Str("user", c.User.Name).Str("reason", reason).Msg("user banned")

	h.sendEvent(c, domain.EventUserBanned, domain.Banned{Reason: reason, Timestamp: now})
	h.drop(c, websocket.ClosePolicyViolation, reason)

	h.broadcastEvent(domain.EventUserBannedNotif, domain.BanNotice{
		UserID:   c.User.ID,
		UserName: c.User.Name,
		Reason:   reason,
	})
	h.broadcastOnlineCount()
}

// handleAudio broadcasts an audio message. Media payloads are opaque to the
// content policy; only the shape is validated.
func (h *Hub) handleAudio(c *Client, data json.RawMessage) {
	var p domain.AudioPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Audio == "" {
		h.log.Debug().Int64("user_id", c.User.ID).Msg("dropping malformed audio payload")
		return
	}

	h.broadcastEvent(domain.EventAudioMessage, domain.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    c.User.ID,
		UserName:  c.User.Name,
		Content:   p.Audio,
		Timestamp: time.Now(),
	})
}

func (h *Hub) handleImage(c *Client, data json.RawMessage) {
	var p domain.ImagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Image == "" {
		h.log.Debug().Int64("user_id", c.User.ID).Msg("dropping malformed image payload")
		return
	}
	if p.FileName == "" {
		p.FileName = "imagem.png"
	}

	h.broadcastEvent(domain.EventImageMessage, domain.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    c.User.ID,
		UserName:  c.User.Name,
		Content:   p.Image,
		FileName:  p.FileName,
		Timestamp: time.Now(),
	})
}

// handleVideo enforces the video switch and the payload size cap before
// broadcasting. Oversized videos are blocked, never ban-triggering.
func (h *Hub) handleVideo(c *Client, data json.RawMessage) {
	if !h.cfg.VideoEnabled {
		h.sendBlocked(c, "envio de vídeos está desativado")
		return
	}

	var p domain.VideoPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Video == "" {
		h.log.Debug().Int64("user_id", c.User.ID).Msg("dropping malformed video payload")
		return
	}
	if int64(len(p.Video)) > h.cfg.MaxVideoBytes || p.FileSize > h.cfg.MaxVideoBytes {
		h.sendBlocked(c, fmt.Sprintf("vídeo muito grande (máximo %dMB)", h.cfg.MaxVideoBytes>>20))
		return
	}
	if p.FileName == "" {
		p.FileName = "video.mp4"
	}

	h.broadcastEvent(domain.EventVideoMessage, domain.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    c.User.ID,
		UserName:  c.User.Name,
		Content:   p.Video,
		FileName:  p.FileName,
		FileSize:  p.FileSize,
		Timestamp: time.Now(),
	})
}

func (h *Hub) handleSticker(c *Client, data json.RawMessage) {
	var p domain.StickerPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Sticker == "" {
		h.log.Debug().Int64("user_id", c.User.ID).Msg("dropping malformed sticker payload")
		return
	}

	h.broadcastEvent(domain.EventStickerMessage, domain.ChatMessage{
		ID:        uuid.New().String(),
		UserID:    c.User.ID,
		UserName:  c.User.Name,
		Content:   p.Sticker,
		Timestamp: time.Now(),
	})
}

// handleTyping is a stateless fan-out; the relay keeps no typing state.
func (h *Hub) handleTyping(c *Client, isTyping bool) {
	h.broadcastEvent(domain.EventUserTyping, domain.UserTyping{
		UserID:   c.User.ID,
		UserName: c.User.Name,
		IsTyping: isTyping,
	})
}

// handleCheckBanned answers the sender with their own ban status.
func (h *Hub) handleCheckBanned(c *Client) {
	status := domain.BannedStatus{}
	if rec, ok := h.ledger.Lookup(c.User.ID); ok {
		status.IsBanned = true
		status.BanInfo = &rec
	}
	h.sendEvent(c, domain.EventBannedStatus, status)
}

// handleListBanned answers with the full ban ledger (admin/debug).
func (h *Hub) handleListBanned(c *Client) {
	h.sendEvent(c, domain.EventBannedUsersList, h.ledger.Bans())
}

func (h *Hub) sendError(c *Client, message string) {
	h.sendEvent(c, domain.EventError, domain.ErrorInfo{Message: message})
}

func (h *Hub) sendBlocked(c *Client, reason string) {
	h.sendEvent(c, domain.EventMessageBlocked, domain.Blocked{Reason: reason})
}
