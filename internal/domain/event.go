package domain

import (
	"encoding/json"
	"time"
)

// EventType discriminates wire frames. Every frame on the socket has the
// shape {"type": ..., "data": ...} in both directions.
type EventType string

// Client -> relay events.
const (
	EventSetName        EventType = "set_name"
	EventMessage        EventType = "message"
	EventAudioMessage   EventType = "audio_message"
	EventImageMessage   EventType = "image_message"
	EventVideoMessage   EventType = "video_message"
	EventStickerMessage EventType = "sticker_message"
	EventTypingStart    EventType = "typing_start"
	EventTypingStop     EventType = "typing_stop"
	EventCheckBanned    EventType = "check_banned"
	EventGetBannedUsers EventType = "get_banned_users"
)

// Relay -> client events.
const (
	EventUserID          EventType = "user_id"
	EventOnlineCount     EventType = "online_count"
	EventUserTyping      EventType = "user_typing"
	EventMessageBlocked  EventType = "message_blocked"
	EventUserBanned      EventType = "user_banned"
	EventUserBannedNotif EventType = "user_banned_notification"
	EventError           EventType = "error"
	EventBannedStatus    EventType = "banned_status"
	EventBannedUsersList EventType = "banned_users_list"
)

// Event is a single wire frame.
type Event struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Encode marshals an outbound frame.
func Encode(t EventType, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: t, Data: raw})
}

// UserIdentity is the user_id payload sent right after a connection is accepted.
type UserIdentity struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
}

// UserInfo is one entry of the online_count user list.
type UserInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OnlineCount is broadcast whenever the registry changes.
type OnlineCount struct {
	Count int        `json:"count"`
	Users []UserInfo `json:"users"`
}

// ChatMessage is the broadcast payload for text, audio, image, video and
// sticker events. Content carries the text or the media data-URL.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	FileName  string    `json:"fileName,omitempty"`
	FileSize  int64     `json:"fileSize,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UserTyping is the fan-out payload for typing indicators.
type UserTyping struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	IsTyping bool   `json:"isTyping"`
}

// Blocked tells the sender a message was rejected without disconnecting them.
type Blocked struct {
	Reason string `json:"reason"`
}

// Banned is sent to the offender immediately before the forced close.
type Banned struct {
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// BanNotice is broadcast to the remaining peers when someone is banned.
type BanNotice struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	Reason   string `json:"reason"`
}

// ErrorInfo is the error payload for malformed or invalid requests.
type ErrorInfo struct {
	Message string `json:"message"`
}

// BannedStatus answers a check_banned request.
type BannedStatus struct {
	IsBanned bool       `json:"isBanned"`
	BanInfo  *BanRecord `json:"banInfo"`
}

// AudioPayload is the inbound audio_message data.
type AudioPayload struct {
	Audio string `json:"audio"`
}

// ImagePayload is the inbound image_message data.
type ImagePayload struct {
	Image    string `json:"image"`
	FileName string `json:"fileName"`
}

// VideoPayload is the inbound video_message data.
type VideoPayload struct {
	Video    string `json:"video"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// StickerPayload is the inbound sticker_message data.
type StickerPayload struct {
	Sticker string `json:"sticker"`
}
