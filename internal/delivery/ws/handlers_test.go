package ws

import (
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/salachat/server/internal/config"
	"github.com/salachat/server/internal/domain"
)

func TestSetName_Valid(t *testing.T) {
	h := testHub()
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventSetName, "  Maria  ")

	if c.User.Name != "Maria" {
		t.Errorf("expected trimmed name Maria, got %q", c.User.Name)
	}

	evt, ok := findEvent(drain(t, c), domain.EventOnlineCount)
	if !ok {
		t.Fatal("rename must republish the online count")
	}
	oc := decode[domain.OnlineCount](t, evt)
	if oc.Users[0].Name != "Maria" {
		t.Errorf("online count must carry the new name, got %q", oc.Users[0].Name)
	}
}

func TestSetName_Invalid(t *testing.T) {
	h := testHub()
	c := connect(t, h, "fp-1")

	for _, name := range []string{"ab", "   a   ", strings.Repeat("x", 21)} {
		drain(t, c)
		inbound(t, h, c, domain.EventSetName, name)

		events := drain(t, c)
		if _, ok := findEvent(events, domain.EventError); !ok {
			t.Errorf("name %q: expected an error event", name)
		}
		if _, ok := findEvent(events, domain.EventOnlineCount); ok {
			t.Errorf("name %q: rejected rename must not republish the count", name)
		}
		if c.User.Name != "Usuário 1" {
			t.Errorf("name %q: rejected rename must not mutate, got %q", name, c.User.Name)
		}
	}
}

func TestSetName_MalformedPayload(t *testing.T) {
	h := testHub()
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventSetName, map[string]string{"name": "Maria"})

	if _, ok := findEvent(drain(t, c), domain.EventError); !ok {
		t.Error("non-string name payload must produce an error event")
	}
	if c.User.Name != "Usuário 1" {
		t.Errorf("name must be unchanged, got %q", c.User.Name)
	}
}

func TestText_BroadcastToEveryone(t *testing.T) {
	h := testHub()
	c1 := connect(t, h, "fp-1")
	c2 := connect(t, h, "fp-2")
	drain(t, c1)
	drain(t, c2)

	inbound(t, h, c1, domain.EventMessage, "oi pessoal, bom dia")

	for _, c := range []*Client{c1, c2} {
		evt, ok := findEvent(drain(t, c), domain.EventMessage)
		if !ok {
			t.Fatalf("user %d did not receive the broadcast", c.User.ID)
		}
		msg := decode[domain.ChatMessage](t, evt)
		if msg.ID == "" {
			t.Error("broadcast message must carry an id")
		}
		if msg.UserID != c1.User.ID || msg.UserName != c1.User.Name {
			t.Errorf("sender attribution wrong: %+v", msg)
		}
		if msg.Content != "oi pessoal, bom dia" {
			t.Errorf("unexpected content %q", msg.Content)
		}
	}
}

func TestText_EmptyIsIgnored(t *testing.T) {
	h := testHub()
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventMessage, "   ")

	if events := drain(t, c); len(events) != 0 {
		t.Errorf("blank message must produce no output, got %v", events)
	}
}

func TestText_TooLongIsBlockedNotBanned(t *testing.T) {
	h := testHub(func(cfg *config.Config) { cfg.MaxMessageChars = 5 })
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventMessage, "mensagem comprida demais")

	events := drain(t, c)
	if _, ok := findEvent(events, domain.EventMessageBlocked); !ok {
		t.Error("oversized message must be blocked")
	}
	if _, ok := findEvent(events, domain.EventMessage); ok {
		t.Error("oversized message must not be broadcast")
	}
	if h.ClientCount() != 1 {
		t.Error("length violations must not ban")
	}
}

func TestText_LinkBansSender(t *testing.T) {
	h := testHub()
	c1 := connect(t, h, "fp-1")
	c2 := connect(t, h, "fp-2")
	drain(t, c1)
	drain(t, c2)

	inbound(t, h, c1, domain.EventMessage, "confira este site www.exemplo.com")

	// Offender: user_banned queued before the close, policy close code set.
	events := drain(t, c1)
	evt, ok := findEvent(events, domain.EventUserBanned)
	if !ok {
		t.Fatal("offender must receive user_banned")
	}
	banned := decode[domain.Banned](t, evt)
	if banned.Reason != "Envio de links não autorizado" {
		t.Errorf("unexpected ban reason %q", banned.Reason)
	}
	if _, ok := findEvent(events, domain.EventMessage); ok {
		t.Error("the offending message must not reach anyone")
	}
	if c1.closeCode != websocket.ClosePolicyViolation {
		t.Errorf("expected policy violation close code, got %d", c1.closeCode)
	}

	// Peers: notification plus an updated count, no message.
	events = drain(t, c2)
	evt, ok = findEvent(events, domain.EventUserBannedNotif)
	if !ok {
		t.Fatal("peers must receive user_banned_notification")
	}
	notice := decode[domain.BanNotice](t, evt)
	if notice.UserID != c1.User.ID {
		t.Errorf("notification names the wrong user: %+v", notice)
	}
	evt, ok = findEvent(events, domain.EventOnlineCount)
	if !ok {
		t.Fatal("ban must republish the online count")
	}
	if oc := decode[domain.OnlineCount](t, evt); oc.Count != 1 {
		t.Errorf("expected count 1 after the ban, got %d", oc.Count)
	}
	if _, ok := findEvent(events, domain.EventMessage); ok {
		t.Error("the offending message must not reach peers")
	}

	if h.ClientCount() != 1 {
		t.Errorf("offender must be deregistered, got %d clients", h.ClientCount())
	}
	if len(h.BannedUsers()) != 1 {
		t.Errorf("expected one ledger entry, got %d", len(h.BannedUsers()))
	}
}

func TestText_BannedWordBansWithReason(t *testing.T) {
	h := testHub()
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventMessage, "esse perfil é fake")

	evt, ok := findEvent(drain(t, c), domain.EventUserBanned)
	if !ok {
		t.Fatal("expected user_banned")
	}
	banned := decode[domain.Banned](t, evt)
	if !strings.Contains(banned.Reason, "fake") {
		t.Errorf("reason must name the matched entry, got %q", banned.Reason)
	}

	rec, ok := h.ledger.Lookup(c.User.ID)
	if !ok {
		t.Fatal("ban must be recorded in the ledger")
	}
	if rec.Fingerprint != "fp-1" {
		t.Errorf("ledger entry must carry the fingerprint, got %q", rec.Fingerprint)
	}
}

func TestText_AfterBanNothingIsBroadcast(t *testing.T) {
	h := testHub()
	c1 := connect(t, h, "fp-1")
	c2 := connect(t, h, "fp-2")
	inbound(t, h, c1, domain.EventMessage, "veja http://exemplo.com")
	drain(t, c2)

	// Stale socket keeps talking after the ban.
	inbound(t, h, c1, domain.EventMessage, "mensagem inocente")

	if _, ok := findEvent(drain(t, c2), domain.EventMessage); ok {
		t.Error("messages from a banned user must never be broadcast")
	}
}

func TestText_StrikesPolicyWarnsBeforeBanning(t *testing.T) {
	h := testHub(func(cfg *config.Config) {
		cfg.BanPolicy = config.BanPolicyStrikes
		cfg.StrikeLimit = 2
	})
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventMessage, "acesse www.golpe.com")

	events := drain(t, c)
	evt, ok := findEvent(events, domain.EventMessageBlocked)
	if !ok {
		t.Fatal("first strike must only warn")
	}
	blocked := decode[domain.Blocked](t, evt)
	if !strings.Contains(blocked.Reason, "advertência 1 de 2") {
		t.Errorf("warning must show the strike count, got %q", blocked.Reason)
	}
	if _, ok := findEvent(events, domain.EventUserBanned); ok {
		t.Fatal("first strike must not ban")
	}
	if h.ClientCount() != 1 {
		t.Fatal("warned user must stay connected")
	}

	inbound(t, h, c, domain.EventMessage, "acesse www.golpe.com de novo")

	if _, ok := findEvent(drain(t, c), domain.EventUserBanned); !ok {
		t.Error("reaching the strike limit must ban")
	}
	if h.ClientCount() != 0 {
		t.Error("banned user must be deregistered")
	}
}

func TestText_SpamGuardWarnsThenBans(t *testing.T) {
	h := testHub(func(cfg *config.Config) {
		cfg.SpamGuardEnabled = true
		cfg.SpamWarnLimit = 3
		cfg.SpamBanLimit = 5
	})
	c := connect(t, h, "fp-1")
	drain(t, c)

	for i := 0; i < 2; i++ {
		inbound(t, h, c, domain.EventMessage, "oi")
	}
	if n := countEvents(drain(t, c), domain.EventMessage); n != 2 {
		t.Fatalf("expected 2 broadcasts below the warn threshold, got %d", n)
	}

	inbound(t, h, c, domain.EventMessage, "oi")
	events := drain(t, c)
	if _, ok := findEvent(events, domain.EventMessageBlocked); !ok {
		t.Fatal("crossing the warn threshold must block the message")
	}
	if _, ok := findEvent(events, domain.EventMessage); ok {
		t.Fatal("warned message must not be broadcast")
	}

	inbound(t, h, c, domain.EventMessage, "oi")
	inbound(t, h, c, domain.EventMessage, "oi")

	if _, ok := findEvent(drain(t, c), domain.EventUserBanned); !ok {
		t.Error("crossing the ban threshold must ban")
	}
	if _, ok := h.ledger.Lookup(c.User.ID); !ok {
		t.Error("spam ban must be recorded in the ledger")
	}
}

func TestVideo_DisabledBySwitch(t *testing.T) {
	h := testHub(func(cfg *config.Config) { cfg.VideoEnabled = false })
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventVideoMessage, domain.VideoPayload{Video: "data:video/mp4;base64,AAAA"})

	events := drain(t, c)
	if _, ok := findEvent(events, domain.EventMessageBlocked); !ok {
		t.Error("video must be blocked while the switch is off")
	}
	if _, ok := findEvent(events, domain.EventVideoMessage); ok {
		t.Error("disabled video must not be broadcast")
	}
}

func TestVideo_OversizedIsBlocked(t *testing.T) {
	h := testHub(func(cfg *config.Config) { cfg.MaxVideoBytes = 10 })
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventVideoMessage, domain.VideoPayload{Video: strings.Repeat("A", 11)})

	events := drain(t, c)
	if _, ok := findEvent(events, domain.EventMessageBlocked); !ok {
		t.Error("oversized video must be blocked")
	}
	if h.ClientCount() != 1 {
		t.Error("oversized video must not ban")
	}

	// Declared size is checked too, independent of the payload length.
	inbound(t, h, c, domain.EventVideoMessage, domain.VideoPayload{Video: "AA", FileSize: 100})
	if _, ok := findEvent(drain(t, c), domain.EventMessageBlocked); !ok {
		t.Error("declared oversize must be blocked")
	}
}

func TestMedia_BroadcastWithDefaults(t *testing.T) {
	h := testHub()
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventImageMessage, domain.ImagePayload{Image: "data:image/png;base64,AAAA"})
	evt, ok := findEvent(drain(t, c), domain.EventImageMessage)
	if !ok {
		t.Fatal("image must be broadcast")
	}
	if msg := decode[domain.ChatMessage](t, evt); msg.FileName != "imagem.png" {
		t.Errorf("expected default filename imagem.png, got %q", msg.FileName)
	}

	inbound(t, h, c, domain.EventVideoMessage, domain.VideoPayload{Video: "data:video/mp4;base64,AAAA", FileSize: 4})
	evt, ok = findEvent(drain(t, c), domain.EventVideoMessage)
	if !ok {
		t.Fatal("video must be broadcast")
	}
	if msg := decode[domain.ChatMessage](t, evt); msg.FileName != "video.mp4" {
		t.Errorf("expected default filename video.mp4, got %q", msg.FileName)
	}

	inbound(t, h, c, domain.EventAudioMessage, domain.AudioPayload{Audio: "data:audio/webm;base64,AAAA"})
	if _, ok := findEvent(drain(t, c), domain.EventAudioMessage); !ok {
		t.Error("audio must be broadcast")
	}

	inbound(t, h, c, domain.EventStickerMessage, domain.StickerPayload{Sticker: "🐐"})
	if _, ok := findEvent(drain(t, c), domain.EventStickerMessage); !ok {
		t.Error("sticker must be broadcast")
	}
}

func TestMedia_MalformedPayloadIsDropped(t *testing.T) {
	h := testHub()
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventImageMessage, domain.ImagePayload{})
	inbound(t, h, c, domain.EventAudioMessage, "não é um objeto")

	if events := drain(t, c); len(events) != 0 {
		t.Errorf("malformed media must produce no output, got %v", events)
	}
}

func TestTyping_FanOut(t *testing.T) {
	h := testHub()
	c1 := connect(t, h, "fp-1")
	c2 := connect(t, h, "fp-2")
	drain(t, c1)
	drain(t, c2)

	inbound(t, h, c1, domain.EventTypingStart, nil)

	for _, c := range []*Client{c1, c2} {
		evt, ok := findEvent(drain(t, c), domain.EventUserTyping)
		if !ok {
			t.Fatalf("user %d did not receive the typing event", c.User.ID)
		}
		typing := decode[domain.UserTyping](t, evt)
		if typing.UserID != c1.User.ID || !typing.IsTyping {
			t.Errorf("unexpected typing payload %+v", typing)
		}
	}

	inbound(t, h, c1, domain.EventTypingStop, nil)
	evt, _ := findEvent(drain(t, c2), domain.EventUserTyping)
	if typing := decode[domain.UserTyping](t, evt); typing.IsTyping {
		t.Error("typing_stop must fan out isTyping=false")
	}
}

func TestCheckBanned(t *testing.T) {
	h := testHub()
	c := connect(t, h, "fp-1")
	drain(t, c)

	inbound(t, h, c, domain.EventCheckBanned, nil)

	evt, ok := findEvent(drain(t, c), domain.EventBannedStatus)
	if !ok {
		t.Fatal("expected a banned_status answer")
	}
	if status := decode[domain.BannedStatus](t, evt); status.IsBanned {
		t.Errorf("clean user must not report banned: %+v", status)
	}
}

func TestGetBannedUsers(t *testing.T) {
	h := testHub()
	c1 := connect(t, h, "fp-1")
	c2 := connect(t, h, "fp-2")
	inbound(t, h, c1, domain.EventMessage, "olha este golpe: www.exemplo.com")
	drain(t, c2)

	inbound(t, h, c2, domain.EventGetBannedUsers, nil)

	evt, ok := findEvent(drain(t, c2), domain.EventBannedUsersList)
	if !ok {
		t.Fatal("expected a banned_users_list answer")
	}
	list := decode[[]domain.BanRecord](t, evt)
	if len(list) != 1 || list[0].UserID != c1.User.ID {
		t.Errorf("expected the offender in the list, got %+v", list)
	}
}
