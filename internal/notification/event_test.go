package notification

import (
	"testing"
)

func TestDecodeUserUpdated(t *testing.T) {
	ev, err := DecodeMessage(ChannelUserUpdated, []byte(`{"user":{"id":"u1","username":"alice","notifications_enabled":true}}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	updated, ok := ev.(*UserUpdatedEvent)
	if !ok {
		t.Fatalf("decoded %T, want *UserUpdatedEvent", ev)
	}
	if updated.User.ID != "u1" || updated.User.Username != "alice" {
		t.Errorf("unexpected user: %+v", updated.User)
	}
}

func TestDecodeUserRemoved(t *testing.T) {
	for _, channel := range []string{ChannelUserMarkedDeleted, ChannelUserDeleted} {
		ev, err := DecodeMessage(channel, []byte(`{"user_id":"u1"}`))
		if err != nil {
			t.Fatalf("DecodeMessage(%s): %v", channel, err)
		}
		removed, ok := ev.(*UserRemovedEvent)
		if !ok {
			t.Fatalf("decoded %T, want *UserRemovedEvent", ev)
		}
		if removed.UserID != "u1" {
			t.Errorf("UserID = %q, want u1", removed.UserID)
		}
	}
}

func TestDecodeTokenUpdated(t *testing.T) {
	ev, err := DecodeMessage(ChannelTokenUpdated, []byte(`{"user":{"id":"u1"},"token":{"id":"t1","user_id":"u1","is_mobile":true}}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	updated, ok := ev.(*TokenUpdatedEvent)
	if !ok {
		t.Fatalf("decoded %T, want *TokenUpdatedEvent", ev)
	}
	if updated.Token.ID != "t1" || updated.Token.IsMobile == nil || !*updated.Token.IsMobile {
		t.Errorf("unexpected token: %+v", updated.Token)
	}
}

func TestDecodeTokenRemoved(t *testing.T) {
	ev, err := DecodeMessage(ChannelTokenRemoved, []byte(`{"user_id":"u1","token_id":"t1"}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	removed, ok := ev.(*TokenRemovedEvent)
	if !ok {
		t.Fatalf("decoded %T, want *TokenRemovedEvent", ev)
	}
	if removed.UserID != "u1" || removed.TokenID != "t1" {
		t.Errorf("unexpected event: %+v", removed)
	}
}

func TestDecodeNotificationChannels(t *testing.T) {
	payload := []byte(`{"recipient":"u1","data":{"id":"m1"},"title":"hi","body":"there","url":"/messages/m1"}`)
	for _, channel := range []string{
		ChannelPrivateMessageCreated,
		ChannelPrivateMessageUpdated,
		ChannelPublicMessageLiked,
		ChannelPublicMessageReplied,
		ChannelChallengeJoined,
		ChannelChallengeDuplicated,
		ChannelHabitReminder,
	} {
		ev, err := DecodeMessage(channel, payload)
		if err != nil {
			t.Fatalf("DecodeMessage(%s): %v", channel, err)
		}
		notif, ok := ev.(*NotificationEvent)
		if !ok {
			t.Fatalf("decoded %T, want *NotificationEvent", ev)
		}
		if notif.Kind.Channel() != channel {
			t.Errorf("kind channel = %q, want %q", notif.Kind.Channel(), channel)
		}
		if notif.Recipient != "u1" || notif.Title != "hi" || notif.Body != "there" || notif.URL != "/messages/m1" {
			t.Errorf("unexpected event: %+v", notif)
		}
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		payload string
	}{
		{"unknown channel", "surprise_channel", `{"recipient":"u1"}`},
		{"malformed json", ChannelPrivateMessageCreated, `{"recipient":`},
		{"missing recipient", ChannelPrivateMessageCreated, `{"data":{}}`},
		{"missing user id", ChannelUserUpdated, `{"user":{}}`},
		{"missing token id", ChannelTokenRemoved, `{"user_id":"u1"}`},
		{"malformed invalidation", ChannelUserDeleted, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeMessage(tt.channel, []byte(tt.payload)); err == nil {
				t.Errorf("DecodeMessage(%s, %s) succeeded, want error", tt.channel, tt.payload)
			}
		})
	}
}
