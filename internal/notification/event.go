package notification

import (
	"encoding/json"
	"fmt"

	authdomain "habitlink-backend/internal/auth/domain"
)

// Bus channel names. The relay subscribes to all of them at startup; the
// first group invalidates the process-local cache, the second group carries
// user-facing notifications.
const (
	ChannelUserUpdated       = "user_updated"
	ChannelUserMarkedDeleted = "user_marked_as_deleted"
	ChannelUserDeleted       = "user_deleted"
	ChannelTokenUpdated      = "user_token_updated"
	ChannelTokenRemoved      = "user_token_removed"

	ChannelPrivateMessageCreated = "private_message_created"
	ChannelPrivateMessageUpdated = "private_message_updated"
	ChannelPublicMessageLiked    = "public_message_liked"
	ChannelPublicMessageReplied  = "public_message_replied"
	ChannelChallengeJoined       = "challenge_joined"
	ChannelChallengeDuplicated   = "challenge_duplicated"
	ChannelHabitReminder         = "habit_reminder"
)

// Channels returns every channel the relay subscribes to.
func Channels() []string {
	return []string{
		ChannelUserUpdated,
		ChannelUserMarkedDeleted,
		ChannelUserDeleted,
		ChannelTokenUpdated,
		ChannelTokenRemoved,
		ChannelPrivateMessageCreated,
		ChannelPrivateMessageUpdated,
		ChannelPublicMessageLiked,
		ChannelPublicMessageReplied,
		ChannelChallengeJoined,
		ChannelChallengeDuplicated,
		ChannelHabitReminder,
	}
}

// Event is the closed union of everything the bus can deliver. A message is
// decoded exactly once, by channel name, into one of the concrete types
// below; consumers switch over the union instead of re-inspecting strings.
type Event interface {
	isEvent()
}

// UserUpdatedEvent carries the full replacement profile.
type UserUpdatedEvent struct {
	User authdomain.User `json:"user"`
}

// UserRemovedEvent evicts a user from the cache, for both soft and hard
// deletion.
type UserRemovedEvent struct {
	UserID string `json:"user_id"`
}

// TokenUpdatedEvent carries the owning user's profile alongside the new or
// updated device token.
type TokenUpdatedEvent struct {
	User  authdomain.User        `json:"user"`
	Token authdomain.DeviceToken `json:"token"`
}

// TokenRemovedEvent evicts one device token; live sessions bound to it are
// closed best-effort.
type TokenRemovedEvent struct {
	UserID  string `json:"user_id"`
	TokenID string `json:"token_id"`
}

// NotificationEvent is one user-facing notification to fan out. Title, Body
// and URL are optional; push fallback requires title and body.
type NotificationEvent struct {
	Kind      Kind            `json:"-"`
	Recipient string          `json:"recipient"`
	Data      json.RawMessage `json:"data"`
	Title     string          `json:"title,omitempty"`
	Body      string          `json:"body,omitempty"`
	URL       string          `json:"url,omitempty"`
}

func (*UserUpdatedEvent) isEvent()  {}
func (*UserRemovedEvent) isEvent()  {}
func (*TokenUpdatedEvent) isEvent() {}
func (*TokenRemovedEvent) isEvent() {}
func (*NotificationEvent) isEvent() {}

// Frame is the JSON envelope written to a live session.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// DecodeMessage turns a raw bus message into an Event based on the channel
// it arrived on. Unknown channels and malformed payloads return an error;
// the listener logs and drops them.
func DecodeMessage(channel string, data []byte) (Event, error) {
	switch channel {
	case ChannelUserUpdated:
		var ev UserUpdatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", channel, err)
		}
		if ev.User.ID == "" {
			return nil, fmt.Errorf("malformed %s payload: missing user id", channel)
		}
		return &ev, nil

	case ChannelUserMarkedDeleted, ChannelUserDeleted:
		var ev UserRemovedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", channel, err)
		}
		if ev.UserID == "" {
			return nil, fmt.Errorf("malformed %s payload: missing user id", channel)
		}
		return &ev, nil

	case ChannelTokenUpdated:
		var ev TokenUpdatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", channel, err)
		}
		if ev.User.ID == "" || ev.Token.ID == "" {
			return nil, fmt.Errorf("malformed %s payload: missing user or token id", channel)
		}
		return &ev, nil

	case ChannelTokenRemoved:
		var ev TokenRemovedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", channel, err)
		}
		if ev.UserID == "" || ev.TokenID == "" {
			return nil, fmt.Errorf("malformed %s payload: missing user or token id", channel)
		}
		return &ev, nil
	}

	kind, ok := KindFromChannel(channel)
	if !ok {
		return nil, fmt.Errorf("unknown channel: %s", channel)
	}

	var ev NotificationEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("malformed %s payload: %w", channel, err)
	}
	if ev.Recipient == "" {
		return nil, fmt.Errorf("malformed %s payload: missing recipient", channel)
	}
	ev.Kind = kind
	return &ev, nil
}
