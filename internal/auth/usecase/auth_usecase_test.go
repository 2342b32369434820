package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	authdomain "habitlink-backend/internal/auth/domain"
	"habitlink-backend/internal/notification"
	"habitlink-backend/pkg/config"
)

type fakeUserRepo struct {
	users map[string]*authdomain.User
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	user.ID = "u-" + user.Username
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	u, ok := r.users[id]
	if !ok || u.IsDeleted {
		return nil, nil
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email && !u.IsDeleted {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error { r.users[user.ID] = user; return nil }

func (r *fakeUserRepo) MarkDeleted(id string) error {
	if u, ok := r.users[id]; ok {
		u.IsDeleted = true
	}
	return nil
}

type fakeTokenRepo struct {
	tokens map[string]*authdomain.DeviceToken
	nextID int
}

func (r *fakeTokenRepo) Create(token *authdomain.DeviceToken) error {
	r.nextID++
	token.ID = fmt.Sprintf("t%d", r.nextID)
	r.tokens[token.ID] = token
	return nil
}

func (r *fakeTokenRepo) FindByID(id string) (*authdomain.DeviceToken, error) {
	return r.tokens[id], nil
}

func (r *fakeTokenRepo) FindByUserID(userID string) ([]authdomain.DeviceToken, error) {
	var out []authdomain.DeviceToken
	for _, t := range r.tokens {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTokenRepo) SavePushToken(tokenID, pushToken string) error {
	r.tokens[tokenID].PushToken = &pushToken
	return nil
}

func (r *fakeTokenRepo) ClearPushToken(tokenID string) error {
	r.tokens[tokenID].PushToken = nil
	return nil
}

func (r *fakeTokenRepo) ExtendExpiry(tokenID string, until time.Time) error {
	r.tokens[tokenID].ExpiresAt = until
	return nil
}

func (r *fakeTokenRepo) Delete(tokenID string) error { delete(r.tokens, tokenID); return nil }

func (r *fakeTokenRepo) DeleteByUserID(userID string) error {
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

type publication struct {
	channel string
	payload any
}

type fakePublisher struct {
	published []publication
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, payload any) error {
	p.published = append(p.published, publication{channel: channel, payload: payload})
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   15 * time.Minute,
		DeviceTokenExpiry: 720 * time.Hour,
	}
}

type closeSender struct {
	closed bool
}

func (s *closeSender) Send(notification.Frame) error { return nil }
func (s *closeSender) Close()                        { s.closed = true }

// Deleting an account must revoke every device token on the bus, so the
// relay closes the account's live sessions, before announcing the deletion.
func TestDeleteAccountRevokesDeviceTokens(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*authdomain.User{
		"u1": {ID: "u1", Username: "alice", Email: "alice@example.com"},
	}}
	tokens := &fakeTokenRepo{tokens: map[string]*authdomain.DeviceToken{
		"t1": {ID: "t1", UserID: "u1"},
		"t2": {ID: "t2", UserID: "u1"},
		"t9": {ID: "t9", UserID: "u2"},
	}}
	bus := &fakePublisher{}
	u := NewAuthUsecase(users, tokens, bus, testConfig())

	// One live session per token, the way the relay would hold them.
	registry := notification.NewRegistry()
	s1 := &closeSender{}
	s2 := &closeSender{}
	registry.Register("u1", "t1", s1)
	registry.Register("u1", "t2", s2)

	if err := u.DeleteAccount(t.Context(), "u1"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	removed := map[string]bool{}
	sawDeleted := false
	for _, pub := range bus.published {
		switch pub.channel {
		case notification.ChannelTokenRemoved:
			if sawDeleted {
				t.Error("token removal published after the deletion announcement")
			}
			ev, ok := pub.payload.(notification.TokenRemovedEvent)
			if !ok {
				t.Fatalf("unexpected payload type %T", pub.payload)
			}
			if ev.UserID != "u1" {
				t.Errorf("token removal for user %q, want u1", ev.UserID)
			}
			removed[ev.TokenID] = true
			// Drive the relay's reaction to the event.
			registry.CloseAll(ev.UserID, ev.TokenID)
		case notification.ChannelUserMarkedDeleted:
			sawDeleted = true
		default:
			t.Errorf("unexpected channel %q", pub.channel)
		}
	}

	if !removed["t1"] || !removed["t2"] || len(removed) != 2 {
		t.Errorf("revoked tokens = %v, want exactly t1 and t2", removed)
	}
	if !sawDeleted {
		t.Error("user_marked_as_deleted was not published")
	}
	if !s1.closed || !s2.closed {
		t.Error("live sessions survived account deletion")
	}
	if _, ok := tokens.tokens["t9"]; !ok {
		t.Error("another user's token was deleted")
	}
	if len(tokens.tokens) != 1 {
		t.Errorf("expected only the other user's token to remain, got %d", len(tokens.tokens))
	}
}

func TestLogoutPublishesTokenRemoved(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*authdomain.User{
		"u1": {ID: "u1", Username: "alice"},
	}}
	tokens := &fakeTokenRepo{tokens: map[string]*authdomain.DeviceToken{
		"t1": {ID: "t1", UserID: "u1"},
	}}
	bus := &fakePublisher{}
	u := NewAuthUsecase(users, tokens, bus, testConfig())

	if err := u.Logout(t.Context(), "u1", "t1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if len(bus.published) != 1 || bus.published[0].channel != notification.ChannelTokenRemoved {
		t.Fatalf("published = %+v, want one %s event", bus.published, notification.ChannelTokenRemoved)
	}
	ev := bus.published[0].payload.(notification.TokenRemovedEvent)
	if ev.UserID != "u1" || ev.TokenID != "t1" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if len(tokens.tokens) != 0 {
		t.Error("device token row survived logout")
	}
}
