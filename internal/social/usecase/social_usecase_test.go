package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	authdomain "habitlink-backend/internal/auth/domain"
	"habitlink-backend/internal/notification"
	socialdomain "habitlink-backend/internal/social/domain"
	socialdto "habitlink-backend/internal/social/dto"
)

type fakeUserRepo struct {
	users map[string]*authdomain.User
}

func (r *fakeUserRepo) Create(user *authdomain.User) error { r.users[user.ID] = user; return nil }

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) { return r.users[id], nil }

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error { r.users[user.ID] = user; return nil }

func (r *fakeUserRepo) MarkDeleted(id string) error { delete(r.users, id); return nil }

type fakeMessageRepo struct {
	messages map[string]*socialdomain.Message
	likes    []*socialdomain.Like
	nextID   int
}

func (r *fakeMessageRepo) Create(message *socialdomain.Message) error {
	r.nextID++
	message.ID = fmt.Sprintf("m%d", r.nextID)
	r.messages[message.ID] = message
	return nil
}

func (r *fakeMessageRepo) FindByID(id string) (*socialdomain.Message, error) {
	return r.messages[id], nil
}

func (r *fakeMessageRepo) Update(message *socialdomain.Message) error {
	r.messages[message.ID] = message
	return nil
}

func (r *fakeMessageRepo) SaveLike(like *socialdomain.Like) error {
	r.likes = append(r.likes, like)
	return nil
}

type fakeChallengeRepo struct {
	challenges map[string]*socialdomain.Challenge
	members    []*socialdomain.ChallengeMember
	nextID     int
}

func (r *fakeChallengeRepo) Create(challenge *socialdomain.Challenge) error {
	r.nextID++
	challenge.ID = fmt.Sprintf("c%d", r.nextID)
	r.challenges[challenge.ID] = challenge
	return nil
}

func (r *fakeChallengeRepo) FindByID(id string) (*socialdomain.Challenge, error) {
	return r.challenges[id], nil
}

func (r *fakeChallengeRepo) AddMember(member *socialdomain.ChallengeMember) error {
	r.members = append(r.members, member)
	return nil
}

type publication struct {
	channel string
	event   notification.NotificationEvent
}

type fakePublisher struct {
	published []publication
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, payload any) error {
	event, ok := payload.(notification.NotificationEvent)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", payload)
	}
	p.published = append(p.published, publication{channel: channel, event: event})
	return nil
}

type fixture struct {
	usecase    SocialUsecase
	users      *fakeUserRepo
	messages   *fakeMessageRepo
	challenges *fakeChallengeRepo
	bus        *fakePublisher
}

func newFixture(t *testing.T, users ...*authdomain.User) *fixture {
	t.Helper()
	f := &fixture{
		users:      &fakeUserRepo{users: map[string]*authdomain.User{}},
		messages:   &fakeMessageRepo{messages: map[string]*socialdomain.Message{}},
		challenges: &fakeChallengeRepo{challenges: map[string]*socialdomain.Challenge{}},
		bus:        &fakePublisher{},
	}
	for _, u := range users {
		f.users.users[u.ID] = u
	}
	f.usecase = NewSocialUsecase(f.messages, f.challenges, f.users, f.bus)
	return f
}

func (f *fixture) lastPublished(t *testing.T) publication {
	t.Helper()
	if len(f.bus.published) == 0 {
		t.Fatal("expected an event to be published")
	}
	return f.bus.published[len(f.bus.published)-1]
}

func TestSendPrivateMessagePublishes(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)

	msg, err := f.usecase.SendPrivateMessage(t.Context(), "alice", &socialdto.SendMessageRequest{
		RecipientID: "bob",
		Body:        "see you at the gym",
	})
	if err != nil {
		t.Fatalf("SendPrivateMessage: %v", err)
	}

	pub := f.lastPublished(t)
	if pub.channel != notification.ChannelPrivateMessageCreated {
		t.Errorf("channel = %q, want %q", pub.channel, notification.ChannelPrivateMessageCreated)
	}
	if pub.event.Recipient != "bob" {
		t.Errorf("recipient = %q, want bob", pub.event.Recipient)
	}
	if pub.event.Title != "New message from alice" {
		t.Errorf("title = %q", pub.event.Title)
	}
	if pub.event.Body != "see you at the gym" {
		t.Errorf("body = %q", pub.event.Body)
	}
	if pub.event.URL != "/messages/"+msg.ID {
		t.Errorf("url = %q", pub.event.URL)
	}

	var payload socialdomain.Message
	if err := json.Unmarshal(pub.event.Data, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.ID != msg.ID {
		t.Errorf("payload id = %q, want %q", payload.ID, msg.ID)
	}
}

func TestSendPrivateMessageTruncatesLongBody(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)

	long := strings.Repeat("x", 300)
	if _, err := f.usecase.SendPrivateMessage(t.Context(), "alice", &socialdto.SendMessageRequest{
		RecipientID: "bob",
		Body:        long,
	}); err != nil {
		t.Fatalf("SendPrivateMessage: %v", err)
	}

	body := f.lastPublished(t).event.Body
	if len(body) != 100 {
		t.Errorf("body length = %d, want 100", len(body))
	}
	if !strings.HasSuffix(body, "...") {
		t.Errorf("body %q not truncated with ellipsis", body)
	}
}

func TestSendPrivateMessageTruncatesOnRuneBoundary(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)

	// Three-byte runes ensure the naive byte cut would land mid-rune.
	if _, err := f.usecase.SendPrivateMessage(t.Context(), "alice", &socialdto.SendMessageRequest{
		RecipientID: "bob",
		Body:        strings.Repeat("続", 100),
	}); err != nil {
		t.Fatalf("SendPrivateMessage: %v", err)
	}

	body := f.lastPublished(t).event.Body
	if !utf8.ValidString(body) {
		t.Errorf("truncated body is not valid UTF-8: %q", body)
	}
	if len(body) > 100 {
		t.Errorf("body length = %d, want at most 100", len(body))
	}
	if !strings.HasSuffix(body, "...") {
		t.Errorf("body %q not truncated with ellipsis", body)
	}
}

func TestSendPrivateMessageUnknownRecipient(t *testing.T) {
	f := newFixture(t, &authdomain.User{ID: "alice", Username: "alice"})

	if _, err := f.usecase.SendPrivateMessage(t.Context(), "alice", &socialdto.SendMessageRequest{
		RecipientID: "ghost",
		Body:        "hello?",
	}); err == nil {
		t.Fatal("expected error for unknown recipient")
	}
	if len(f.bus.published) != 0 {
		t.Errorf("published %d events, want 0", len(f.bus.published))
	}
}

func TestUpdatePrivateMessageOmitsPushContent(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)
	msg, err := f.usecase.SendPrivateMessage(t.Context(), "alice", &socialdto.SendMessageRequest{
		RecipientID: "bob", Body: "draft",
	})
	if err != nil {
		t.Fatalf("SendPrivateMessage: %v", err)
	}

	if _, err := f.usecase.UpdatePrivateMessage(t.Context(), "alice", msg.ID, &socialdto.UpdateMessageRequest{
		Body: "final",
	}); err != nil {
		t.Fatalf("UpdatePrivateMessage: %v", err)
	}

	pub := f.lastPublished(t)
	if pub.channel != notification.ChannelPrivateMessageUpdated {
		t.Errorf("channel = %q, want %q", pub.channel, notification.ChannelPrivateMessageUpdated)
	}
	if pub.event.Title != "" || pub.event.Body != "" || pub.event.URL != "" {
		t.Errorf("edit event carries push content: %+v", pub.event)
	}
}

func TestUpdatePrivateMessageRejectsForeignMessage(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)
	msg, err := f.usecase.SendPrivateMessage(t.Context(), "alice", &socialdto.SendMessageRequest{
		RecipientID: "bob", Body: "mine",
	})
	if err != nil {
		t.Fatalf("SendPrivateMessage: %v", err)
	}

	if _, err := f.usecase.UpdatePrivateMessage(t.Context(), "bob", msg.ID, &socialdto.UpdateMessageRequest{
		Body: "hijacked",
	}); err == nil {
		t.Fatal("expected error editing someone else's message")
	}
}

func TestLikeMessageNotifiesAuthor(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)
	challenge, _ := f.usecase.CreateChallenge(t.Context(), "alice", &socialdto.CreateChallengeRequest{Name: "10k steps"})
	post, err := f.usecase.PostPublicMessage(t.Context(), "alice", &socialdto.PostMessageRequest{
		ChallengeID: challenge.ID, Body: "day one done",
	})
	if err != nil {
		t.Fatalf("PostPublicMessage: %v", err)
	}

	if err := f.usecase.LikeMessage(t.Context(), "bob", post.ID); err != nil {
		t.Fatalf("LikeMessage: %v", err)
	}

	pub := f.lastPublished(t)
	if pub.channel != notification.ChannelPublicMessageLiked {
		t.Errorf("channel = %q, want %q", pub.channel, notification.ChannelPublicMessageLiked)
	}
	if pub.event.Recipient != "alice" {
		t.Errorf("recipient = %q, want alice", pub.event.Recipient)
	}
	if pub.event.Title != "bob liked your message" {
		t.Errorf("title = %q", pub.event.Title)
	}
}

func TestLikeOwnMessageStaysSilent(t *testing.T) {
	f := newFixture(t, &authdomain.User{ID: "alice", Username: "alice"})
	challenge, _ := f.usecase.CreateChallenge(t.Context(), "alice", &socialdto.CreateChallengeRequest{Name: "10k steps"})
	post, err := f.usecase.PostPublicMessage(t.Context(), "alice", &socialdto.PostMessageRequest{
		ChallengeID: challenge.ID, Body: "day one done",
	})
	if err != nil {
		t.Fatalf("PostPublicMessage: %v", err)
	}

	if err := f.usecase.LikeMessage(t.Context(), "alice", post.ID); err != nil {
		t.Fatalf("LikeMessage: %v", err)
	}
	if len(f.bus.published) != 0 {
		t.Errorf("published %d events liking own message, want 0", len(f.bus.published))
	}
	if len(f.messages.likes) != 1 {
		t.Errorf("stored %d likes, want 1", len(f.messages.likes))
	}
}

func TestLikeRejectsPrivateMessage(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)
	msg, err := f.usecase.SendPrivateMessage(t.Context(), "alice", &socialdto.SendMessageRequest{
		RecipientID: "bob", Body: "just us",
	})
	if err != nil {
		t.Fatalf("SendPrivateMessage: %v", err)
	}

	if err := f.usecase.LikeMessage(t.Context(), "bob", msg.ID); err == nil {
		t.Fatal("expected error liking a private message")
	}
}

func TestReplyNotifiesParentAuthor(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)
	challenge, _ := f.usecase.CreateChallenge(t.Context(), "alice", &socialdto.CreateChallengeRequest{Name: "10k steps"})
	parent, err := f.usecase.PostPublicMessage(t.Context(), "alice", &socialdto.PostMessageRequest{
		ChallengeID: challenge.ID, Body: "day one done",
	})
	if err != nil {
		t.Fatalf("PostPublicMessage: %v", err)
	}

	reply, err := f.usecase.ReplyToMessage(t.Context(), "bob", parent.ID, &socialdto.ReplyRequest{Body: "nice work"})
	if err != nil {
		t.Fatalf("ReplyToMessage: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != parent.ID {
		t.Errorf("reply parent = %v, want %q", reply.ParentID, parent.ID)
	}

	pub := f.lastPublished(t)
	if pub.channel != notification.ChannelPublicMessageReplied {
		t.Errorf("channel = %q, want %q", pub.channel, notification.ChannelPublicMessageReplied)
	}
	if pub.event.Recipient != "alice" {
		t.Errorf("recipient = %q, want alice", pub.event.Recipient)
	}
	if pub.event.URL != "/messages/"+parent.ID {
		t.Errorf("url = %q, want thread link to parent", pub.event.URL)
	}
}

func TestJoinChallengeNotifiesOwner(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)
	challenge, _ := f.usecase.CreateChallenge(t.Context(), "alice", &socialdto.CreateChallengeRequest{Name: "cold showers"})

	if err := f.usecase.JoinChallenge(t.Context(), "bob", challenge.ID); err != nil {
		t.Fatalf("JoinChallenge: %v", err)
	}

	pub := f.lastPublished(t)
	if pub.channel != notification.ChannelChallengeJoined {
		t.Errorf("channel = %q, want %q", pub.channel, notification.ChannelChallengeJoined)
	}
	if pub.event.Recipient != "alice" {
		t.Errorf("recipient = %q, want alice", pub.event.Recipient)
	}
	if pub.event.Body != "cold showers" {
		t.Errorf("body = %q, want challenge name", pub.event.Body)
	}
}

func TestJoinOwnChallengeStaysSilent(t *testing.T) {
	f := newFixture(t, &authdomain.User{ID: "alice", Username: "alice"})
	challenge, _ := f.usecase.CreateChallenge(t.Context(), "alice", &socialdto.CreateChallengeRequest{Name: "cold showers"})

	if err := f.usecase.JoinChallenge(t.Context(), "alice", challenge.ID); err != nil {
		t.Fatalf("JoinChallenge: %v", err)
	}
	if len(f.bus.published) != 0 {
		t.Errorf("published %d events joining own challenge, want 0", len(f.bus.published))
	}
}

func TestDuplicateChallengeNotifiesOriginalOwner(t *testing.T) {
	f := newFixture(t,
		&authdomain.User{ID: "alice", Username: "alice"},
		&authdomain.User{ID: "bob", Username: "bob"},
	)
	original, _ := f.usecase.CreateChallenge(t.Context(), "alice", &socialdto.CreateChallengeRequest{Name: "cold showers"})

	dup, err := f.usecase.DuplicateChallenge(t.Context(), "bob", original.ID)
	if err != nil {
		t.Fatalf("DuplicateChallenge: %v", err)
	}
	if dup.OwnerID != "bob" {
		t.Errorf("duplicate owner = %q, want bob", dup.OwnerID)
	}
	if dup.DuplicatedOf == nil || *dup.DuplicatedOf != original.ID {
		t.Errorf("duplicate lineage = %v, want %q", dup.DuplicatedOf, original.ID)
	}

	pub := f.lastPublished(t)
	if pub.channel != notification.ChannelChallengeDuplicated {
		t.Errorf("channel = %q, want %q", pub.channel, notification.ChannelChallengeDuplicated)
	}
	if pub.event.Recipient != "alice" {
		t.Errorf("recipient = %q, want alice", pub.event.Recipient)
	}
	if pub.event.Title != "bob duplicated your challenge" {
		t.Errorf("title = %q", pub.event.Title)
	}
}

func TestNilBusSkipsPublishing(t *testing.T) {
	users := &fakeUserRepo{users: map[string]*authdomain.User{
		"alice": {ID: "alice", Username: "alice"},
		"bob":   {ID: "bob", Username: "bob"},
	}}
	messages := &fakeMessageRepo{messages: map[string]*socialdomain.Message{}}
	challenges := &fakeChallengeRepo{challenges: map[string]*socialdomain.Challenge{}}
	u := NewSocialUsecase(messages, challenges, users, nil)

	if _, err := u.SendPrivateMessage(t.Context(), "alice", &socialdto.SendMessageRequest{
		RecipientID: "bob", Body: "still works",
	}); err != nil {
		t.Fatalf("SendPrivateMessage without bus: %v", err)
	}
}
