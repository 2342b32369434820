package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	authrepo "habitlink-backend/internal/auth/repository"
	"habitlink-backend/internal/notification"
	socialdomain "habitlink-backend/internal/social/domain"
	socialdto "habitlink-backend/internal/social/dto"
	"habitlink-backend/internal/social/repository"
)

// EventPublisher is the post-commit publication side of the bus.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// socialUsecase implements SocialUsecase interface
type socialUsecase struct {
	messageRepo   repository.MessageRepository
	challengeRepo repository.ChallengeRepository
	userRepo      authrepo.UserRepository
	bus           EventPublisher // nil when the event bus is not configured
}

// NewSocialUsecase creates a new instance of socialUsecase
func NewSocialUsecase(messageRepo repository.MessageRepository, challengeRepo repository.ChallengeRepository, userRepo authrepo.UserRepository, bus EventPublisher) SocialUsecase {
	return &socialUsecase{
		messageRepo:   messageRepo,
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		bus:           bus,
	}
}

func (u *socialUsecase) SendPrivateMessage(ctx context.Context, senderID string, req *socialdto.SendMessageRequest) (*socialdomain.Message, error) {
	recipient, err := u.userRepo.FindByID(req.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, errors.New("recipient not found")
	}

	message := &socialdomain.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	}
	if err := u.messageRepo.Create(message); err != nil {
		return nil, err
	}

	sender, err := u.userRepo.FindByID(senderID)
	if err != nil {
		return nil, err
	}
	title := "New message"
	if sender != nil {
		title = fmt.Sprintf("New message from %s", sender.Username)
	}

	u.notify(ctx, notification.KindPrivateMessageCreated, req.RecipientID, message,
		title, truncate(message.Body, 100), "/messages/"+message.ID)
	return message, nil
}

func (u *socialUsecase) UpdatePrivateMessage(ctx context.Context, senderID, messageID string, req *socialdto.UpdateMessageRequest) (*socialdomain.Message, error) {
	message, err := u.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if message == nil || message.SenderID != senderID || message.Public {
		return nil, errors.New("message not found")
	}

	message.Body = req.Body
	if err := u.messageRepo.Update(message); err != nil {
		return nil, err
	}

	// Edits only refresh open conversation views; no push title/body, so
	// offline recipients are not nudged about them.
	u.notify(ctx, notification.KindPrivateMessageUpdated, message.RecipientID, message, "", "", "")
	return message, nil
}

func (u *socialUsecase) PostPublicMessage(ctx context.Context, authorID string, req *socialdto.PostMessageRequest) (*socialdomain.Message, error) {
	challenge, err := u.challengeRepo.FindByID(req.ChallengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, errors.New("challenge not found")
	}

	message := &socialdomain.Message{
		SenderID:    authorID,
		ChallengeID: &req.ChallengeID,
		Body:        req.Body,
		Public:      true,
	}
	if err := u.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

func (u *socialUsecase) LikeMessage(ctx context.Context, userID, messageID string) error {
	message, err := u.messageRepo.FindByID(messageID)
	if err != nil {
		return err
	}
	if message == nil || !message.Public {
		return errors.New("message not found")
	}

	if err := u.messageRepo.SaveLike(&socialdomain.Like{MessageID: messageID, UserID: userID}); err != nil {
		return err
	}

	if message.SenderID == userID {
		return nil // no self-notifications
	}

	liker, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	title := "Your message was liked"
	if liker != nil {
		title = fmt.Sprintf("%s liked your message", liker.Username)
	}

	u.notify(ctx, notification.KindPublicMessageLiked, message.SenderID, message,
		title, truncate(message.Body, 100), "/messages/"+message.ID)
	return nil
}

func (u *socialUsecase) ReplyToMessage(ctx context.Context, authorID, messageID string, req *socialdto.ReplyRequest) (*socialdomain.Message, error) {
	parent, err := u.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if parent == nil || !parent.Public {
		return nil, errors.New("message not found")
	}

	reply := &socialdomain.Message{
		SenderID:    authorID,
		ChallengeID: parent.ChallengeID,
		ParentID:    &parent.ID,
		Body:        req.Body,
		Public:      true,
	}
	if err := u.messageRepo.Create(reply); err != nil {
		return nil, err
	}

	if parent.SenderID == authorID {
		return reply, nil
	}

	author, err := u.userRepo.FindByID(authorID)
	if err != nil {
		return nil, err
	}
	title := "New reply to your message"
	if author != nil {
		title = fmt.Sprintf("%s replied to your message", author.Username)
	}

	u.notify(ctx, notification.KindPublicMessageReplied, parent.SenderID, reply,
		title, truncate(reply.Body, 100), "/messages/"+parent.ID)
	return reply, nil
}

func (u *socialUsecase) CreateChallenge(ctx context.Context, ownerID string, req *socialdto.CreateChallengeRequest) (*socialdomain.Challenge, error) {
	challenge := &socialdomain.Challenge{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := u.challengeRepo.Create(challenge); err != nil {
		return nil, err
	}
	if err := u.challengeRepo.AddMember(&socialdomain.ChallengeMember{ChallengeID: challenge.ID, UserID: ownerID}); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (u *socialUsecase) JoinChallenge(ctx context.Context, userID, challengeID string) error {
	challenge, err := u.challengeRepo.FindByID(challengeID)
	if err != nil {
		return err
	}
	if challenge == nil {
		return errors.New("challenge not found")
	}

	if err := u.challengeRepo.AddMember(&socialdomain.ChallengeMember{ChallengeID: challengeID, UserID: userID}); err != nil {
		return err
	}

	if challenge.OwnerID == userID {
		return nil
	}

	joiner, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	title := "Someone joined your challenge"
	if joiner != nil {
		title = fmt.Sprintf("%s joined your challenge", joiner.Username)
	}

	u.notify(ctx, notification.KindChallengeJoined, challenge.OwnerID, challenge,
		title, challenge.Name, "/challenges/"+challenge.ID)
	return nil
}

func (u *socialUsecase) DuplicateChallenge(ctx context.Context, userID, challengeID string) (*socialdomain.Challenge, error) {
	original, err := u.challengeRepo.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, errors.New("challenge not found")
	}

	dup := &socialdomain.Challenge{
		OwnerID:      userID,
		Name:         original.Name,
		Description:  original.Description,
		DuplicatedOf: &original.ID,
	}
	if err := u.challengeRepo.Create(dup); err != nil {
		return nil, err
	}
	if err := u.challengeRepo.AddMember(&socialdomain.ChallengeMember{ChallengeID: dup.ID, UserID: userID}); err != nil {
		return nil, err
	}

	if original.OwnerID != userID {
		duplicator, err := u.userRepo.FindByID(userID)
		if err != nil {
			return nil, err
		}
		title := "Your challenge was duplicated"
		if duplicator != nil {
			title = fmt.Sprintf("%s duplicated your challenge", duplicator.Username)
		}
		u.notify(ctx, notification.KindChallengeDuplicated, original.OwnerID, original,
			title, original.Name, "/challenges/"+original.ID)
	}

	return dup, nil
}

// notify publishes one notification event on the kind's channel, after the
// write producing it committed. Failures are logged only.
func (u *socialUsecase) notify(ctx context.Context, kind notification.Kind, recipient string, data any, title, body, url string) {
	if u.bus == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Social] Failed to marshal %s payload: %v", kind.Channel(), err)
		return
	}

	ev := notification.NotificationEvent{
		Recipient: recipient,
		Data:      raw,
		Title:     title,
		Body:      body,
		URL:       url,
	}
	if err := u.bus.Publish(ctx, kind.Channel(), ev); err != nil {
		log.Printf("[Social] Failed to publish %s event: %v", kind.Channel(), err)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
