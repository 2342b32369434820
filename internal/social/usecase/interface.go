package usecase

import (
	"context"

	socialdomain "habitlink-backend/internal/social/domain"
	socialdto "habitlink-backend/internal/social/dto"
)

// SocialUsecase covers the surfaces that produce notification events:
// private messages, likes, replies, and challenge membership.
type SocialUsecase interface {
	SendPrivateMessage(ctx context.Context, senderID string, req *socialdto.SendMessageRequest) (*socialdomain.Message, error)
	UpdatePrivateMessage(ctx context.Context, senderID, messageID string, req *socialdto.UpdateMessageRequest) (*socialdomain.Message, error)
	PostPublicMessage(ctx context.Context, authorID string, req *socialdto.PostMessageRequest) (*socialdomain.Message, error)
	LikeMessage(ctx context.Context, userID, messageID string) error
	ReplyToMessage(ctx context.Context, authorID, messageID string, req *socialdto.ReplyRequest) (*socialdomain.Message, error)
	CreateChallenge(ctx context.Context, ownerID string, req *socialdto.CreateChallengeRequest) (*socialdomain.Challenge, error)
	JoinChallenge(ctx context.Context, userID, challengeID string) error
	DuplicateChallenge(ctx context.Context, userID, challengeID string) (*socialdomain.Challenge, error)
}
