package dto

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

type UpdateMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type PostMessageRequest struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

type ReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

type CreateChallengeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
