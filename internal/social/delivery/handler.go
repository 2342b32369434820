package delivery

import (
	"net/http"

	socialdto "habitlink-backend/internal/social/dto"
	"habitlink-backend/internal/social/usecase"

	"github.com/gin-gonic/gin"
)

type SocialHandler struct {
	socialUsecase usecase.SocialUsecase
}

func NewSocialHandler(socialUsecase usecase.SocialUsecase) *SocialHandler {
	return &SocialHandler{socialUsecase: socialUsecase}
}

func (h *SocialHandler) SendMessage(c *gin.Context) {
	var req socialdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.socialUsecase.SendPrivateMessage(c.Request.Context(), c.GetString("userID"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *SocialHandler) UpdateMessage(c *gin.Context) {
	var req socialdto.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.socialUsecase.UpdatePrivateMessage(c.Request.Context(), c.GetString("userID"), c.Param("id"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h *SocialHandler) PostMessage(c *gin.Context) {
	var req socialdto.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.socialUsecase.PostPublicMessage(c.Request.Context(), c.GetString("userID"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *SocialHandler) LikeMessage(c *gin.Context) {
	if err := h.socialUsecase.LikeMessage(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "liked"})
}

func (h *SocialHandler) ReplyToMessage(c *gin.Context) {
	var req socialdto.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.socialUsecase.ReplyToMessage(c.Request.Context(), c.GetString("userID"), c.Param("id"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (h *SocialHandler) CreateChallenge(c *gin.Context) {
	var req socialdto.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge, err := h.socialUsecase.CreateChallenge(c.Request.Context(), c.GetString("userID"), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

func (h *SocialHandler) JoinChallenge(c *gin.Context) {
	if err := h.socialUsecase.JoinChallenge(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "joined"})
}

func (h *SocialHandler) DuplicateChallenge(c *gin.Context) {
	challenge, err := h.socialUsecase.DuplicateChallenge(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, challenge)
}
