package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
)

// ChatService answers chat turns.
type ChatService interface {
	Handle(ctx context.Context, message string) models.ChatResponse
}

// ChatHandler exposes the assistant endpoint.
type ChatHandler struct {
	svc    ChatService
	logger *zap.Logger
}

// NewChatHandler constructs the chat handler.
func NewChatHandler(svc ChatService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{svc: svc, logger: logger}
}

// Chat answers one message.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := h.svc.Handle(c.Request.Context(), req.Message)
	h.logger.Info("chat turn answered", zap.String("type", string(resp.Type)))
	c.JSON(http.StatusOK, resp)
}
