package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gamemaster-server/internal/dialogue"
)

// TurnEngine is the core capability the webhook exposes over HTTP.
type TurnEngine interface {
	HandleTurn(ctx context.Context, sessionID uuid.UUID, text string) (*dialogue.TurnResult, error)
}

// WebhookHandler adapts inbound webhook turns to the dialogue engine.
type WebhookHandler struct {
	engine TurnEngine
	logger *zap.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(engine TurnEngine, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		engine: engine,
		logger: logger.Named("WebhookHandler"),
	}
}

// RegisterRoutes attaches the webhook routes to the router.
func (h *WebhookHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/webhook", h.handleTurn)
	router.GET("/healthz", h.handleHealth)
}

type turnRequest struct {
	// SessionID may be omitted on first contact; the server then assigns one
	// and returns it in the response.
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type turnResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []string          `json:"messages"`
	Slots     map[string]string `json:"slots"`
}

func (h *WebhookHandler) handleTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid webhook request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sessionID := uuid.New()
	if req.SessionID != "" {
		parsed, err := uuid.Parse(req.SessionID)
		if err != nil {
			h.logger.Warn("Invalid session id", zap.String("sessionID", req.SessionID), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session_id"})
			return
		}
		sessionID = parsed
	}

	result, err := h.engine.HandleTurn(c.Request.Context(), sessionID, req.Text)
	if err != nil {
		h.logger.Error("Turn handling failed", zap.Stringer("sessionID", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, turnResponse{
		SessionID: result.SessionID.String(),
		Messages:  result.Messages,
		Slots:     result.Slots,
	})
}

func (h *WebhookHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
