package ingress

import (
	"net/http"
	"unicode/utf8"

	"backend/internal/app/ingest"
	"backend/internal/app/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler is the thin adapter between HTTP collaborators (SMS webhook relay,
// UI form) and the ingestion pipeline. Provider-specific wire formats are
// normalized upstream; this endpoint accepts the already-normalized payload.
type Handler interface {
	SubmitMessage(c *gin.Context)
}

type handler struct {
	ingestSvc ingest.Service
	userSvc   user.Service
	logger    *zap.SugaredLogger
}

func NewHandler(ingestSvc ingest.Service, userSvc user.Service, logger *zap.Logger) Handler {
	return &handler{
		ingestSvc: ingestSvc,
		userSvc:   userSvc,
		logger:    logger.Sugar(),
	}
}

type SubmitMessageRequest struct {
	PhoneNumber       string   `json:"phone_number" binding:"required"`
	Content           string   `json:"content" binding:"required"`
	SenderID          string   `json:"sender_id"`
	ProviderMessageID string   `json:"provider_message_id"`
	MediaURL          string   `json:"media_url"`
	MediaType         string   `json:"media_type"`
	ExplicitTags      []string `json:"explicit_tags"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// @Summary Submit an inbound message
// @Description Run a normalized inbound message through the ingestion pipeline
// @Tags Ingress
// @Accept json
// @Produce json
// @Success 201 {object} ingest.Result
// @Success 200 {object} ingest.Result "duplicate delivery, skipped"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/messages [post]
func (h *handler) SubmitMessage(c *gin.Context) {
	var req SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if utf8.RuneCountInString(req.Content) > 9999 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "message content too long"})
		return
	}

	u, err := h.userSvc.ResolveByPhoneNumber(req.PhoneNumber)
	if err != nil {
		h.logger.Errorw("Failed to resolve user", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to resolve user"})
		return
	}

	senderID := req.SenderID
	if senderID == "" {
		senderID = req.PhoneNumber
	}

	result, err := h.ingestSvc.Ingest(c.Request.Context(), ingest.RawMessage{
		Content:           req.Content,
		SenderID:          senderID,
		UserID:            u.ID,
		ProviderMessageID: req.ProviderMessageID,
		MediaURL:          req.MediaURL,
		MediaType:         req.MediaType,
		ExplicitTags:      req.ExplicitTags,
	})
	if err != nil {
		// Only persistence failures surface here; the upstream relay retries.
		h.logger.Errorw("Ingestion failed", "user_id", u.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to ingest message"})
		return
	}

	if result.Skipped() {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}
