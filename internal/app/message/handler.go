package message

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListByBoard(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary List messages on a board
// @Description Get messages linked to a board, newest first
// @Tags Message
// @Accept json
// @Produce json
// @Param id path int true "Board ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} MessageListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/boards/{id}/messages [get]
func (h *handler) ListByBoard(c *gin.Context) {
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid board id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	messages, total, err := h.service.ListByBoard(c.Request.Context(), boardID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, MessageListResponse{
		Messages: messages,
		Total:    total,
	})
}
