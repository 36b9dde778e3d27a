package board

import (
	"net/http"

	"backend/internal/app/user"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListBoards(c *gin.Context)
}

type handler struct {
	service Service
	userSvc user.Service
}

func NewHandler(service Service, userSvc user.Service) Handler {
	return &handler{service: service, userSvc: userSvc}
}

// @Summary List boards for a user
// @Description Get the private boards and shared-board memberships for the user identified by phone number
// @Tags Board
// @Accept json
// @Produce json
// @Param phone query string true "User phone number"
// @Success 200 {object} BoardListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/boards [get]
func (h *handler) ListBoards(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone query parameter is required"})
		return
	}

	u, err := h.userSvc.ResolveByPhoneNumber(phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to resolve user"})
		return
	}

	boards, err := h.service.ListForUser(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch boards"})
		return
	}
	c.JSON(http.StatusOK, BoardListResponse{Boards: boards})
}
