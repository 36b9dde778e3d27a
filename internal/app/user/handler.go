package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	UpdateProfile(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary Complete or update a user profile
// @Description Set the display name for the user identified by phone number
// @Tags User
// @Accept json
// @Produce json
// @Success 200 {object} User
// @Failure 400 {object} ErrorResponse
// @Router /api/users/profile [post]
func (h *handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	u, err := h.service.ResolveByPhoneNumber(req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to resolve user"})
		return
	}

	if err := h.service.UpdateProfile(u.ID, req.DisplayName); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update profile"})
		return
	}

	u.DisplayName = req.DisplayName
	c.JSON(http.StatusOK, u)
}
