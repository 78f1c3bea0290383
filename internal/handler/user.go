package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user-vault/backend/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetAll godoc
// @Summary List users
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.UserProjection
// @Failure 401 {object} model.ErrorResponse
// @Router /user [get]
func (h *UserHandler) GetAll(c *gin.Context) {
	users, total, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(total))
	c.JSON(http.StatusOK, users)
}
