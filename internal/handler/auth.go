package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/user-vault/backend/internal/apierror"
	"github.com/user-vault/backend/internal/model"
	"github.com/user-vault/backend/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Username, email and password"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		writeError(c, apierror.BadRequest("Invalid request body."))
		return
	}

	res, err := h.svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setRefreshCookie(c, res.Tokens.RefreshToken)
	c.JSON(http.StatusCreated, res)
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		writeError(c, apierror.BadRequest("Invalid request body."))
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setRefreshCookie(c, res.Tokens.RefreshToken)
	c.JSON(http.StatusOK, res)
}

// Logout godoc
// @Summary Logout
// @Description Deletes the stored refresh token and clears the cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} model.LogoutResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.svc.CookieConfig().Name)
	if _, err := h.svc.Logout(c.Request.Context(), refreshToken); err != nil {
		writeError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, model.LogoutResponse{Message: "Logout successful."})
}

// Refresh godoc
// @Summary Exchange the refresh token cookie for a new token pair
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.svc.CookieConfig().Name)
	res, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setRefreshCookie(c, res.Tokens.RefreshToken)
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, token, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}

// writeError is the single error responder for the HTTP boundary. Known
// API errors keep their status and message; anything else is logged and
// reported as a generic 500.
func writeError(c *gin.Context, err error) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, model.ErrorResponse{
			Message:          apiErr.Message,
			ValidationErrors: apiErr.ValidationErrors,
		})
		return
	}

	log.Printf("unhandled error: %v", err)
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: "Something went wrong."})
}
