package http

import (
	"net/http"
	"strings"
	"time"

	"menthub/internal/core/domain"
	"menthub/internal/core/ports"
	"menthub/internal/core/services"
	"menthub/pkg/errors"
	"menthub/pkg/validation"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	users  ports.UserRepository
	tokens services.TokenService

	accessTokenTTL time.Duration
}

func NewAuthHandler(users ports.UserRepository, tokens services.TokenService, accessTokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		users:          users,
		tokens:         tokens,
		accessTokenTTL: accessTokenTTL,
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/login", h.Login)
		api.POST("/refresh", h.RefreshToken)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,max=2048"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validation.ValidateEmail(req.Email); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.Error(errors.NewUnauthorizedError("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.Error(errors.NewUnauthorizedError("invalid credentials"))
		return
	}

	if user.Status == domain.StatusInactive {
		c.Error(errors.NewForbiddenError("account is inactive"))
		return
	}

	accessToken, err := h.tokens.GenerateToken(user.ID, user.Name, user.Role)
	if err != nil {
		c.Error(errors.NewInternalError("failed to generate token"))
		return
	}

	refreshToken, err := h.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		c.Error(errors.NewInternalError("failed to generate refresh token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":       user.ID,
		"name":          user.Name,
		"role":          user.Role,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    int(h.accessTokenTTL / time.Second),
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	claims, err := h.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Error(errors.NewUnauthorizedError(err.Error()))
		return
	}

	// The refresh token carries only the subject; the account is re-read
	// so a deactivation since issuance takes effect immediately.
	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.Error(errors.NewUnauthorizedError("unknown account"))
		return
	}
	if user.Status == domain.StatusInactive {
		c.Error(errors.NewForbiddenError("account is inactive"))
		return
	}

	accessToken, err := h.tokens.GenerateToken(user.ID, user.Name, user.Role)
	if err != nil {
		c.Error(errors.NewInternalError("failed to generate token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"expires_in":   int(h.accessTokenTTL / time.Second),
	})
}
