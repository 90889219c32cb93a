package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/models"
	"github.com/FACorreiaa/sanchari/internal/pkg/handoff"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type AuthHandlers struct {
	authService AuthService
	logger      *zap.Logger
}

func NewAuthHandlers(authService AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and a password of at least 8 characters are required"})
		return
	}

	userID, err := h.authService.Register(c.Request.Context(), strings.TrimSpace(req.Username), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "an account with this email already exists"})
			return
		}
		h.logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": userID})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	accessToken, refreshToken, err := h.authService.Login(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)
	c.JSON(http.StatusOK, gin.H{"token": accessToken})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no refresh token"})
		return
	}

	accessToken, newRefreshToken, err := h.authService.RefreshSession(c.Request.Context(), refreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	h.setAuthCookies(c, accessToken, newRefreshToken)
	c.JSON(http.StatusOK, gin.H{"token": accessToken})
}

// Logout handles POST /auth/logout. Pending handoff slots are dropped so a
// generated plan cannot leak into the next session on a shared browser.
func (h *AuthHandlers) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie("refresh_token")
	if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
		h.logger.Warn("Logout cleanup failed", zap.Error(err))
	}
	if err := handoff.Clear(sessions.Default(c)); err != nil {
		h.logger.Warn("Failed to clear session handoff", zap.Error(err))
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.SetCookie("refresh_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me handles GET /auth/me
func (h *AuthHandlers) Me(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID.(string))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("Failed to load current user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandlers) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", accessToken, int(accessTokenTTL/time.Second), "/", "", false, true)
	c.SetCookie("refresh_token", refreshToken, int(refreshTokenTTL/time.Second), "/", "", false, true)
}
