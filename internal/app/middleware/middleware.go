package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FACorreiaa/sanchari/internal/app/domain/auth"
	"github.com/FACorreiaa/sanchari/internal/app/models"
	"github.com/FACorreiaa/sanchari/internal/pkg/config"
)

// Define typed context keys
type contextKey string

const UserContextKey contextKey = "user"
const UserIDKey contextKey = "userID"

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Content Security Policy for map tiles and fonts
		csp := "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline' https://unpkg.com; " +
			"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com https://unpkg.com; " +
			"font-src 'self' https://fonts.gstatic.com; " +
			"img-src 'self' data: https: blob:; " +
			"connect-src 'self' https://unpkg.com https://*.tile.openstreetmap.org"
		c.Writer.Header().Set("Content-Security-Policy", csp)

		c.Next()
	}
}

// AuthMiddleware validates authentication tokens. Checks the auth_token
// cookie first for browser sessions, then the Authorization header for API
// clients. Requests without a valid token get a JSON 401.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := validateRequestToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		setUserContext(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets user context if a valid token exists, but never
// blocks the request.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := validateRequestToken(c); ok {
			setUserContext(c, claims)
		}
		c.Next()
	}
}

func validateRequestToken(c *gin.Context) (*auth.Claims, bool) {
	var tokenString string

	if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
		tokenString = cookie
	}
	if tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}
	if tokenString == "" {
		return nil, false
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		jwtSecret = config.DefaultJWTSecret
	}

	jwtService := auth.NewJWTService()
	config := auth.JWTConfig{
		SecretKey:       jwtSecret,
		TokenExpiration: time.Hour * 24,
	}
	claims, err := jwtService.ValidateToken(config, tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setUserContext(c *gin.Context, claims *auth.Claims) {
	user := &models.User{
		ID:       claims.UserID,
		Name:     claims.Username,
		Email:    claims.Email,
		IsActive: true,
	}

	c.Set(string(UserContextKey), user)
	c.Set("user_id", claims.UserID)
	c.Set("user_email", claims.Email)
	c.Set("user_name", claims.Username)
}

// GetUserFromContext extracts user information from Gin context
func GetUserFromContext(c *gin.Context) *models.User {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil
	}

	return userModel
}

// GetUserIDFromContext extracts just the user ID from context
func GetUserIDFromContext(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if idStr, ok := userID.(string); ok {
			return idStr
		}
	}
	return ""
}

// GetUserUUIDFromContext extracts the user ID as a UUID. The second return is
// false for anonymous requests or malformed claims.
func GetUserUUIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(GetUserIDFromContext(c))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
