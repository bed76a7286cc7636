package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gatherly/api/internal/helpers"
	"github.com/gatherly/api/internal/models"
)

// JWTAuthMiddleware rejects requests without a valid bearer token and
// stores the caller's user_id and role in the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, err := parseBearerToken(c)
		if err != nil {
			helpers.RespondWithError(c, http.StatusUnauthorized, "You must be logged in to perform this action.")
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware attaches the viewer identity when a valid
// token is present and lets anonymous requests through untouched.
func OptionalJWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, role, err := parseBearerToken(c); err == nil {
			c.Set("user_id", userID)
			c.Set("role", role)
		}
		c.Next()
	}
}

// StaffOnlyMiddleware requires the staff role set by JWTAuthMiddleware.
func StaffOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != models.RoleStaff {
			helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to perform this action.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func parseBearerToken(c *gin.Context) (uuid.UUID, string, error) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return uuid.Nil, "", fmt.Errorf("missing bearer token")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("invalid claims")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("user_id claim missing")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid user_id claim: %w", err)
	}

	role, _ := claims["role"].(string)

	return userID, role, nil
}
