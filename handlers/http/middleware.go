package httpHandler

import (
	"errors"
	"net/http"
	"strings"

	"security-monitor/auth"
	"security-monitor/entities"
	"security-monitor/repositories"
	"security-monitor/usecases"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxRole     = "role"
	ctxClaims   = "claims"
)

// JWTAuth validates the Bearer token and stores its claims in the context.
func JWTAuth(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tokens.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RequireRole rejects callers whose token carries none of roles.
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entities.Role(c.GetString(ctxRole))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// respondError maps use case errors onto status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, usecases.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, usecases.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, usecases.ErrClientEmailExists), errors.Is(err, usecases.ErrUsernameTaken):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, repositories.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	}
	c.JSON(status, gin.H{"error": msg})
}
