package httpHandler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"security-monitor/auth"
	"security-monitor/entities"
	"security-monitor/repositories"
	"security-monitor/usecases"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthAndRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenIssuer("secret", time.Hour)

	r := gin.New()
	r.GET("/me", JWTAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": currentUserID(c), "username": c.GetString(ctxUsername)})
	})
	r.GET("/admin", JWTAuth(tokens), RequireRole(entities.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	call := func(path, header string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	userToken, _, err := tokens.Issue(7, "ana", string(entities.RoleUser))
	require.NoError(t, err)
	adminToken, _, err := tokens.Issue(1, "admin", string(entities.RoleAdmin))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, call("/me", ""))
	assert.Equal(t, http.StatusUnauthorized, call("/me", "Token "+userToken))
	assert.Equal(t, http.StatusUnauthorized, call("/me", "Bearer garbage"))
	assert.Equal(t, http.StatusOK, call("/me", "Bearer "+userToken))
	assert.Equal(t, http.StatusForbidden, call("/admin", "Bearer "+userToken))
	assert.Equal(t, http.StatusNoContent, call("/admin", "Bearer "+adminToken))
}

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: name required", usecases.ErrValidation), http.StatusBadRequest},
		{usecases.ErrInvalidCredentials, http.StatusUnauthorized},
		{usecases.ErrClientEmailExists, http.StatusConflict},
		{usecases.ErrUsernameTaken, http.StatusConflict},
		{fmt.Errorf("lookup: %w", repositories.ErrNotFound), http.StatusNotFound},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		respondError(c, tt.err)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
	}
}
