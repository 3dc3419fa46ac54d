package httpHandler

import (
	"net/http"
	"time"

	"security-monitor/auth"
	"security-monitor/usecases"
	"security-monitor/ws"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *usecases.AuthUseCase
	audit  *usecases.AuditUseCase
	tokens *auth.TokenIssuer
	mgr    *ws.Manager
}

func NewAuthHandler(authUC *usecases.AuthUseCase, audit *usecases.AuditUseCase, tokens *auth.TokenIssuer, mgr *ws.Manager) *AuthHandler {
	return &AuthHandler{auth: authUC, audit: audit, tokens: tokens, mgr: mgr}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Success   bool      `json:"success"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fill in all fields"})
		return
	}

	ctx := usecases.WithClientIP(c.Request.Context(), c.ClientIP())
	user, err := h.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, exp, err := h.tokens.Issue(user.ID, user.Username, string(user.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		Token:     token,
		ExpiresAt: exp,
		Success:   true,
	})
}

// Logout handles POST /api/v1/auth/logout. It revokes the presented token
// and closes the caller's live streams.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := currentUserID(c)
	if claims, ok := c.Get(ctxClaims); ok {
		h.tokens.Revoke(claims.(*auth.Claims))
	}
	h.auth.Logout(usecases.WithClientIP(c.Request.Context(), c.ClientIP()), userID)
	closed := h.mgr.CloseUser(userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "closed_streams": closed})
}

// Me handles GET /api/v1/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

type ChangeEmailRequest struct {
	Email   string `json:"email"`
	Confirm string `json:"confirm_email"`
}

// ChangeEmail handles PUT /api/v1/me/email
func (h *AuthHandler) ChangeEmail(c *gin.Context) {
	var req ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ctx := usecases.WithClientIP(c.Request.Context(), c.ClientIP())
	if err := h.auth.ChangeEmail(ctx, currentUserID(c), usecases.ChangeEmailInput{Email: req.Email, Confirm: req.Confirm}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type ChangePasswordRequest struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
	Confirm string `json:"confirm_password"`
}

// ChangePassword handles PUT /api/v1/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ctx := usecases.WithClientIP(c.Request.Context(), c.ClientIP())
	in := usecases.ChangePasswordInput{Current: req.Current, New: req.New, Confirm: req.Confirm}
	if err := h.auth.ChangePassword(ctx, currentUserID(c), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AuditTrail handles GET /api/v1/me/audit
func (h *AuthHandler) AuditTrail(c *gin.Context) {
	logs := h.audit.ListForUser(c.Request.Context(), currentUserID(c))
	c.JSON(http.StatusOK, gin.H{"data": logs, "count": len(logs)})
}
