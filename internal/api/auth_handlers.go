package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/llmstxt-pipeline/internal/auth"
	"github.com/jonesrussell/llmstxt-pipeline/internal/config"
	"github.com/jonesrussell/llmstxt-pipeline/internal/logger"
)

// AuthHandler implements /api/auth/*. It holds the AuthConfig directly
// rather than going through Service, since login/logout/check never touch
// the Store.
type AuthHandler struct {
	cfg *config.AuthConfig
	log logger.Logger

	// now is overridable in tests; defaults to time.Now.
	now func() time.Time
}

// NewAuthHandler builds an AuthHandler around cfg.
func NewAuthHandler(cfg *config.AuthConfig, log logger.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log, now: time.Now}
}

// loginMinDuration is the floor on Login's response time, padding out fast
// bcrypt-mismatch paths so failed and successful logins aren't
// distinguishable by latency.
const loginMinDuration = time.Second

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	start := h.now()
	defer h.padTo(start, loginMinDuration)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	if !auth.VerifyPassword(req.Password, h.cfg.PasswordHash) {
		h.log.Info("failed login attempt", logger.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	token, err := auth.GenerateSessionToken(h.cfg.SessionSecret)
	if err != nil {
		h.log.Error("generate session token failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "unknown error"})
		return
	}

	auth.SetSessionCookie(c.Writer, token, h.cfg.SessionDurationSeconds)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) padTo(start time.Time, floor time.Duration) {
	if elapsed := h.now().Sub(start); elapsed < floor {
		time.Sleep(floor - elapsed)
	}
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	auth.ClearSessionCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Check handles GET /api/auth/check.
func (h *AuthHandler) Check(c *gin.Context) {
	enabled := h.cfg.Enabled()
	authenticated := false
	if enabled {
		if token, ok := auth.SessionTokenFromRequest(c.Request); ok {
			maxAge := time.Duration(h.cfg.SessionDurationSeconds) * time.Second
			authenticated = auth.ValidateSessionToken(token, h.cfg.SessionSecret, maxAge)
		}
	}
	c.JSON(http.StatusOK, authCheckResponse{AuthEnabled: enabled, Authenticated: authenticated})
}
