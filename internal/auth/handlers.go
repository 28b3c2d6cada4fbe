package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/cityinfo/internal/traces"
)

// Handler provides HTTP endpoints for token issuance and scheme discovery.
type Handler struct {
	mgr *Manager
	// devTokens enables the POST /auth/token endpoint. Outside development
	// the API trusts an external identity provider and never mints tokens.
	devTokens bool
	// defaultCity is the tenant claim minted when a request names none.
	defaultCity string
}

// NewHandler creates an auth handler.
func NewHandler(mgr *Manager, devTokens bool, defaultCity string) *Handler {
	return &Handler{mgr: mgr, devTokens: devTokens, defaultCity: defaultCity}
}

// Info handles GET /auth/info.
func (h *Handler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"scheme":      "Bearer",
		"algorithm":   "HS256",
		"tenantClaim": "city",
		"devTokens":   h.devTokens,
	})
}

// Token handles POST /auth/token: mints a short-lived token for local
// development and tests. Disabled in production.
func (h *Handler) Token(c *gin.Context) {
	if !h.devTokens {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "token endpoint disabled"})
		return
	}

	var req struct {
		Subject string `json:"subject" binding:"required"`
		City    string `json:"city"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "subject required"})
		return
	}

	city := req.City
	if city == "" {
		city = h.defaultCity
	}

	_, span := traces.StartSpan(c.Request.Context(), "auth.Token", traces.Subject(req.Subject))
	defer span.End()

	token, err := h.mgr.Issue(req.Subject, city)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "failed to sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"tokenType":   "Bearer",
		"issuedAt":    time.Now().UTC().Format(time.RFC3339),
	})
}
