package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/nem-uma-a-menos/counter-api/internal/config"
	"github.com/nem-uma-a-menos/counter-api/internal/middleware"
)

// AuthHandler exchanges the admin API key for a short-lived token.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type tokenRequest struct {
	Key string `json:"key"`
}

// Token verifies the admin key against its bcrypt hash and issues a JWT.
func (h *AuthHandler) Token(c *gin.Context) {
	if h.cfg.AdminKeyHash == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access not configured"})
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminKeyHash), []byte(req.Key)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
		return
	}

	token, err := middleware.NewAdminToken(h.cfg, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": int(h.cfg.JWTTTL.Seconds()),
	})
}
