package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/susradar/susradar-server/internal/tokens"
	"github.com/susradar/susradar-server/internal/users"
	"github.com/susradar/susradar-server/pkg/logger"
	"github.com/susradar/susradar-server/pkg/metrics"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthHandler exposes registration and login.
type AuthHandler struct {
	usersSvc  *users.Service
	tokensSvc *tokens.Service
}

func NewAuthHandler(u *users.Service, t *tokens.Service) *AuthHandler {
	return &AuthHandler{usersSvc: u, tokensSvc: t}
}

// Register routes under /api
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/register", h.RegisterUser)
	rg.POST("/login", h.Login)
}

// RegisterUser creates a new account and its empty data document.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	err := h.usersSvc.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		metrics.Registrations.WithLabelValues("success").Inc()
		logger.Infof("registered user %s", users.Normalize(req.Username))
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	case errors.Is(err, users.ErrUsernameTaken):
		metrics.Registrations.WithLabelValues("conflict").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrInvalidUsername), errors.Is(err, users.ErrWeakPassword):
		metrics.Registrations.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		metrics.Registrations.WithLabelValues("error").Inc()
		logger.Errorf("registration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
	}
}

// Login authenticates and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	username, err := h.usersSvc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.Logins.WithLabelValues("unauthorized").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		metrics.Logins.WithLabelValues("error").Inc()
		logger.Errorf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	token, err := h.tokensSvc.Issue(username)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		logger.Errorf("token issue for %s failed: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	metrics.Logins.WithLabelValues("success").Inc()
	logger.Infof("login successful for user %s", username)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"username":   username,
		"expires_in": int(h.tokensSvc.TTL().Seconds()),
	})
}
