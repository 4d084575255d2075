package httpapi

import (
	"net/http"

	"github.com/aqsa08/training-mvp-backend/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService *app.AuthService
	logger      *logrus.Logger
}

func NewAuthHandler(authService *app.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required."})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == app.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
			return
		}
		h.logger.Errorf("Login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
		return
	}

	var orgID *int64
	if result.OrganizationID.Valid {
		v := result.OrganizationID.Int64
		orgID = &v
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"admin": gin.H{
			"id":             result.AdminID,
			"email":          result.Email,
			"organizationId": orgID,
		},
	})
}
