package httpapi

import (
	"net/http"

	"github.com/aqsa08/training-mvp-backend/internal/app"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrgHandler struct {
	orgService *app.OrgService
	logger     *logrus.Logger
}

func NewOrgHandler(os *app.OrgService, logger *logrus.Logger) *OrgHandler {
	return &OrgHandler{orgService: os, logger: logger}
}

// GetProfile handles GET /api/org/me.
func (h *OrgHandler) GetProfile(c *gin.Context) {
	orgID, ok := orgIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing org in token"})
		return
	}

	o, err := h.orgService.GetProfile(c.Request.Context(), orgID)
	if err != nil {
		if err == idb.ErrOrganizationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Org not found"})
			return
		}
		h.logger.Errorf("Failed to load org %d: %v", orgID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load organization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           o.ID,
		"name":         o.Name,
		"contactEmail": o.ContactEmail,
		"timezone":     o.Timezone,
	})
}

// UpdateProfile handles PUT /api/org/me.
func (h *OrgHandler) UpdateProfile(c *gin.Context) {
	orgID, ok := orgIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing org in token"})
		return
	}

	var req struct {
		Name         string `json:"name"`
		ContactEmail string `json:"contactEmail"`
		Timezone     string `json:"timezone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	o, err := h.orgService.UpdateProfile(c.Request.Context(), orgID, req.Name, req.ContactEmail, req.Timezone)
	if err != nil {
		switch err {
		case app.ErrOrgNameRequired:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Organization name is required"})
		case app.ErrContactEmailRequired:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Contact email is required"})
		case app.ErrInvalidEmailFormat:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		case idb.ErrOrganizationNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Org not found"})
		default:
			h.logger.Errorf("Failed to update org %d: %v", orgID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update organization"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"org": gin.H{
			"id":           o.ID,
			"name":         o.Name,
			"contactEmail": o.ContactEmail,
			"timezone":     o.Timezone,
		},
	})
}

// CreateDemoRequest handles POST /api/public/demo-request.
func (h *OrgHandler) CreateDemoRequest(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Company string `json:"company"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.orgService.CreateDemoRequest(c.Request.Context(), req.Name, req.Email, req.Company, req.Message); err != nil {
		switch err {
		case app.ErrOrgNameRequired:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		case app.ErrContactEmailRequired:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		default:
			h.logger.Errorf("Failed to create demo request: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create demo request"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}
