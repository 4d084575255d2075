package httpapi

import (
	"net/http"
	"strconv"

	"github.com/aqsa08/training-mvp-backend/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ReflectionHandler struct {
	reflectionService *app.ReflectionService
	logger            *logrus.Logger
}

func NewReflectionHandler(rs *app.ReflectionService, logger *logrus.Logger) *ReflectionHandler {
	return &ReflectionHandler{reflectionService: rs, logger: logger}
}

// SetBehavior handles PATCH /api/reflections/:id. Only the admin-observed
// behavior flag is writable here.
func (h *ReflectionHandler) SetBehavior(c *gin.Context) {
	reflectionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || reflectionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reflection id"})
		return
	}

	orgID, ok := orgIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing org in token"})
		return
	}

	var req struct {
		BehaviorObserved *bool `json:"behaviorObserved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.BehaviorObserved == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "behaviorObserved must be boolean"})
		return
	}

	refl, err := h.reflectionService.SetBehaviorObserved(c.Request.Context(), reflectionID, orgID, *req.BehaviorObserved)
	if err != nil {
		if err == app.ErrReflectionNotOwned {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reflection not found"})
			return
		}
		h.logger.Errorf("Failed to update reflection %d: %v", reflectionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reflection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reflection": gin.H{
			"id":                refl.ID,
			"cohort_user_id":    refl.CohortUserID,
			"lesson_id":         refl.LessonID,
			"behavior_observed": refl.BehaviorObserved,
		},
	})
}
