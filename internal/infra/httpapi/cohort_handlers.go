package httpapi

import (
	"net/http"

	"github.com/aqsa08/training-mvp-backend/internal/domain/cohort"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CohortHandler struct {
	cohortRepo cohort.Repository
	logger     *logrus.Logger
}

func NewCohortHandler(cr cohort.Repository, logger *logrus.Logger) *CohortHandler {
	return &CohortHandler{cohortRepo: cr, logger: logger}
}

// List handles GET /api/cohorts.
func (h *CohortHandler) List(c *gin.Context) {
	cohorts, err := h.cohortRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to list cohorts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cohorts"})
		return
	}

	rows := make([]gin.H, 0, len(cohorts))
	for _, co := range cohorts {
		rows = append(rows, gin.H{
			"id":            co.ID,
			"name":          co.Name,
			"role_level":    co.RoleLevel,
			"start_date":    co.StartDate.Format("2006-01-02"),
			"duration_days": co.DurationDays,
		})
	}

	c.JSON(http.StatusOK, gin.H{"cohorts": rows})
}
