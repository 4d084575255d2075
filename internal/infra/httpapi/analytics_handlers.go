package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/aqsa08/training-mvp-backend/internal/app"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnalyticsHandler struct {
	analyticsService *app.AnalyticsService
	logger           *logrus.Logger
}

func NewAnalyticsHandler(as *app.AnalyticsService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: as, logger: logger}
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

// CohortSummary handles GET /api/cohorts/:id/summary.
func (h *AnalyticsHandler) CohortSummary(c *gin.Context) {
	cohortID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || cohortID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cohort id"})
		return
	}

	summary, err := h.analyticsService.CohortSummary(c.Request.Context(), cohortID)
	if err != nil {
		if err == idb.ErrCohortNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cohort not found"})
			return
		}
		h.logger.Errorf("Failed to load cohort summary for %d: %v", cohortID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cohort summary"})
		return
	}

	daily := make([]gin.H, 0, len(summary.DailyReflections))
	for _, p := range summary.DailyReflections {
		daily = append(daily, gin.H{
			"dayNumber":        p.DayNumber,
			"date":             p.Date.Format("2006-01-02"),
			"reflectionsCount": p.ReflectionsCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"cohort": gin.H{
			"id":             summary.Cohort.ID,
			"name":           summary.Cohort.Name,
			"roleLevel":      summary.Cohort.RoleLevel,
			"startDate":      summary.Cohort.StartDate.Format("2006-01-02"),
			"durationDays":   summary.Cohort.DurationDays,
			"todayDayNumber": nullableInt64(summary.Cohort.TodayDayNumber),
		},
		"metrics": gin.H{
			"learnerCount":             summary.Metrics.LearnerCount,
			"messagesSent":             summary.Metrics.MessagesSent,
			"reflectionsCount":         summary.Metrics.ReflectionsCount,
			"completionRate":           nullableInt64(summary.CompletionRate),
			"averageReflectionQuality": nullableFloat(summary.Metrics.AvgQuality),
		},
		"dailyReflections": daily,
	})
}

// CohortLearners handles GET /api/cohorts/:id/learners.
func (h *AnalyticsHandler) CohortLearners(c *gin.Context) {
	cohortID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || cohortID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cohort id"})
		return
	}

	overview, err := h.analyticsService.CohortSummary(c.Request.Context(), cohortID)
	if err != nil {
		if err == idb.ErrCohortNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cohort not found"})
			return
		}
		h.logger.Errorf("Failed to load cohort %d: %v", cohortID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cohort learners"})
		return
	}

	learners, err := h.analyticsService.CohortLearners(c.Request.Context(), cohortID)
	if err != nil {
		h.logger.Errorf("Failed to load cohort learners for %d: %v", cohortID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cohort learners"})
		return
	}

	rows := make([]gin.H, 0, len(learners))
	for _, lr := range learners {
		rows = append(rows, gin.H{
			"cohort_user_id":       lr.CohortUserID,
			"user_id":              lr.UserID,
			"name":                 lr.Name,
			"role_level":           lr.RoleLevel,
			"messages_sent":        lr.MessagesSent,
			"reflections_received": lr.ReflectionsReceived,
			"completion_percent":   lr.CompletionPercent,
			"readiness_score":      nullableInt64(lr.ReadinessScore),
			"last_reflection_at":   nullableTime(lr.LastReflectionAt),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"cohort": gin.H{
			"id":        overview.Cohort.ID,
			"name":      overview.Cohort.Name,
			"roleLevel": overview.Cohort.RoleLevel,
		},
		"learners": rows,
	})
}

// LearnerProgress handles GET /api/cohort-users/:id/progress.
func (h *AnalyticsHandler) LearnerProgress(c *gin.Context) {
	cohortUserID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || cohortUserID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cohort user id"})
		return
	}

	progress, err := h.analyticsService.LearnerProgress(c.Request.Context(), cohortUserID)
	if err != nil {
		if err == idb.ErrLearnerNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Learner not found"})
			return
		}
		h.logger.Errorf("Failed to load learner progress for %d: %v", cohortUserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load learner progress"})
		return
	}

	days := make([]gin.H, 0, len(progress.EngagementByDay))
	qualityTrend := make([]gin.H, 0)
	for _, d := range progress.EngagementByDay {
		days = append(days, gin.H{
			"dayNumber":           d.DayNumber,
			"title":               d.Title,
			"sent":                d.Sent,
			"sentAt":              nullableTime(d.SentAt),
			"reflectionSubmitted": d.ReflectionSubmitted,
			"reflectionAt":        nullableTime(d.ReflectionAt),
			"qualityScore":        nullableInt64(d.QualityScore),
			"behaviorObserved":    d.BehaviorObserved,
			"reflectionSnippet":   nullableString(d.ReflectionSnippet),
		})
		if d.QualityScore.Valid {
			qualityTrend = append(qualityTrend, gin.H{
				"dayNumber":    d.DayNumber,
				"qualityScore": d.QualityScore.Int64,
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"learner": gin.H{
			"cohortUserId": progress.Learner.CohortUserID,
			"cohortId":     progress.Learner.CohortID,
			"userId":       progress.Learner.UserID,
			"name":         progress.Learner.Name,
			"phoneNumber":  progress.Learner.PhoneNumber,
			"cohortName":   progress.Learner.CohortName,
			"roleLevel":    progress.Learner.RoleLevel,
			"startDate":    progress.Learner.StartDate.Format("2006-01-02"),
			"durationDays": progress.Learner.DurationDays,
		},
		"stats": gin.H{
			"lessonsSent":              progress.Stats.LessonsSent,
			"reflectionsSubmitted":     progress.Stats.ReflectionsSubmitted,
			"completionPercent":        progress.Stats.CompletionPercent,
			"averageReflectionQuality": nullableFloat(progress.Stats.AvgQuality),
			"behaviorsObserved":        progress.Stats.BehaviorsObserved,
			"behaviorPercent":          progress.Stats.BehaviorPercent,
			"readinessScore":           progress.Stats.ReadinessScore,
		},
		"engagementByDay": days,
		"qualityTrend":    qualityTrend,
	})
}
