package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig collects every handler the HTTP surface needs. main wires it
// once at startup.
type RouterConfig struct {
	CORSOrigin string

	AuthMiddleware    *AuthMiddleware
	HealthHandler     *HealthHandler
	AuthHandler       *AuthHandler
	InboundHandler    *InboundHandler
	BillingHandler    *BillingHandler
	OrgHandler        *OrgHandler
	CohortHandler     *CohortHandler
	AnalyticsHandler  *AnalyticsHandler
	ReflectionHandler *ReflectionHandler
}

// NewRouter builds the gin engine with the public endpoints (health, login,
// inbound SMS, billing webhook, demo requests) and the token-guarded /api
// group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthz", cfg.HealthHandler.Check)
	router.POST("/auth/login", cfg.AuthHandler.Login)
	router.POST("/twilio/inbound", cfg.InboundHandler.Inbound)
	router.POST("/billing/webhook", cfg.BillingHandler.Webhook)
	router.POST("/api/public/demo-request", cfg.OrgHandler.CreateDemoRequest)

	// Authenticated admin API
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	api.GET("/billing/status", cfg.BillingHandler.Status)
	api.GET("/org/me", cfg.OrgHandler.GetProfile)
	api.PUT("/org/me", cfg.OrgHandler.UpdateProfile)

	// Dashboard data requires an active subscription on top of auth.
	paid := api.Group("/")
	paid.Use(cfg.AuthMiddleware.RequirePaidOrg())

	paid.GET("/cohorts", cfg.CohortHandler.List)
	paid.GET("/cohorts/:id/summary", cfg.AnalyticsHandler.CohortSummary)
	paid.GET("/cohorts/:id/learners", cfg.AnalyticsHandler.CohortLearners)
	paid.GET("/cohort-users/:id/progress", cfg.AnalyticsHandler.LearnerProgress)
	paid.PATCH("/reflections/:id", cfg.ReflectionHandler.SetBehavior)

	return router
}
