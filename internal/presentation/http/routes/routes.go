// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/ettle-app/ettle-go/internal/application/container"
	"github.com/ettle-app/ettle-go/internal/presentation/http/handlers"
	"github.com/ettle-app/ettle-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	formHandlers := handlers.NewFormHandlers(c.SessionService, c.Logger, c.PerfTracker)
	leadHandlers := handlers.NewLeadHandlers(c.LeadService, c.Logger, c.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(c.AuthService, c.Logger, c.PerfTracker)
	adminHandlers := handlers.NewAdminHandlers(c.Submissions, c.Logger, c.PerfTracker)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/lead", leadHandlers.PostLead)

		form := api.Group("/form")
		{
			form.GET("/questions", formHandlers.GetQuestions)
			form.GET("/session", formHandlers.GetSession)
			form.POST("/consent", formHandlers.PostConsent)
			form.POST("/answer", formHandlers.PostAnswer)
			form.POST("/navigate", formHandlers.PostNavigate)
			form.POST("/submit", formHandlers.PostSubmit)
		}

		api.POST("/auth/login", authHandlers.PostLogin)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(c.AuthService))
		{
			admin.GET("/submissions", adminHandlers.GetSubmissions)
			admin.GET("/submissions/:runId", adminHandlers.GetSubmission)
		}
	}

	return r
}
