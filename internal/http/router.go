package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/klap2026/klap/internal/http/handlers"
	"github.com/klap2026/klap/internal/http/middleware"
)

// RouterDeps carries everything the router needs, already wired.
type RouterDeps struct {
	Gateway     *middleware.AuthGateway
	EdgeLimiter *middleware.EdgeLimiter
	Auth        *handlers.AuthHandlers
	Profiles    *handlers.ProfileHandlers
	Jobs        *handlers.JobHandlers
	Admin       *handlers.AdminHandlers
	Places      *handlers.PlacesHandlers
}

// BuildRouter assembles the gin engine with the full middleware chain
// and route table. The gateway runs last in the chain so every route
// below it, pages included, goes through the same admission logic.
func BuildRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(deps.EdgeLimiter.Handler())
	r.Use(deps.Gateway.Handler())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Pages. The gateway decides who lands where; handlers only render.
	r.GET("/", handlers.Page("Klap"))
	r.GET("/login", handlers.Page("Login"))
	r.GET("/onboarding", handlers.Page("Onboarding"))
	r.GET("/onboarding/technician", handlers.Page("Technician Onboarding"))
	r.GET("/onboarding/customer", handlers.Page("Customer Onboarding"))
	r.GET("/dashboard", handlers.Page("Dashboard"))
	r.GET("/schedule", handlers.Page("Schedule"))
	r.GET("/jobs", handlers.Page("Jobs"))
	r.GET("/customers", handlers.Page("Customers"))
	r.GET("/settings", handlers.Page("Settings"))
	r.GET("/home", handlers.Page("Home"))
	r.GET("/book", handlers.Page("Book a Service"))
	r.GET("/history", handlers.Page("History"))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/send-otp", deps.Auth.SendOTP)
			auth.POST("/verify-otp", deps.Auth.VerifyOTP)
			auth.POST("/update-role", deps.Auth.UpdateRole)
			auth.GET("/me", deps.Auth.Me)
			auth.POST("/logout", deps.Auth.Logout)
		}

		api.GET("/customers", deps.Profiles.GetCustomer)
		api.POST("/customers", deps.Profiles.CreateCustomer)
		api.PUT("/customers", deps.Profiles.UpdateCustomer)

		api.GET("/technicians", deps.Profiles.GetTechnician)
		api.POST("/technicians", deps.Profiles.CreateTechnician)
		api.PUT("/technicians", deps.Profiles.UpdateTechnician)

		api.GET("/jobs", deps.Jobs.List)
		api.POST("/jobs", deps.Jobs.Create)
		api.GET("/jobs/:id", deps.Jobs.Get)
		api.PATCH("/jobs/:id", deps.Jobs.Patch)

		api.POST("/places/autocomplete", deps.Places.Autocomplete)
		api.POST("/places/details", deps.Places.Details)

		api.DELETE("/admin/users/:id", deps.Admin.DeleteUser)
	}

	return r
}
