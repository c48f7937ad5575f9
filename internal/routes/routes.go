package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/auth"
	"github.com/Anittaa1111/Hostel-Management/internal/config"
	"github.com/Anittaa1111/Hostel-Management/internal/email"
	"github.com/Anittaa1111/Hostel-Management/internal/handlers"
	"github.com/Anittaa1111/Hostel-Management/internal/middleware"
	"github.com/Anittaa1111/Hostel-Management/internal/models"
	"github.com/Anittaa1111/Hostel-Management/internal/repository"
)

type Deps struct {
	Config  config.Config
	Store   *repository.Store
	Auth    *auth.Service
	Mailer  email.Sender
	Logger  *zap.Logger
	Metrics prometheus.Gatherer
}

func Register(router *gin.Engine, deps Deps) {
	router.Use(corsMiddleware(deps.Config.AllowedOrigins()))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "hostelwala-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	store := deps.Store
	authHandler := handlers.NewAuthHandler(deps.Auth, store.Users, store.Hostels, deps.Mailer, deps.Logger)
	userHandler := handlers.NewUserHandler(store.Users, deps.Logger)
	hostelHandler := handlers.NewHostelHandler(store.Hostels, store.Users, deps.Logger)
	dashboardHandler := handlers.NewDashboardHandler(store.Users, store.Hostels, deps.Logger)

	protect := middleware.AuthRequired(deps.Auth)
	central := middleware.RequireRole(models.RoleCentralAuthority)
	authority := middleware.RequireAnyRole(models.RoleHostelAuthority, models.RoleCentralAuthority)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/verify-otp", authHandler.VerifyOTP)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", protect, authHandler.Me)
		authGroup.PUT("/profile", protect, authHandler.UpdateProfile)
		authGroup.POST("/book-hostel", protect, authHandler.BookHostel)
	}

	users := api.Group("/users", protect, central)
	{
		users.GET("", userHandler.List)
		users.PUT("/:id/toggle-active", userHandler.ToggleActive)
		users.PUT("/:id/verify", userHandler.ToggleVerify)
		users.DELETE("/:id", userHandler.Delete)
	}

	hostels := api.Group("/hostels")
	{
		hostels.GET("", hostelHandler.List)
		hostels.GET("/all", protect, central, hostelHandler.ListAll)
		hostels.GET("/slug/:slug", hostelHandler.GetBySlug)
		hostels.GET("/my/hostels", protect, authority, hostelHandler.ListMine)
		hostels.GET("/:id", hostelHandler.GetByID)

		hostels.POST("", protect, authority, hostelHandler.Create)
		hostels.PUT("/:id", protect, authority, hostelHandler.Update)
		hostels.DELETE("/:id", protect, authority, hostelHandler.Delete)

		hostels.PUT("/:id/verify", protect, central, hostelHandler.ToggleVerified)
		hostels.PUT("/:id/featured", protect, central, hostelHandler.ToggleFeatured)
		hostels.PUT("/:id/toggle-active", protect, central, hostelHandler.ToggleActive)
	}

	api.GET("/dashboard", protect, authority, dashboardHandler.Get)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
