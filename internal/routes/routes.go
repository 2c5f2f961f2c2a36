package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medicos-platform-server/internal/config"
	"medicos-platform-server/internal/handlers"
	"medicos-platform-server/internal/middleware"
	"medicos-platform-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	appointmentRepo := store.NewAppointmentRepository(db)
	specialtyCache := store.NewSpecialtyCache(store.NewSpecialtyRepository(db))

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, appointmentRepo)
	specialtyHandler := handlers.NewSpecialtyHandler(specialtyCache)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.SignUp)
			authRoutes.POST("/signin", authHandler.SignIn)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/signout", authHandler.SignOut)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Doctors listing for the booking form
		private.GET("/users/doctors", userHandler.GetDoctors)

		// Specialty reference data
		specialtyRoutes := private.Group("/specialties")
		{
			specialtyRoutes.GET("", specialtyHandler.GetSpecialties)
			specialtyRoutes.POST("/refresh", specialtyHandler.RefreshSpecialties)
		}

		// Appointment routes; authorization inside the handlers
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("/upcoming", appointmentHandler.GetUpcomingAppointments)
			appointmentRoutes.GET("/calendar", appointmentHandler.GetCalendar)
			appointmentRoutes.GET("/slots", appointmentHandler.GetTimeSlots)
			appointmentRoutes.PATCH("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
		}

		private.GET("/dashboard/summary", appointmentHandler.GetDashboardSummary)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
