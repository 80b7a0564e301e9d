// GestionDePagos/internal/routes/router.go
package routes

import (
	"github.com/DevCat-HGS/GestionDePagos/internal/handlers"
	"github.com/DevCat-HGS/GestionDePagos/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRouter registra todas las rutas de la API.
func SetupRouter(r *gin.Engine) {
	api := r.Group("/api")

	// --- Rutas públicas: registro e inicio de sesión ---
	api.POST("/users", handlers.RegisterUserHandler)
	api.POST("/users/login", handlers.LoginUserHandler)

	// --- Rutas protegidas ---
	authRequired := api.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		// Usuarios
		users := authRequired.Group("/users")
		{
			users.GET("/profile", handlers.GetUserProfileHandler)
			users.PUT("/profile", handlers.UpdateUserProfileHandler)
			users.GET("/dashboard", handlers.GetDashboardDataHandler)
			users.GET("/report", middleware.AdminMiddleware(), handlers.GenerateUserReportHandler)

			// Administración de cuentas
			users.GET("", middleware.AdminMiddleware(), handlers.ListUsersHandler)
			users.GET("/:id", middleware.AdminMiddleware(), handlers.GetUserHandler)
			users.PUT("/:id", middleware.AdminMiddleware(), handlers.UpdateUserHandler)
			users.PUT("/:id/approve", middleware.AdminMiddleware(), handlers.ApproveUserHandler)
			users.DELETE("/:id", middleware.AdminMiddleware(), handlers.DeleteUserHandler)
		}

		// Pagos
		payments := authRequired.Group("/payments")
		{
			payments.POST("", handlers.CreatePaymentHandler)
			payments.GET("", handlers.ListPaymentsHandler)
			payments.GET("/weekly", handlers.GetWeeklyPaymentsHandler)
			payments.GET("/:id", handlers.GetPaymentHandler)
			payments.PUT("/:id", handlers.UpdatePaymentHandler)
			payments.DELETE("/:id", handlers.DeletePaymentHandler)
		}

		// Eventos
		events := authRequired.Group("/events")
		{
			events.POST("", middleware.AdminMiddleware(), handlers.CreateEventHandler)
			events.GET("", handlers.ListEventsHandler)
			events.GET("/:id", handlers.GetEventHandler)
			events.PUT("/:id", middleware.AdminMiddleware(), handlers.UpdateEventHandler)
			events.DELETE("/:id", middleware.AdminMiddleware(), handlers.DeleteEventHandler)
			events.POST("/:id/payments", handlers.AddPaymentToEventHandler)
			events.GET("/:id/report", handlers.GenerateEventReportHandler)
		}

		// Reportes
		reports := authRequired.Group("/reports")
		{
			reports.GET("/excel", handlers.GeneratePaymentReportHandler)
		}
	}
}
