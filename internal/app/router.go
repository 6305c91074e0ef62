// internal/app/router.go
package app

import (
	authHandler "mobiwash-service/internal/handlers/auth"
	bookingHandler "mobiwash-service/internal/handlers/booking"
	catalogHandler "mobiwash-service/internal/handlers/catalog"
	customerHandler "mobiwash-service/internal/handlers/customer"
	dashboardHandler "mobiwash-service/internal/handlers/dashboard"
	exportHandler "mobiwash-service/internal/handlers/export"
	invoiceHandler "mobiwash-service/internal/handlers/invoice"
	jobHandler "mobiwash-service/internal/handlers/job"
	settingsHandler "mobiwash-service/internal/handlers/settings"
	technicianHandler "mobiwash-service/internal/handlers/technician"
	wsHandler "mobiwash-service/internal/handlers/websocket"
	"mobiwash-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler       *authHandler.AuthHandler
	CatalogHandler    *catalogHandler.CatalogHandler
	CustomerHandler   *customerHandler.CustomerHandler
	TechnicianHandler *technicianHandler.TechnicianHandler
	BookingHandler    *bookingHandler.BookingHandler
	JobHandler        *jobHandler.JobHandler
	InvoiceHandler    *invoiceHandler.InvoiceHandler
	SettingsHandler   *settingsHandler.SettingsHandler
	DashboardHandler  *dashboardHandler.DashboardHandler
	ExportHandler     *exportHandler.ExportHandler
	WSHandler         *wsHandler.WebSocketHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Site ====================
	public := api.Group("/public")
	{
		public.GET("/services", h.CatalogHandler.ListPublicServices)
		public.POST("/bookings", h.BookingHandler.SubmitBooking)
		public.GET("/bookings/:reference", h.BookingHandler.TrackBooking)
	}

	// ==================== Auth ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
		authProtected.PUT("/change-password", h.AuthHandler.ChangePassword)
	}

	// ==================== Back Office ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.Auth())
	{
		// Dashboard
		admin.GET("/dashboard", h.DashboardHandler.Summary)
		admin.GET("/accounting", h.DashboardHandler.Accounting)

		// Service catalog
		services := admin.Group("/services")
		{
			services.GET("", h.CatalogHandler.ListServices)
			services.POST("", h.CatalogHandler.CreateService)
			services.GET("/:id", h.CatalogHandler.GetService)
			services.PUT("/:id", h.CatalogHandler.UpdateService)
			services.PUT("/:id/active", h.CatalogHandler.SetActive)
			services.DELETE("/:id", h.CatalogHandler.DeleteService)
		}

		// Customers
		customers := admin.Group("/customers")
		{
			customers.GET("", h.CustomerHandler.ListCustomers)
			customers.POST("", h.CustomerHandler.CreateCustomer)
			customers.GET("/:id", h.CustomerHandler.GetCustomer)
			customers.GET("/:id/stats", h.CustomerHandler.GetCustomerStats)
			customers.PUT("/:id", h.CustomerHandler.UpdateCustomer)
			customers.DELETE("/:id", h.CustomerHandler.DeleteCustomer)
		}

		// Technicians
		technicians := admin.Group("/technicians")
		{
			technicians.GET("", h.TechnicianHandler.ListTechnicians)
			technicians.POST("", h.TechnicianHandler.CreateTechnician)
			technicians.GET("/:id", h.TechnicianHandler.GetTechnician)
			technicians.PUT("/:id", h.TechnicianHandler.UpdateTechnician)
			technicians.DELETE("/:id", h.TechnicianHandler.DeleteTechnician)
		}

		// Bookings
		bookings := admin.Group("/bookings")
		{
			bookings.GET("", h.BookingHandler.ListBookings)
			bookings.POST("", h.BookingHandler.CreateBooking)
			bookings.GET("/:id", h.BookingHandler.GetBooking)
			bookings.PUT("/:id", h.BookingHandler.UpdateBooking)
			bookings.PUT("/:id/status", h.BookingHandler.UpdateStatus)
			bookings.DELETE("/:id", h.BookingHandler.DeleteBooking)
		}

		// Jobs (unified work list)
		jobs := admin.Group("/jobs")
		{
			jobs.GET("", h.JobHandler.ListWorkItems)
			jobs.POST("/auto-create", h.JobHandler.AutoCreateJobs)
			jobs.GET("/:id", h.JobHandler.GetWorkItem)
			jobs.PUT("/:id", h.JobHandler.UpdateJob)
			jobs.PUT("/:id/technician", h.JobHandler.AssignTechnician)
			jobs.PUT("/:id/status", h.JobHandler.UpdateStatus)
			jobs.DELETE("/:id", h.JobHandler.DeleteWorkItem)
		}

		// Invoices
		invoices := admin.Group("/invoices")
		{
			invoices.GET("", h.InvoiceHandler.ListInvoices)
			invoices.POST("", h.InvoiceHandler.GenerateInvoice)
			invoices.GET("/:id", h.InvoiceHandler.GetInvoice)
			invoices.PUT("/:id/payment", h.InvoiceHandler.RecordPayment)
			invoices.PUT("/:id/cancel", h.InvoiceHandler.CancelInvoice)
		}

		// Settings
		settings := admin.Group("/settings")
		{
			settings.GET("", h.SettingsHandler.ListSettings)
			settings.PUT("", h.SettingsHandler.UpsertSetting)
			settings.GET("/:key", h.SettingsHandler.GetSetting)
			settings.DELETE("/:key", h.SettingsHandler.DeleteSetting)
		}

		// Exports
		exports := admin.Group("/exports")
		{
			exports.GET("/bookings", h.ExportHandler.ExportBookings)
			exports.GET("/customers", h.ExportHandler.ExportCustomers)
			exports.GET("/invoices", h.ExportHandler.ExportInvoices)
			exports.GET("/jobs", h.ExportHandler.ExportWorkItems)
			exports.GET("/accounting", h.ExportHandler.ExportAccounting)
		}

		// Staff management (super admin only)
		staff := admin.Group("/staff")
		staff.Use(h.AuthMiddleware.RequireSuperAdmin())
		{
			staff.GET("", h.AuthHandler.ListStaff)
			staff.POST("", h.AuthHandler.CreateStaff)
			staff.PUT("/:id/active", h.AuthHandler.SetStaffActive)
		}
	}
}
