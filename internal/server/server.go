package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gatherly/api/config"
	"github.com/gatherly/api/internal/handlers"
	"github.com/gatherly/api/internal/middleware"
	"github.com/gatherly/api/internal/payments"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	paymentProvider, err := config.InitPayPal(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize payment provider: %v", err)
	}

	r := gin.Default()
	r.Static("/uploads", cfg.UploadDir)

	SetupRoutes(r, db, paymentProvider)

	return r.Run(":" + cfg.Port)
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, paymentProvider payments.Provider) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.PaymentMiddleware(paymentProvider))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		eventPublic := public.Group("/events")
		eventPublic.Use(middleware.OptionalJWTAuthMiddleware())
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
			eventPublic.GET("/:id/calendar-link", handlers.GetEventCalendarLink)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.POST("/events/:id/register", handlers.RegisterForEvent)
		protected.POST("/events/:id/payment/orders", handlers.CreatePaymentOrder)
		protected.POST("/events/:id/payment/orders/:orderId/capture", handlers.CapturePaymentOrder)
		protected.GET("/registrations/:id/qr", handlers.GenerateRegistrationQR)

		staff := protected.Group("")
		staff.Use(middleware.StaffOnlyMiddleware())
		{
			staff.POST("/events", handlers.CreateEvent)
			staff.PUT("/events/:id", handlers.UpdateEvent)
			staff.DELETE("/events/:id", handlers.DeleteEvent)
			staff.POST("/registrations/verify", handlers.VerifyRegistration)
		}
	}
}
