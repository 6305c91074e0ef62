// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mobiwash-service/internal/config"
	"mobiwash-service/internal/db"
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
	"mobiwash-service/internal/pkg/jwt"
	"mobiwash-service/internal/pkg/session"
	"mobiwash-service/internal/repository/postgres"
	authUsecase "mobiwash-service/internal/service/auth"
	bookingUsecase "mobiwash-service/internal/service/booking"
	catalogUsecase "mobiwash-service/internal/service/catalog"
	customerUsecase "mobiwash-service/internal/service/customer"
	dashboardUsecase "mobiwash-service/internal/service/dashboard"
	exportUsecase "mobiwash-service/internal/service/export"
	invoiceUsecase "mobiwash-service/internal/service/invoice"
	jobUsecase "mobiwash-service/internal/service/job"
	settingsUsecase "mobiwash-service/internal/service/settings"
	technicianUsecase "mobiwash-service/internal/service/technician"
	"mobiwash-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer *http.Server
	cancelBg   context.CancelFunc
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		cfg:    cfg,
		engine: gin.New(),
		logger: logger,
	}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Repositories -----
	staffRepo := postgres.NewStaffRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	technicianRepo := postgres.NewTechnicianRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)

	// ----- Sessions & Rate Limiting -----
	sessionManager := session.NewManager(redisClient, authUsecase.NewSessionStore(staffRepo))
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager, s.logger)

	bgCtx, cancelBg := context.WithCancel(context.Background())
	s.cancelBg = cancelBg
	go hub.Run(bgCtx)

	// ----- Services -----
	authService := authUsecase.NewAuthService(staffRepo, sessionManager, rateLimiter, jwtManager, s.logger)
	catalogService := catalogUsecase.NewCatalogService(serviceRepo, s.logger)
	customerService := customerUsecase.NewCustomerService(customerRepo, s.logger)
	technicianService := technicianUsecase.NewTechnicianService(technicianRepo, s.logger)
	settingsService := settingsUsecase.NewSettingsService(settingRepo, s.logger)

	// Jobs mirror into bookings and bookings materialize jobs, so the job
	// service is built first against the booking repository and then handed
	// to the booking service.
	jobService := jobUsecase.NewJobService(jobRepo, bookingRepo, technicianRepo, hub, s.logger)
	bookingService := bookingUsecase.NewBookingService(bookingRepo, customerService, jobService, hub, s.logger)

	invoiceService := invoiceUsecase.NewInvoiceService(invoiceRepo, jobRepo, settingsService, hub, s.logger)
	dashboardService := dashboardUsecase.NewDashboardService(bookingRepo, jobRepo, invoiceRepo, customerRepo, s.logger)
	exportService := exportUsecase.NewExportService(bookingService, customerService, invoiceService, jobService, dashboardService, s.logger)

	// ----- Super Admin Bootstrap -----
	bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := authService.BootstrapSuperAdmin(bootCtx, s.cfg.SuperAdminEmail, s.cfg.SuperAdminPassword, s.cfg.SuperAdminName); err != nil {
		s.logger.Error("failed to bootstrap super admin", zap.Error(err))
	}
	cancel()

	// ----- Background Reconciliation -----
	go s.runReconcileLoop(bgCtx, jobService, invoiceService)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:       authHandler.NewAuthHandler(authService),
		CatalogHandler:    catalogHandler.NewCatalogHandler(catalogService),
		CustomerHandler:   customerHandler.NewCustomerHandler(customerService),
		TechnicianHandler: technicianHandler.NewTechnicianHandler(technicianService),
		BookingHandler:    bookingHandler.NewBookingHandler(bookingService, rateLimiter),
		JobHandler:        jobHandler.NewJobHandler(jobService),
		InvoiceHandler:    invoiceHandler.NewInvoiceHandler(invoiceService),
		SettingsHandler:   settingsHandler.NewSettingsHandler(settingsService),
		DashboardHandler:  dashboardHandler.NewDashboardHandler(dashboardService),
		ExportHandler:     exportHandler.NewExportHandler(exportService),
		WSHandler:         wsHandler.NewWebSocketHandler(hub, s.logger),
		AuthMiddleware:    middleware.NewAuthMiddleware(authService),
	}

	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(),
	)
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	s.logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener and the background loops.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancelBg != nil {
		s.cancelBg()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// runReconcileLoop periodically materializes job rows for active bookings
// and sweeps pending invoices past their due date.
func (s *Server) runReconcileLoop(ctx context.Context, jobs *jobUsecase.JobService, invoices *invoiceUsecase.InvoiceService) {
	ticker := time.NewTicker(s.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := jobs.AutoCreateJobs(ctx); err != nil {
				s.logger.Error("job auto-create sweep failed", zap.Error(err))
			}
			if _, err := invoices.SweepOverdue(ctx); err != nil {
				s.logger.Error("overdue invoice sweep failed", zap.Error(err))
			}
		}
	}
}
