package routes

import (
	"alumnifund/internal/adapters/http/handlers"
	"alumnifund/internal/adapters/http/middleware"
	"alumnifund/internal/adapters/persistence/repositories"
	"alumnifund/internal/config"
	"alumnifund/internal/core/domain"
	"alumnifund/internal/core/services"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services holds the service layer shared between the HTTP routes and
// the background jobs wired up in main.
type Services struct {
	Auth      *services.AuthService
	Users     *services.UserService
	Members   *services.MemberService
	Ledger    *services.LedgerService
	Approvals *services.ApprovalService
	Repayment *services.RepaymentService
	Summaries *services.SummaryService
	Reports   *services.ReportService
	Settings  *services.SettingsService
	Dashboard *services.DashboardService
}

// BuildServices wires repositories and services on top of the database handle
func BuildServices(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *Services {
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	repaymentRepo := repositories.NewRepaymentRepository(db)
	summaryRepo := repositories.NewSummaryRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)

	summaryService := services.NewSummaryService(paymentRepo, loanRepo, repaymentRepo, memberRepo, summaryRepo, cfg.Dues.AnnualAmount, log)
	approvalService := services.NewApprovalService(paymentRepo, loanRepo, summaryService, log)

	return &Services{
		Auth:      services.NewAuthService(userRepo, refreshTokenRepo, memberRepo, cfg, log),
		Users:     services.NewUserService(userRepo, memberRepo),
		Members:   services.NewMemberService(memberRepo, log),
		Ledger:    services.NewLedgerService(paymentRepo, loanRepo, memberRepo, log),
		Approvals: approvalService,
		Repayment: services.NewRepaymentService(loanRepo, repaymentRepo, approvalService, log),
		Summaries: summaryService,
		Reports:   services.NewReportService(paymentRepo, loanRepo, reportRepo, summaryService, log),
		Settings:  services.NewSettingsService(settingsRepo),
		Dashboard: services.NewDashboardService(db, summaryService),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svcs *Services, cfg *config.Config) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(svcs.Auth, cfg)
	userHandler := handlers.NewUserHandler(svcs.Users)
	memberHandler := handlers.NewMemberHandler(svcs.Members, svcs.Summaries)
	paymentHandler := handlers.NewPaymentHandler(svcs.Ledger, svcs.Approvals)
	loanHandler := handlers.NewLoanHandler(svcs.Ledger, svcs.Approvals, svcs.Repayment)
	reportHandler := handlers.NewReportHandler(svcs.Reports)
	settingsHandler := handlers.NewSettingsHandler(svcs.Settings)
	dashboardHandler := handlers.NewDashboardHandler(svcs.Dashboard, svcs.Summaries)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, memberHandler,
		paymentHandler, loanHandler, reportHandler, settingsHandler, dashboardHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	memberHandler *handlers.MemberHandler,
	paymentHandler *handlers.PaymentHandler,
	loanHandler *handlers.LoanHandler,
	reportHandler *handlers.ReportHandler,
	settingsHandler *handlers.SettingsHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Member registry routes (Authenticated)
	memberRoutes := router.Group("/members")
	memberRoutes.Use(middleware.AuthMiddleware(cfg))
	setupMemberRoutes(memberRoutes, memberHandler)

	// Payment ledger routes (Authenticated)
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Use(middleware.AuthMiddleware(cfg))
	paymentRoutes.Use(middleware.NoCacheHeaders())
	setupPaymentRoutes(paymentRoutes, paymentHandler)

	// Loan ledger routes (Authenticated)
	loanRoutes := router.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	loanRoutes.Use(middleware.NoCacheHeaders())
	setupLoanRoutes(loanRoutes, loanHandler)

	// Report routes (Admin only)
	reportRoutes := router.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	reportRoutes.Use(middleware.RequireCapability(domain.CapGenerateReports))
	setupReportRoutes(reportRoutes, reportHandler)

	// Dashboard routes
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)

	// Settings routes (Authenticated users)
	settingsRoutes := router.Group("/settings")
	settingsRoutes.Use(middleware.AuthMiddleware(cfg))
	settingsRoutes.Get("/", settingsHandler.Get)
	settingsRoutes.Put("/", settingsHandler.Update)

	// User management routes (SuperAdmin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.SuperAdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (register 3 req/min/IP, the rest 5 req/min/IP)
	router.Post("/register", middleware.StrictRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupMemberRoutes configures member registry routes
func setupMemberRoutes(router fiber.Router, handler *handlers.MemberHandler) {
	// Read access for all authenticated users
	router.Get("/", handler.List)
	router.Get("/search", handler.Search)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/summary", handler.GetSummary)

	// Registry maintenance (Admin only)
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.RequireCapability(domain.CapManageMembers))
	adminRoutes.Post("/", handler.Create)
	adminRoutes.Put("/:id", handler.Update)
}

// setupPaymentRoutes configures payment ledger routes
func setupPaymentRoutes(router fiber.Router, handler *handlers.PaymentHandler) {
	// Member routes
	router.Post("/", handler.Submit)
	router.Get("/my", handler.GetMyPayments)
	router.Get("/:id", handler.GetByID)

	// Admin routes
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Get("/", handler.List)
	adminRoutes.Put("/:id/approve", handler.Approve)
	adminRoutes.Put("/:id/reject", handler.Reject)
}

// setupLoanRoutes configures loan ledger routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	// Member routes
	router.Post("/", handler.Apply)
	router.Get("/my", handler.GetMyLoans)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/repayments", handler.ListRepayments)

	// Admin routes
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Get("/", handler.List)
	adminRoutes.Put("/:id/approve", handler.Approve)
	adminRoutes.Put("/:id/reject", handler.Reject)
	adminRoutes.Post("/:id/repayments", middleware.RequireCapability(domain.CapRecordRepayments), handler.RecordRepayment)
}

// setupReportRoutes configures report routes (Admin only)
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	router.Post("/", handler.Generate)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	// Member dashboard (All authenticated users)
	router.Get("/me", handler.MemberDashboard)

	// Admin dashboard and system totals (Admin only)
	router.Get("/admin", middleware.AdminOnly(), handler.AdminDashboard)
	router.Get("/financial-summary", middleware.AdminOnly(), handler.FinancialSummary)
}

// setupUserRoutes configures user management routes (SuperAdmin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
	router.Put("/:id/role", handler.SetUserRole)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}
