package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"wasteflow/internal/caching"
	"wasteflow/internal/handlers"
	"wasteflow/internal/jobs/background"
	"wasteflow/internal/middleware"
	"wasteflow/internal/models"
	"wasteflow/internal/repositories"
	"wasteflow/internal/services"
	"wasteflow/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}
	tokenTTL := envInt("TOKEN_TTL_SECONDS", 3600)
	refreshTTL := envInt("REFRESH_TTL_SECONDS", 7*24*3600)

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := envInt("REDIS_DB", 0)

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	// Email configuration: noop when SMTP is not configured.
	var emailSvc services.EmailService
	if smtpHost := os.Getenv("SMTP_HOST"); smtpHost != "" {
		smtpPort := os.Getenv("SMTP_PORT")
		if smtpPort == "" {
			smtpPort = "587"
		}
		emailSvc = services.NewSMTPEmailService(smtpHost, smtpPort, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"), os.Getenv("SMTP_FROM"))
	} else {
		log.Printf("SMTP_HOST not set, email sending disabled")
		emailSvc = services.NewNoopEmailService()
	}

	// Create repositories
	orgRepo := repositories.NewOrganizationRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	tierRepo := repositories.NewSubscriptionTierRepo(pool)
	subRepo := repositories.NewSubscriptionRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	zoneRepo := repositories.NewZoneRepo(pool)
	pickupRepo := repositories.NewPickupRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)
	complaintRepo := repositories.NewComplaintRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	authSvc := services.NewAuthService(userRepo, cacheSvc, jwtSecret, tokenTTL, refreshTTL)
	authzSvc := services.NewAuthzService(userRepo)
	limitsSvc := services.NewLimitsService(orgRepo, subRepo, tierRepo, userRepo, customerRepo, zoneRepo, pickupRepo, paymentRepo)
	auditSvc := services.NewAuditService(auditLogsRepo)
	subSvc := services.NewSubscriptionService(subRepo, tierRepo, orgRepo, userRepo, invoiceRepo, emailSvc, cacheSvc)
	orgSvc := services.NewOrganizationService(orgRepo, userRepo, subSvc, authSvc, minioSvc)
	userSvc := services.NewUserService(userRepo, limitsSvc, authSvc)
	customerSvc := services.NewCustomerService(customerRepo, zoneRepo, complaintRepo, notificationRepo, limitsSvc, authSvc)
	zoneSvc := services.NewZoneService(zoneRepo, userRepo, limitsSvc)
	pickupSvc := services.NewPickupService(pickupRepo, customerRepo, notificationRepo, limitsSvc)
	paymentSvc := services.NewPaymentService(paymentRepo, invoiceRepo, customerRepo)

	// Middleware
	jwtMiddleware := middleware.JWTMiddleware(authSvc, authzSvc)
	auditMiddleware := middleware.NewAuditMiddleware(auditSvc)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, authzSvc)
	orgHandlers := handlers.NewOrganizationHandlers(orgSvc, userSvc, authSvc)
	subHandlers := handlers.NewSubscriptionHandlers(subSvc, limitsSvc, paymentSvc)
	customerHandlers := handlers.NewCustomerHandlers(customerSvc)
	zoneHandlers := handlers.NewZoneHandlers(zoneSvc)
	pickupHandlers := handlers.NewPickupHandlers(pickupSvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc, customerSvc)
	auditHandlers := handlers.NewAuditLogsHandlers(auditSvc)
	adminHandlers := handlers.NewAdminHandlers(orgSvc, subSvc, auditSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.Readiness)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandlers.Login)
	api.POST("/auth/refresh", authHandlers.Refresh)
	api.POST("/auth/register", orgHandlers.RegisterManager)
	api.POST("/organizations/register-manager", orgHandlers.RegisterManager)
	api.GET("/subscriptions/tiers", subHandlers.ListTiers)

	// Protected routes
	protected := api.Group("")
	protected.Use(jwtMiddleware)

	protected.POST("/auth/logout", authHandlers.Logout, auditMiddleware.Record("user_logout", "user"))
	protected.GET("/auth/me", authHandlers.Me)
	protected.GET("/auth/verify-token", authHandlers.Me)

	// Customer self-service. Registered outside the staff-gated /customers
	// group so customer-role logins can reach them.
	protected.GET("/customers/profile", customerHandlers.GetProfile)
	protected.PUT("/customers/profile", customerHandlers.UpdateProfile, auditMiddleware.Record("customer_profile_update", "customer"))
	protected.GET("/customers/notifications", customerHandlers.MyNotifications)

	// Organization self-service (business manager and up)
	org := protected.Group("/organizations/me", middleware.RequireRole(models.RoleBusinessManager))
	org.GET("", orgHandlers.GetOrganization)
	org.PUT("", orgHandlers.UpdateOrganization, auditMiddleware.Record("organization_update", "organization"))
	org.PUT("/features", orgHandlers.UpdateFeatures, auditMiddleware.Record("organization_features_update", "organization"))
	org.POST("/logo", orgHandlers.UploadLogo, auditMiddleware.Record("organization_logo_upload", "organization"))
	org.POST("/managers", orgHandlers.CreateManager, auditMiddleware.Record("manager_creation", "user"))
	org.GET("/managers", orgHandlers.ListManagers)
	org.DELETE("/managers/:id", orgHandlers.DeactivateManager, auditMiddleware.Record("manager_deactivation", "user"))

	// Subscription surface (business manager and up)
	subs := protected.Group("/subscriptions", middleware.RequireRole(models.RoleBusinessManager))
	subs.GET("/my-subscription", subHandlers.MySubscription)
	subs.POST("/upgrade", subHandlers.Upgrade, auditMiddleware.Record("subscription_upgrade", "subscription"))
	subs.GET("/check-limits", subHandlers.CheckLimits)
	subs.GET("/invoices", subHandlers.ListInvoices)

	// Customers (regional manager and up)
	customers := protected.Group("/customers", middleware.RequireRole(models.RoleRegionalManager))
	customers.POST("", customerHandlers.CreateCustomer, auditMiddleware.Record("customer_creation", "customer"))
	customers.GET("", customerHandlers.ListCustomers)
	customers.GET("/:id", customerHandlers.GetCustomer)
	customers.PUT("/:id", customerHandlers.UpdateCustomer, auditMiddleware.Record("customer_update", "customer"))
	customers.DELETE("/:id", customerHandlers.DeleteCustomer, auditMiddleware.Record("customer_deletion", "customer"))
	customers.GET("/:id/notifications", customerHandlers.ListNotifications)

	protected.PUT("/notifications/:id/read", customerHandlers.MarkNotificationRead)

	// Complaints
	complaints := protected.Group("/complaints")
	complaints.POST("", customerHandlers.CreateComplaint, auditMiddleware.Record("complaint_creation", "complaint"))
	complaints.GET("", customerHandlers.ListComplaints, middleware.RequireRole(models.RoleRegionalManager))
	complaints.PUT("/:id/resolve", customerHandlers.ResolveComplaint, middleware.RequireRole(models.RoleRegionalManager), auditMiddleware.Record("complaint_resolution", "complaint"))

	// Zones (business manager and up)
	zones := protected.Group("/zones", middleware.RequireRole(models.RoleBusinessManager))
	zones.POST("", zoneHandlers.CreateZone, auditMiddleware.Record("zone_creation", "zone"))
	zones.GET("", zoneHandlers.ListZones)
	zones.GET("/:id", zoneHandlers.GetZone)
	zones.PUT("/:id", zoneHandlers.UpdateZone, auditMiddleware.Record("zone_update", "zone"))
	zones.DELETE("/:id", zoneHandlers.DeleteZone, auditMiddleware.Record("zone_deletion", "zone"))
	zones.PUT("/:id/manager", zoneHandlers.AssignManager, auditMiddleware.Record("zone_manager_assignment", "zone"))

	// Pickups (regional manager and up)
	pickups := protected.Group("/pickups", middleware.RequireRole(models.RoleRegionalManager))
	pickups.POST("", pickupHandlers.SchedulePickup, auditMiddleware.Record("pickup_creation", "pickup"))
	pickups.GET("", pickupHandlers.ListPickups)
	pickups.GET("/upcoming", pickupHandlers.ListUpcoming)
	pickups.GET("/:id", pickupHandlers.GetPickup)
	pickups.PUT("/:id/status", pickupHandlers.UpdateStatus, auditMiddleware.Record("pickup_status_update", "pickup"))

	// Payments. Making a payment and reading transaction history are open to
	// any authenticated user; customer-role callers are pinned to their own
	// customer record. Status updates and org-wide reads stay staff-only.
	payments := protected.Group("/payments")
	payments.POST("/make-payment", paymentHandlers.MakePayment, auditMiddleware.Record("payment_creation", "payment"))
	payments.GET("/transactions", paymentHandlers.ListTransactions)
	payments.GET("", paymentHandlers.ListPayments, middleware.RequireRole(models.RoleRegionalManager))
	payments.GET("/:id", paymentHandlers.GetPayment, middleware.RequireRole(models.RoleRegionalManager))
	payments.PUT("/:id/status", paymentHandlers.UpdatePaymentStatus, middleware.RequireRole(models.RoleRegionalManager), auditMiddleware.Record("payment_status_update", "payment"))

	// Audit logs (business manager and up)
	auditLogs := protected.Group("/audit-logs", middleware.RequireRole(models.RoleBusinessManager))
	auditLogs.GET("", auditHandlers.ListAuditLogs)
	auditLogs.GET("/summary", auditHandlers.GetSummary)
	auditLogs.GET("/users/:id", auditHandlers.GetUserActivity)
	auditLogs.GET("/:id", auditHandlers.GetAuditLog)

	// Super admin surface
	admin := protected.Group("/admin", middleware.RequireRole(models.RoleSuperAdmin))
	admin.GET("/organizations", adminHandlers.ListOrganizations)
	admin.GET("/organizations/:id", adminHandlers.GetOrganizationDetails)
	admin.PUT("/organizations/:id/suspend", adminHandlers.SuspendOrganization, auditMiddleware.Record("organization_suspension", "organization"))
	admin.PUT("/organizations/:id/activate", adminHandlers.ActivateOrganization, auditMiddleware.Record("organization_activation", "organization"))
	admin.POST("/tiers", subHandlers.CreateTier, auditMiddleware.Record("subscription_tier_creation", "subscription_tier"))
	admin.GET("/audit-logs", adminHandlers.ListAllAuditLogs)
	admin.GET("/stats", adminHandlers.PlatformStats)

	// Background jobs
	scheduler := background.NewJobScheduler(subSvc, auditSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Printf("WasteFlow server v%s starting on port %s", version, port)
		if err := e.Start(fmt.Sprintf(":%s", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	if err := scheduler.Stop(); err != nil {
		log.Printf("Failed to stop scheduler: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", name, raw, fallback)
		return fallback
	}
	return value
}
