package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"cafebudget/internal/budget"
	"cafebudget/internal/config"
	"cafebudget/internal/database"
	"cafebudget/internal/events"
	"cafebudget/internal/handlers"
	"cafebudget/internal/logger"
	"cafebudget/internal/middleware"
	"cafebudget/internal/services"
	"cafebudget/internal/validator"

	_ "cafebudget/internal/docs" // Import swagger docs
)

// @title           Café Budget API
// @version         1.0
// @description     Validates and reconciles a café's monthly budget hierarchy: overall, category, payroll and company budgets.

// @host      localhost:8080
// @BasePath  /api/v1

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	dbManager, err := database.NewManager(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	engine := budget.NewEngine(cfg.Policy, time.Now)
	auditService := services.NewAuditService(db)
	overallService := services.NewOverallBudgetService(db, engine, publisher)
	categoryService := services.NewCategoryBudgetService(db, engine, publisher)
	payrollService := services.NewPayrollBudgetService(db, engine, publisher)
	companyService := services.NewCompanyBudgetService(db, engine, publisher)
	reconciliationService := services.NewReconciliationService(db, engine, publisher)
	employeeService := services.NewEmployeeService(db)

	// Initialize handlers
	h := &handlers.Handlers{
		Overall:        handlers.NewOverallBudgetHandler(overallService, auditService),
		Category:       handlers.NewCategoryBudgetHandler(categoryService, auditService),
		Payroll:        handlers.NewPayrollBudgetHandler(payrollService, auditService),
		Company:        handlers.NewCompanyBudgetHandler(companyService, auditService),
		Reconciliation: handlers.NewReconciliationHandler(reconciliationService, auditService),
		Employee:       handlers.NewEmployeeHandler(employeeService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	handlers.RegisterRoutes(router.Group("/api/v1"), h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("Starting cafe budget server",
			"port", cfg.Port,
			"driver", cfg.DB.Driver,
			"ceiling", string(cfg.Policy.Ceiling),
		)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newPublisher connects to RabbitMQ when AMQP_URL is set and falls back to a
// no-op publisher otherwise.
func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Get().Info("AMQP_URL not set; budget events are not published")
		return events.NopPublisher{}, nil
	}
	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}
	return publisher, nil
}
