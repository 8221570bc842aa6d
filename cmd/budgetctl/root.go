package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cafebudget/internal/budget"
	"cafebudget/internal/config"
	"cafebudget/internal/database"
	"cafebudget/internal/events"
	"cafebudget/internal/logger"
	"cafebudget/internal/services"
)

// cliActor is recorded in the audit log for changes made from budgetctl.
const cliActor = "budgetctl"

var (
	flagMonth string
	flagQuiet bool
)

var rootCmd = &cobra.Command{
	Use:           "budgetctl",
	Short:         "Café budget maintenance CLI",
	Long:          "Inspect and finalize a café's monthly budgets directly against the budget database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagMonth, "month", "m", "", "Budget month (YYYY-MM), defaults to the current month")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")
}

// app is the service stack shared by every subcommand.
type app struct {
	cfg            *config.Config
	db             *database.Manager
	engine         *budget.Engine
	reconciliation services.ReconciliationServicer
	employees      services.EmployeeServicer
	audit          services.AuditServicer
}

// openApp loads configuration and opens the database. The caller must call close.
func openApp() (*app, error) {
	env := "development"
	if flagQuiet {
		env = "production"
	}
	logger.Init(env)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	dbManager, err := database.NewManager(&cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := dbManager.RunMigrations(); err != nil {
		dbManager.Close()
		return nil, err
	}

	db := dbManager.DB()
	engine := budget.NewEngine(cfg.Policy, time.Now)
	// Events are only published by the API process.
	publisher := events.NopPublisher{}
	return &app{
		cfg:            cfg,
		db:             dbManager,
		engine:         engine,
		reconciliation: services.NewReconciliationService(db, engine, publisher),
		employees:      services.NewEmployeeService(db),
		audit:          services.NewAuditService(db),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		logger.Get().Warnw("failed to close database", "error", err)
	}
	logger.Sync()
}

// month resolves --month, falling back to the engine's current month.
func (a *app) month() string {
	if flagMonth != "" {
		return flagMonth
	}
	return a.engine.CurrentMonth()
}

func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	return events.WithActor(ctx, cliActor), cancel
}
