// Package main initializes and starts the finance tracking HTTP server,
// setting up configuration, logging, database connections, repositories,
// services and handlers.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/nmcalabroso/fintrack/internal/config"
	"github.com/nmcalabroso/fintrack/internal/db"
	"github.com/nmcalabroso/fintrack/internal/logger"
	"github.com/nmcalabroso/fintrack/internal/repository"
	"github.com/nmcalabroso/fintrack/internal/server/handler/http"
	"github.com/nmcalabroso/fintrack/internal/service"
	"github.com/nmcalabroso/fintrack/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("token signing secret is required (JWT_SECRET or -s)")
	}
	if options.AdminPassword == "" {
		zapLogger.Warn("no admin password configured, admin login disabled")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	expenseRepo := repository.NewPostgresExpenseRepository(postgresDB)
	investmentRepo := repository.NewPostgresInvestmentRepository(postgresDB)

	// Initialize business-logic services.
	tokenService := token.New(options.JWTSecret, options.TokenLifetime())
	authService := service.NewAuthService(userRepo, tokenService, options.AdminPassword, zapLogger)
	expenseService := service.NewExpenseService(expenseRepo)
	investmentService := service.NewInvestmentService(investmentRepo)
	analyticsService := service.NewAnalyticsService(expenseRepo, investmentRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	itemHandler := &http.ItemHandler{ItemService: authService}
	expenseHandler := &http.ExpenseHandler{ExpenseService: expenseService}
	investmentHandler := &http.InvestmentHandler{InvestmentService: investmentService}
	analyticsHandler := &http.AnalyticsHandler{AnalyticsService: analyticsService}

	// Build the router with middleware and routes.
	router := http.NewRouter(
		authHandler,
		itemHandler,
		expenseHandler,
		investmentHandler,
		analyticsHandler,
		authService,
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
