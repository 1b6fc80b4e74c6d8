// Package main initializes and starts the project tracker HTTP server,
// setting up configuration, logging, the database connection, repositories,
// services and handlers.
package main

import (
	"cmp"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/ProjectTracker/internal/config"
	"github.com/atinyakov/ProjectTracker/internal/db"
	"github.com/atinyakov/ProjectTracker/internal/logger"
	"github.com/atinyakov/ProjectTracker/internal/repository"
	"github.com/atinyakov/ProjectTracker/internal/server/handler/http"
	"github.com/atinyakov/ProjectTracker/internal/service"
	"github.com/atinyakov/ProjectTracker/internal/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
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
	zapLogger, err := logger.New(options.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	defer func() { _ = zapLogger.Sync() }()

	// Initialize the token service. A short signing secret is a
	// configuration error and refuses startup.
	tokens, err := token.New([]byte(options.JWTSecret), time.Duration(options.TokenLifetimeMs)*time.Millisecond)
	if err != nil {
		zapLogger.Fatal("cannot init token service", zap.Error(err))
	}

	if options.BcryptCost < bcrypt.MinCost || options.BcryptCost > bcrypt.MaxCost {
		zapLogger.Fatal("bcrypt cost out of range", zap.Int("cost", options.BcryptCost))
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for accounts, projects and tasks.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	projectRepo := repository.NewPostgresProjectRepository(postgresDB)
	taskRepo := repository.NewPostgresTaskRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, tokens, options.BcryptCost)
	projectService := service.NewProjectService(projectRepo)
	taskService := service.NewTaskService(projectRepo, taskRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	projectHandler := &http.ProjectHandler{ProjectService: projectService}
	taskHandler := &http.TaskHandler{TaskService: taskService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, projectHandler, taskHandler, tokens, userRepo, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
