package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/roomiesplit/roomiesplit/docs"
	"github.com/roomiesplit/roomiesplit/internal/auth"
	"github.com/roomiesplit/roomiesplit/internal/config"
	"github.com/roomiesplit/roomiesplit/internal/database"
	"github.com/roomiesplit/roomiesplit/internal/expense"
	"github.com/roomiesplit/roomiesplit/internal/group"
	"github.com/roomiesplit/roomiesplit/internal/user"
	"github.com/roomiesplit/roomiesplit/pkg/logging"
	mw "github.com/roomiesplit/roomiesplit/pkg/middleware"
)

// @title           RoomieSplit API
// @version         1.0
// @description     Shared-expense tracking API: groups, expenses and balances.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	logging.Setup()

	// Load configuration
	cfg := config.Load()

	ctx := context.Background()

	// Initialize database connection
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDatabase)
	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to database", "database", cfg.MongoDatabase)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, jwtManager)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, userRepo)
	groupHandler := group.NewHandler(groupService)

	// Expense feature (shares the group aggregate store)
	expenseService := expense.NewService(groupRepo, userRepo, cfg.BalanceTimeZone)
	expenseHandler := expense.NewHandler(expenseService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())

		r.Route("/groups", func(r chi.Router) {
			r.Use(mw.RequireAuth(jwtManager))
			groupHandler.RegisterRoutes(r)
			expenseHandler.RegisterRoutes(r)
		})
	})

	slog.Info("Server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
