// Task Tracker API entry point. Wires configuration, the database pool,
// migrations, services, the HTTP router, and graceful shutdown.
//
// @title Task Tracker API
// @version 1.0
// @description Multi-user task tracking API with JWT authentication and login brute-force protection.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/apperror"
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/auth"
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/background"
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/config"
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/db"
	_ "github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/docs" // swagger spec registration
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/tasks"
	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	keepAliveStop := make(chan struct{})
	keepAliveWG := background.StartKeepAliveService(cfg.KeepAlive, keepAliveStop)

	tracker := auth.NewLoginAttemptTracker(
		cfg.Lockout.MaxAttempts,
		cfg.Lockout.AttemptWindow,
		cfg.Lockout.BlockDuration,
	)
	tokens := auth.NewTokenIssuer(*cfg.Auth)
	userStore := auth.NewPostgresUserStore(pool)

	authService := auth.NewAuthService(userStore, tracker, tokens, cfg.Auth.BcryptCost)
	authHandlers := auth.NewHandlers(authService)

	userService := users.NewUserService(userStore)
	userHandlers := users.NewUserHandlers(userService)

	taskService := tasks.NewTaskService(pool)
	taskHandlers := tasks.NewTaskHandlers(taskService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that formats errors through the apperror system.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/health", handleHealth(pool))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(auth.JWTMiddleware(*cfg.Auth))

		r.Get("/me", userHandlers.HandleGetUserProfile())
		r.Put("/me", userHandlers.HandleUpdateUserProfile())
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(auth.JWTMiddleware(*cfg.Auth))

		taskHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(keepAliveStop)
	keepAliveWG.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// handleHealth reports service liveness and database reachability.
func handleHealth(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			writeError(w, apperror.NewDatabaseError("database unreachable", err))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}
}

// writeError is a local helper for middleware that runs before the
// per-package handlers and cannot use their error writers.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
