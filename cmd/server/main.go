package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/simple-task-app/internal/config"
	"github.com/yukikurage/simple-task-app/internal/constants"
	"github.com/yukikurage/simple-task-app/internal/database"
	"github.com/yukikurage/simple-task-app/internal/handlers"
	"github.com/yukikurage/simple-task-app/internal/middleware"
	"github.com/yukikurage/simple-task-app/internal/repository"
	"github.com/yukikurage/simple-task-app/internal/router"
	"github.com/yukikurage/simple-task-app/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	passwords, err := services.NewPasswordHasher(cfg.PasswordStorage, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Invalid password storage: %v", err)
	}
	if cfg.PasswordStorage == "plaintext" {
		log.Println("WARNING: passwords are stored in plaintext")
	}

	// Session store: signed cookies by default, Redis when configured
	store, redisClient, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	// Initialize services
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	authService := services.NewAuthService(userRepo, passwords)
	taskService := services.NewTaskService(taskRepo)

	r := newEngine(store)
	handlers.SetupRoutes(r, handlers.Handlers{
		Web:    handlers.NewWebHandler(router.New(authService, taskService)),
		Auth:   handlers.NewAuthHandler(authService),
		Tasks:  handlers.NewTaskHandler(taskService),
		Health: handlers.NewHealthHandler(db, redisClient),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}
	if err := database.Close(db); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	log.Println("Server stopped")
}

// newEngine returns a gin engine with request logging, panic recovery and the
// session middleware installed.
func newEngine(store sessions.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryWithLog())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	return r
}

// newSessionStore builds the session backend named by cfg.SessionStore. For
// Redis it also returns a client used by the readiness probe.
func newSessionStore(cfg *config.Config) (sessions.Store, *redis.Client, error) {
	switch cfg.SessionStore {
	case "redis":
		store, err := redisStore.NewStore(
			10,              // Redis pool size
			"tcp",           // network type
			cfg.RedisAddr(), // Redis address from config
			"",              // username (empty for default user)
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
		})
		return store, client, nil
	default:
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil, nil
	}
}
