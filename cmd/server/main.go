package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"todo_service/internal/api"
	"todo_service/internal/app/service"
	"todo_service/internal/common/security"
	"todo_service/internal/domain/repository"
	"todo_service/internal/platform/config"
	"todo_service/internal/platform/database"
	"todo_service/internal/platform/tokenstore"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	tokenstore.ConnectRedis()
	defer tokenstore.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	todoRepo := repository.NewPgTodoRepository(database.DB)

	// 6. Initialize Services
	tokenService := service.NewTokenService(tokenstore.RDB, userRepo)
	authService := service.NewAuthService(userRepo, todoRepo, tokenService)
	userService := service.NewUserService(userRepo, todoRepo)
	todoService := service.NewTodoService(todoRepo, userRepo)

	// 7. Bootstrap admin account (idempotent, never blocks startup)
	authService.EnsureAdmin(context.Background())

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, tokenService, userService, todoService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
