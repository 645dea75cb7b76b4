package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-backoffice/cache"
	"hotel-backoffice/config"
	"hotel-backoffice/controllers"
	"hotel-backoffice/routes"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	slog.Info("database connection established, migrations applied")

	// Policy knobs
	reservationWindow := utils.DurationFromEnv("RESERVATION_WINDOW", services.DefaultReservationWindow)
	sweepInterval := utils.DurationFromEnv("SWEEP_INTERVAL", services.DefaultSweepInterval)

	// Services
	priceCache := cache.FromEnv()
	roomService := services.NewRoomService(db, priceCache)
	reservationService := services.NewReservationService(db, roomService, reservationWindow)
	paymentService := services.NewPaymentService(db, reservationService)
	userService := services.NewUserService(db)

	// Background room reclaim
	sweeper := services.NewExpirySweeper(db, sweepInterval)
	sweeper.Start()

	// Controllers
	reservationController := controllers.NewReservationController(reservationService)
	paymentController := controllers.NewPaymentController(paymentService)
	userController := controllers.NewUserController(userService)
	roomController := controllers.NewRoomController(roomService)

	router := routes.SetupRouter(reservationController, paymentController, userController, roomController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal, then shut down with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	sweeper.Stop()
	slog.Info("server stopped gracefully")
}
