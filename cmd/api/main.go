package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iamasit07/connect4/internal/config"
	"github.com/iamasit07/connect4/internal/metrics"
	"github.com/iamasit07/connect4/internal/service/cleanup"
	"github.com/iamasit07/connect4/internal/service/game"
	transportHttp "github.com/iamasit07/connect4/internal/transport/http"
	"github.com/iamasit07/connect4/internal/transport/http/middleware"
	"github.com/iamasit07/connect4/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	gin.SetMode(cfg.GinMode)
	log.Printf("Default rules: %dx%d, %d to win", cfg.Rules.Columns, cfg.Rules.Rows, cfg.Rules.Goal)

	// 1. Services
	m := metrics.New(prometheus.DefaultRegisterer)
	sessionManager := game.NewSessionManager(cfg.MaxGames, m)
	connManager := websocket.NewConnectionManager()

	// 2. Background workers
	ctx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	cleanupWorker := cleanup.NewWorker(sessionManager, cfg.CleanupInterval, cfg.GameIdleTimeout)
	go cleanupWorker.Start(ctx)

	// 3. Handlers
	gameHandler := transportHttp.NewGameHandler(sessionManager, cfg.Rules)
	watchHandler := transportHttp.NewWatchHandler(sessionManager, connManager)
	wsHandler := websocket.NewHandler(connManager, sessionManager, cfg.AllowedOrigins)

	// 4. Router
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	transportHttp.RegisterRoutes(router, gameHandler, watchHandler)
	router.GET("/ws/games/:id", wsHandler.HandleWebSocket)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "games": sessionManager.Count()})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
