package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"github.com/iamasit07/connect4/internal/config"
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/tui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load("../.env")
	}

	cfg := config.LoadConfig()
	game, err := domain.NewGame(cfg.Rules)
	if err != nil {
		log.Fatalf("Invalid rules: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialise screen: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tui.New(screen, game).Run(ctx)
	screen.Fini()
	if err != nil && err != context.Canceled {
		log.Fatal(err)
	}
	if game.IsFinished() {
		log.Println(game.Status())
	}
}
