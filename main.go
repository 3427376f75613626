package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"diamondeda/internal/config"
	"diamondeda/internal/container"
	"diamondeda/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := appContainer.EDAService.Run(ctx)
	if err != nil {
		appContainer.Logger.Error("EDA failed [%s]: %v", errors.GetCode(err), err)
		stop()
		os.Exit(1)
	}

	fmt.Printf("EDA complete: report -> %s, images -> %s\n", result.ReportPath, result.ImagesDir)
}
