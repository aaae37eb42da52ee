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

	"github.com/voxlab/assistant/internal/adapter/llm"
	"github.com/voxlab/assistant/internal/adapter/search"
	"github.com/voxlab/assistant/internal/config"
	store "github.com/voxlab/assistant/internal/repository"
	"github.com/voxlab/assistant/internal/service"
	transport "github.com/voxlab/assistant/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting assistant backend...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Model: %s", cfg.Model)
	log.Printf("Search provider: %s", cfg.SearchProvider)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL, cfg.Pricing)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize completion client
	llmClient := llm.NewCompletionClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMTimeout)

	// Initialize search provider (best-effort augmentation; nil disables it)
	var searchProvider search.Provider
	switch cfg.SearchProvider {
	case "tavily":
		searchProvider = search.NewTavily(cfg.TavilyAPIKey, cfg.SearchTimeout)
	case "duckduckgo":
		searchProvider = search.NewDuckDuckGo(cfg.SearchTimeout)
	case "none", "":
		// augmentation disabled
	default:
		log.Fatalf("Unknown SEARCH_PROVIDER: %q", cfg.SearchProvider)
	}

	// Initialize service
	svc := service.New(db, llmClient, searchProvider, cfg)

	// Create HTTP server
	server := transport.NewServer(svc)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down assistant backend...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Assistant backend stopped")
}
