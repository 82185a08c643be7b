package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wesm/github-org-mirror/config"
	"github.com/wesm/github-org-mirror/internal/api"
	"github.com/wesm/github-org-mirror/internal/db"
	"github.com/wesm/github-org-mirror/internal/hook"
	"github.com/wesm/github-org-mirror/internal/sync"
)

func main() {
	// Define command-line flags
	configPath := flag.String("config", "config.json", "Path to configuration file")
	createConfig := flag.Bool("init", false, "Create a default configuration file if it doesn't exist")
	once := flag.Bool("once", false, "Run a single full sync and exit instead of serving")
	flag.Parse()

	// Create default configuration if requested
	if *createConfig {
		if err := config.CreateDefaultConfig(*configPath); err != nil {
			log.Fatalf("Failed to create default configuration: %v", err)
		}
		log.Printf("Created default configuration at %s", *configPath)
		fmt.Println()
		fmt.Println("Edit the organization field, then start the mirror:")
		fmt.Printf("  github-org-mirror -config %s\n", *configPath)
		fmt.Println()
		fmt.Printf("GitHub token can be provided via the %s environment variable\n", config.EnvGithubToken)
		fmt.Printf("Webhook secret can be provided via the %s environment variable\n", config.EnvWebhookSecret)
		return
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Organization == "" {
		log.Fatalf("No organization configured in %s", *configPath)
	}
	if cfg.GitHubToken == "" {
		log.Printf("Warning: no GitHub token configured, API rate limits will be low")
	}

	// Route logs through a rotated file as well when configured
	logWriter := io.Writer(os.Stderr)
	if cfg.LogPath != "" {
		logWriter = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		})
		log.SetOutput(logWriter)
	}

	// Initialize database
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize GitHub client
	client := api.NewGraphQLClient(cfg.GitHubToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		orch, err := sync.New(client, database, sync.Options{
			Organization:     cfg.Organization,
			DisableTimelines: cfg.DisableTimelines,
			Logger:           log.New(logWriter, "[sync] ", log.LstdFlags),
		})
		if err != nil {
			log.Fatalf("Failed to create orchestrator: %v", err)
		}

		startTime := time.Now()
		if err := orch.RunOnce(ctx); err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		log.Printf("Sync completed in %v", time.Since(startTime))
		return
	}

	// Daemon mode: webhook receiver plus live feed in front of the sync loop
	feed := hook.NewFeed(log.New(logWriter, "[feed] ", log.LstdFlags))

	orch, err := sync.New(client, database, sync.Options{
		Organization:       cfg.Organization,
		DisableTimelines:   cfg.DisableTimelines,
		DisableFullRefresh: cfg.DisableFullRefresh,
		Notify:             feed.Publish,
		Logger:             log.New(logWriter, "[sync] ", log.LstdFlags),
	})
	if err != nil {
		log.Fatalf("Failed to create orchestrator: %v", err)
	}

	server := hook.NewServer(orch, feed, hook.Config{
		Addr:   cfg.ListenAddr,
		Secret: cfg.WebhookSecret,
		Logger: log.New(logWriter, "[hook] ", log.LstdFlags),
	})
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start webhook receiver: %v", err)
	}

	log.Printf("Mirroring %s, webhook receiver on %s", cfg.Organization, server.Addr())

	if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Sync loop error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Printf("Mirror stopped")
}
