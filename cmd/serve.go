/*
Copyright © 2025 Maarifa Authors
*/
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	v1 "maarifa/handler/http/v1"
	"maarifa/src/core/embedding"
	"maarifa/src/core/knowledge"
	"maarifa/src/infrastructure/integrations/ollama"
	"maarifa/src/log"
	"maarifa/src/storage/badgercache"
	"maarifa/src/storage/postgres/corpusctrl"
	"maarifa/src/storage/postgres/interactionctrl"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the knowledge retrieval server",
	Long:  `The serve command starts an HTTP server that answers search, suggest and index requests.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	settingDefaultConfig()
}

func RunServer(cmd *cobra.Command, args []string) {
	// Initialize PostgreSQL connection
	host := viper.GetString("postgres.host")
	user := viper.GetString("postgres.user")
	password := viper.GetString("postgres.password")
	dbname := viper.GetString("postgres.db")
	port := viper.GetString("postgres.port")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Error(err, "Failed to connect to database")
		return
	}

	// Initialize embedding cache
	cacheTTL, err := time.ParseDuration(viper.GetString("cache.ttl"))
	if err != nil {
		log.Error(err, "Invalid cache TTL, using default 1h")
		cacheTTL = time.Hour
	}
	cache, err := badgercache.Open(viper.GetString("cache.path"), cacheTTL)
	if err != nil {
		log.Error(err, "Failed to open embedding cache")
		return
	}
	defer cache.Close()

	// Initialize Ollama embedder
	oc := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: 30 * time.Second,
	})
	dimension := viper.GetInt("embedding.dimension")
	embedder := ollama.NewEmbedder(oc, viper.GetString("ollama.embedding_model"), dimension)

	provider, err := embedding.NewProvider(embedder, cache, dimension)
	if err != nil {
		log.Error(err, "Failed to create embedding provider")
		return
	}

	// Initialize retrieval service
	corpus := corpusctrl.NewCorpusService(db)
	svc, err := knowledge.NewService(corpus, provider, knowledge.Config{
		MinSimilarity:   viper.GetFloat64("search.min_similarity"),
		MaxResults:      viper.GetInt("search.max_results"),
		DegradedPenalty: viper.GetFloat64("search.degraded_penalty"),
		SuggestLimit:    viper.GetInt("search.suggest_limit"),
		SnapshotDir:     viper.GetString("index.snapshot_dir"),
	})
	if err != nil {
		log.Error(err, "Failed to create retrieval service")
		return
	}

	interactions, err := interactionctrl.NewInteractionService(db)
	if err != nil {
		log.Error(err, "Failed to create interaction service")
		return
	}

	// Build indexes in the background so the server starts serving health
	// checks immediately. Searches arriving before the first build finishes
	// trigger a synchronous rebuild instead.
	go func() {
		if err := svc.Rebuild(context.Background(), false); err != nil {
			log.Error(err, "Initial index build failed")
		}
	}()

	// Initialize HTTP handler with individual services
	handler := v1.NewHandler(svc, svc, svc, interactions)

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Get underlying *sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		log.Error(err, "Failed to get underlying *sql.DB")
	} else {
		// Close database connection
		if err := sqlDB.Close(); err != nil {
			log.Error(err, "Error closing database connection")
		}
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
