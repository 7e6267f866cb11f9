/*
Copyright © 2025 Maarifa Authors
*/
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"maarifa/src/core/embedding"
	"maarifa/src/core/knowledge"
	"maarifa/src/infrastructure/integrations/ollama"
	"maarifa/src/log"
	"maarifa/src/storage/badgercache"
	"maarifa/src/storage/postgres/corpusctrl"
)

var rebuildForce bool

// rebuildCmd represents the rebuild command
var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the retrieval indexes from the corpus",
	Long: `The rebuild command loads every record from the database, rebuilds the
keyword and similarity indexes and persists the similarity index snapshot.
Use --force to re-embed every record instead of reusing the snapshot.`,
	Run: RunRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)

	rebuildCmd.Flags().BoolVar(&rebuildForce, "force", false, "re-embed all records, ignoring the persisted snapshot")
}

func RunRebuild(cmd *cobra.Command, args []string) {
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

	cacheTTL, err := time.ParseDuration(viper.GetString("cache.ttl"))
	if err != nil {
		cacheTTL = time.Hour
	}
	cache, err := badgercache.Open(viper.GetString("cache.path"), cacheTTL)
	if err != nil {
		log.Error(err, "Failed to open embedding cache")
		return
	}
	defer cache.Close()

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

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "embedding records")
		}
		bar.Set(done)
	}

	corpus := corpusctrl.NewCorpusService(db)
	svc, err := knowledge.NewService(corpus, provider, knowledge.Config{
		MinSimilarity:   viper.GetFloat64("search.min_similarity"),
		MaxResults:      viper.GetInt("search.max_results"),
		DegradedPenalty: viper.GetFloat64("search.degraded_penalty"),
		SuggestLimit:    viper.GetInt("search.suggest_limit"),
		SnapshotDir:     viper.GetString("index.snapshot_dir"),
	}, knowledge.WithRebuildProgress(progress))
	if err != nil {
		log.Error(err, "Failed to create retrieval service")
		return
	}

	if err := svc.Rebuild(context.Background(), rebuildForce); err != nil {
		log.Error(err, "Index rebuild failed")
		return
	}
	if bar != nil {
		bar.Finish()
	}

	log.Info("Index rebuild complete")
}
