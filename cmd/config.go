/*
Copyright © 2025 Maarifa Authors
*/
package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for PostgreSQL
	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.db", "POSTGRES_DB")

	// Map environment variables to Viper keys for the server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Map environment variables to Viper keys for Ollama
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.embedding_model", "OLLAMA_EMBEDDING_MODEL")

	// Map environment variables to Viper keys for embeddings and search
	viper.BindEnv("embedding.dimension", "EMBEDDING_DIMENSION")
	viper.BindEnv("cache.path", "CACHE_PATH")
	viper.BindEnv("cache.ttl", "CACHE_TTL")
	viper.BindEnv("search.min_similarity", "SEARCH_MIN_SIMILARITY")
	viper.BindEnv("search.max_results", "SEARCH_MAX_RESULTS")
	viper.BindEnv("search.degraded_penalty", "SEARCH_DEGRADED_PENALTY")
	viper.BindEnv("search.suggest_limit", "SEARCH_SUGGEST_LIMIT")
	viper.BindEnv("index.snapshot_dir", "INDEX_SNAPSHOT_DIR")

	// Set default values for PostgreSQL
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", "5432")
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.db", "maarifa")

	// Set default values for the server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")

	// Set default values for Ollama
	viper.SetDefault("ollama.url", "http://ollama:11434/api")
	viper.SetDefault("ollama.embedding_model", "nomic-embed-text")

	// Set default values for embeddings and search
	viper.SetDefault("embedding.dimension", 384)
	viper.SetDefault("cache.path", "./data/cache")
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("search.min_similarity", 0.7)
	viper.SetDefault("search.max_results", 10)
	viper.SetDefault("search.degraded_penalty", 0.5)
	viper.SetDefault("search.suggest_limit", 10)
	viper.SetDefault("index.snapshot_dir", "./data/index")
}
