/*
Copyright © 2025 Maarifa Authors
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"maarifa/src/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "maarifa",
	Short: "Multilingual knowledge retrieval service",
	Long: `Maarifa answers English and Arabic questions against a curated
question/answer corpus, combining keyword, embedding and fulltext
retrieval with score fusion.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := log.Setup(os.Getenv("APP_ENV") == "production"); err != nil {
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
