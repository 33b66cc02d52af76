// @title Habit streaks API
// @description API for tracking daily habits and their streaks
// @BasePath /api/v1
// @schemes http
package main

import (
	"os"

	"github.com/limbo/streaks/internal/repository"
	"github.com/limbo/streaks/internal/service"
	"github.com/limbo/streaks/pkg/config"
	"github.com/limbo/streaks/pkg/logging"
	"github.com/spf13/cobra"
)

func init() {
	service.InitValidator()
}

var rootCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Habit tracking service with streak statistics",
	Long: `
	Streaks keeps per-user habits and their daily check-ins and derives the current and
	longest streaks and weekly completion from them on every read.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.New()
		logging.Init(cfg.GetStringOr("LOG_LEVEL", "info"), cfg.GetStringOr("LOG_FORMAT", "text"))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func dbConfig(cfg *config.Config) *repository.PGCfg {
	return &repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
		SSLMode:  cfg.GetString("POSTGRES_SSLMODE"),
	}
}
