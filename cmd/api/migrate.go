package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/limbo/streaks/pkg/config"
	"github.com/pressly/goose"
	"github.com/spf13/cobra"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return migrate(config.New(), migrateDown)
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back the latest migration instead")
	rootCmd.AddCommand(migrateCmd)
}

func migrate(cfg *config.Config, down bool) error {
	dir := cfg.GetStringOr("MIGRATIONS_DIR", "./migrations")
	conn, err := sql.Open("postgres", dbConfig(cfg).ConnString())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()
	if err = goose.SetDialect("postgres"); err != nil {
		return err
	}
	if down {
		err = goose.Down(conn, dir)
	} else {
		err = goose.Up(conn, dir)
	}
	if err != nil {
		return fmt.Errorf("running migrations from %s: %w", dir, err)
	}
	slog.Info("migrations applied", slog.String("dir", dir), slog.Bool("down", down))
	return nil
}
