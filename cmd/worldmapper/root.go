package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/grimechristopher/llm-adventure/internal/config"
	"github.com/grimechristopher/llm-adventure/internal/store"
)

var (
	cfgPath string
	verbose bool

	cfg *config.Config
	db  *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "worldmapper",
	Short: "Coordinate assignment for LLM-built fantasy worlds",
	Long: `worldmapper places every named location of a world onto a bounded
quarter-Earth sphere: anchors spread evenly, relative positions resolved
from natural-language constraints, conflicts repaired.

Examples:
  worldmapper seed --name Aldenmere --locations 12
  worldmapper assign Aldenmere
  worldmapper status Aldenmere`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		// .env is optional; real environments set variables directly.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		db, err = store.Open(cfg.Data.Dir)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "worldmapper.toml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
