package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcollins/contacts/internal/config"
	"github.com/rcollins/contacts/internal/dedup"
	"github.com/rcollins/contacts/internal/merge"
	"github.com/rcollins/contacts/internal/organizer"
	"github.com/rcollins/contacts/internal/refresh"
	"github.com/rcollins/contacts/internal/storage"
	"github.com/rcollins/contacts/internal/undo"
)

// Shared command state, wired once in setup()
var (
	configPath string
	dbPath     string

	appCfg  *config.Config
	store   storage.Storage
	history *undo.Manager
	service *organizer.Service
)

var rootCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Contact directory organizer",
	Long: `contacts finds duplicate records in a contact directory, walks you
through merging them, and keeps every mutation reversible with undo/redo.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	appCfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		appCfg.DBPath = dbPath
	}

	store, err = storage.NewStorage(context.Background(), &storage.Config{Path: appCfg.DBPath})
	if err != nil {
		return fmt.Errorf("failed to open contact store: %w", err)
	}

	detector, err := dedup.New(appCfg.DetectorConfig())
	if err != nil {
		return err
	}

	var opts []refresh.Option
	if appCfg.RefreshMinInterval > 0 {
		opts = append(opts, refresh.WithMinInterval(appCfg.RefreshMinInterval))
	}
	coordinator := refresh.NewCoordinator(opts...)
	coordinator.SetAutoRefresh(appCfg.AutoRefresh)

	history = undo.NewManager()
	service = organizer.New(store, detector, merge.NewEngine(), history, coordinator)
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if history != nil {
		history.Close()
	}
	if store != nil {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close store: %v\n", err)
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".contacts/config.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
