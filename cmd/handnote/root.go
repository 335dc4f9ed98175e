package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/handnote/handnote"
	"github.com/handnote/handnote/internal/app"
	"github.com/handnote/handnote/internal/config"
	"github.com/handnote/handnote/internal/note"
)

var (
	verbose    bool
	configPath string
	notesDir   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "handnote",
	Short: "A semi-transparent always-on-top sticky note you draw on",
	Long: `HandNote opens a small frameless window for freehand mouse drawing.
Strokes are rendered supersampled, persisted to timestamped PNG notes on
every completed gesture, and the last 50 notes stay browsable in-app.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		handnote.SetLogger(logger)
	},
	RunE: runApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Settings file (default: <user config dir>/handnote/handnote.yaml)")
	rootCmd.Flags().StringVar(&notesDir, "notes-dir", "", "Note directory (default: <user config dir>/handnote)")
}

func runApp(cmd *cobra.Command, args []string) error {
	if configPath == "" || notesDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("locate user config dir: %w", err)
		}
		if configPath == "" {
			configPath = filepath.Join(base, "handnote", "handnote.yaml")
		}
		if notesDir == "" {
			notesDir = filepath.Join(base, "handnote")
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := note.New(notesDir, handnote.MaxNotes)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	external, err := store.Watch(ctx)
	if err != nil {
		// The app works without the watcher; history just won't refresh on
		// external changes.
		handnote.Logger().Warn("note directory watch unavailable", "error", err)
	}

	return app.New(cfg, store, external).Run()
}
