package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/config"
	"github.com/editflowhq/editflow/internal/roster"
	"github.com/editflowhq/editflow/internal/store"
	"github.com/editflowhq/editflow/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state. The task store and roster blob
// are opened lazily so commands like version and config work without
// touching storage.
type App struct {
	config      *config.Config
	store       store.Store
	rosterStore *roster.Store
	local       *roster.Local
	root        *cobra.Command
	debug       bool // Enable debug logging
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "editflow",
		Short: "A scheduling calendar for a video-editing team",
		Long: `EditFlow tracks which editor cuts which episode on which days.

Running without a subcommand opens the interactive month calendar.
Subcommands cover scripted use: importing schedules, exporting to
iCalendar, managing the team roster, and printing stats.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if err := a.ensureLocal(); err != nil {
				return err
			}
			return tui.RunWithDebug(a.store, a.local, a.config, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to temp file)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.rmCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.syncCmd())
	a.root.AddCommand(a.editorsCmd())
	a.root.AddCommand(a.programsCmd())
	a.root.AddCommand(a.statsCmd())
	a.root.AddCommand(a.monthCmd())

	return a
}

// ensureStore opens the task store selected by the config.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}

	var err error
	switch a.config.Storage.Mode {
	case config.ModeCloud:
		a.store, err = store.NewFirestore(
			context.Background(),
			a.config.Storage.FirestoreProject,
			a.config.Storage.FirestoreCredentials,
			a.config.Storage.FirestoreCollection,
		)
	case config.ModeMemory:
		a.store = store.NewMemory()
	default:
		a.store, err = store.NewSQLite(a.config.Storage.DBPath)
	}
	if err != nil {
		return fmt.Errorf("opening task store: %w", err)
	}
	return nil
}

// ensureLocal loads the roster/program blob.
func (a *App) ensureLocal() error {
	if a.local != nil {
		return nil
	}
	a.rosterStore = roster.NewStore(a.config.Workspace.LocalConfigPath)
	local, err := a.rosterStore.Load()
	if err != nil {
		return fmt.Errorf("loading local config: %w", err)
	}
	a.local = local
	return nil
}

// saveLocal persists the roster blob after a mutation.
func (a *App) saveLocal() error {
	if err := a.rosterStore.Save(a.local); err != nil {
		return fmt.Errorf("saving local config: %w", err)
	}
	return nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("editflow %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the task store if a command opened it.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
