package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/config"
	"github.com/editflowhq/editflow/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  editflow config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Storage.Mode = promptMode(reader, cfg.Storage.Mode)
	switch cfg.Storage.Mode {
	case config.ModeLocal:
		cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	case config.ModeCloud:
		cfg.Storage.FirestoreProject = promptValue(reader, "Firestore project", cfg.Storage.FirestoreProject)
		cfg.Storage.FirestoreCredentials = promptValue(reader, "Service account key file", cfg.Storage.FirestoreCredentials)
		cfg.Storage.FirestoreCollection = promptValue(reader, "Firestore collection", cfg.Storage.FirestoreCollection)
	}
	cfg.Workspace.LocalConfigPath = promptValue(reader, "Roster file path", cfg.Workspace.LocalConfigPath)
	cfg.UI.DefaultView = promptChoice(reader, "Default lane grouping", cfg.UI.DefaultView, []string{"editor", "show"})
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[storage]")
	fmt.Printf("  mode                  = %s\n", cfg.Storage.Mode)
	if cfg.Storage.Mode == config.ModeCloud {
		fmt.Printf("  firestore_project     = %s\n", cfg.Storage.FirestoreProject)
		fmt.Printf("  firestore_credentials = %s\n", cfg.Storage.FirestoreCredentials)
		fmt.Printf("  firestore_collection  = %s\n", cfg.Storage.FirestoreCollection)
	} else {
		fmt.Printf("  db_path               = %s\n", cfg.Storage.DBPath)
	}
	fmt.Println("\n[workspace]")
	fmt.Printf("  local_config_path     = %s\n", cfg.Workspace.LocalConfigPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme                 = %s\n", cfg.UI.Theme)
	fmt.Printf("  default_view          = %s\n", cfg.UI.DefaultView)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptChoice(reader *bufio.Reader, label, current string, options []string) string {
	full := fmt.Sprintf("%s (%s)", label, strings.Join(options, ", "))
	for {
		value := strings.ToLower(promptValue(reader, full, current))
		for _, o := range options {
			if value == o {
				return value
			}
		}
		fmt.Printf("  Invalid value %q. Options: %s\n", value, strings.Join(options, ", "))
	}
}

func promptMode(reader *bufio.Reader, current string) string {
	return promptChoice(reader, "Storage mode", current,
		[]string{config.ModeLocal, config.ModeCloud, config.ModeMemory})
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
