package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/schedule"
	"github.com/editflowhq/editflow/internal/store"
)

func (a *App) editorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editors",
		Short: "Manage the editor roster",
	}

	cmd.AddCommand(a.editorsListCmd())
	cmd.AddCommand(a.editorsAddCmd())
	cmd.AddCommand(a.editorsRenameCmd())
	cmd.AddCommand(a.editorsRmCmd())
	return cmd
}

func (a *App) editorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List editors",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureLocal(); err != nil {
				return err
			}
			if len(a.local.Editors) == 0 {
				fmt.Println("No editors in the roster.")
				return nil
			}
			for _, e := range a.local.Editors {
				fmt.Printf("  %s  %s %s\n", e.Color, formatHeader(e.Name), formatMuted(e.Role))
			}
			return nil
		},
	}
}

func (a *App) editorsAddCmd() *cobra.Command {
	var (
		role  string
		hex   string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureLocal(); err != nil {
				return err
			}

			e, err := schedule.NewEditor(args[0], role, hex)
			if err != nil {
				return err
			}
			e.Notes = notes
			if err := a.local.AddEditor(e); err != nil {
				return err
			}
			if err := a.saveLocal(); err != nil {
				return err
			}

			fmt.Printf("Added editor %s (%s)\n", e.Name, e.Color)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "Editor", "Role label")
	cmd.Flags().StringVar(&hex, "color", "", "Hex color for calendar bars")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

func (a *App) editorsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [name-or-id] [new-name]",
		Short: "Rename an editor and rewrite their tasks",
		Long: `Rename an editor. Tasks reference editors by name, so every task
assigned to the old name is rewritten to the new one in a single batch.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureLocal(); err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			id, err := a.local.FindEditorID(args[0])
			if err != nil {
				return err
			}
			oldName, err := a.local.RenameEditor(id, args[1])
			if err != nil {
				return err
			}

			n, err := a.cascadeRename(oldName, args[1], false)
			if err != nil {
				return err
			}
			if err := a.saveLocal(); err != nil {
				return err
			}

			fmt.Printf("Renamed %s to %s (%d tasks rewritten)\n", oldName, args[1], n)
			return nil
		},
	}
}

func (a *App) editorsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [name-or-id]",
		Short: "Remove an editor from the roster",
		Long: `Remove an editor. Their tasks are kept and render with a fallback
color until reassigned.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureLocal(); err != nil {
				return err
			}

			id, err := a.local.FindEditorID(args[0])
			if err != nil {
				return err
			}
			if err := a.local.RemoveEditor(id); err != nil {
				return err
			}
			if err := a.saveLocal(); err != nil {
				return err
			}

			fmt.Printf("Removed editor %s\n", args[0])
			return nil
		},
	}
}

func (a *App) programsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programs",
		Short: "Manage the program catalog",
	}

	cmd.AddCommand(a.programsListCmd())
	cmd.AddCommand(a.programsAddCmd())
	cmd.AddCommand(a.programsRenameCmd())
	cmd.AddCommand(a.programsRmCmd())
	return cmd
}

func (a *App) programsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List programs",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureLocal(); err != nil {
				return err
			}
			if len(a.local.Programs) == 0 {
				fmt.Println("No programs in the catalog.")
				return nil
			}
			for _, p := range a.local.Programs {
				fmt.Printf("  %s %s\n", formatHeader(p.Name), formatMuted(string(p.Priority)))
			}
			return nil
		},
	}
}

func (a *App) programsAddCmd() *cobra.Command {
	var (
		priority    string
		duration    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureLocal(); err != nil {
				return err
			}

			p, err := schedule.NewProgram(args[0])
			if err != nil {
				return err
			}
			if priority != "" {
				pr := schedule.Priority(priority)
				if !pr.Valid() {
					return fmt.Errorf("priority must be High, Medium or Low, got %q", priority)
				}
				p.Priority = pr
			}
			if duration != "" {
				p.Duration = duration
			}
			p.Description = description

			if err := a.local.AddProgram(p); err != nil {
				return err
			}
			if err := a.saveLocal(); err != nil {
				return err
			}

			fmt.Printf("Added program %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "", "High, Medium or Low")
	cmd.Flags().StringVar(&duration, "duration", "", `Program duration, e.g. "24:00"`)
	cmd.Flags().StringVar(&description, "description", "", "Short description")

	return cmd
}

func (a *App) programsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [name-or-id] [new-name]",
		Short: "Rename a program and rewrite its tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureLocal(); err != nil {
				return err
			}
			if err := a.ensureStore(); err != nil {
				return err
			}

			id, err := a.local.FindProgramID(args[0])
			if err != nil {
				return err
			}
			oldName, err := a.local.RenameProgram(id, args[1])
			if err != nil {
				return err
			}

			n, err := a.cascadeRename(oldName, args[1], true)
			if err != nil {
				return err
			}
			if err := a.saveLocal(); err != nil {
				return err
			}

			fmt.Printf("Renamed %s to %s (%d tasks rewritten)\n", oldName, args[1], n)
			return nil
		},
	}
}

func (a *App) programsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [name-or-id]",
		Short: "Remove a program from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureLocal(); err != nil {
				return err
			}

			id, err := a.local.FindProgramID(args[0])
			if err != nil {
				return err
			}
			if err := a.local.RemoveProgram(id); err != nil {
				return err
			}
			if err := a.saveLocal(); err != nil {
				return err
			}

			fmt.Printf("Removed program %s\n", args[0])
			return nil
		},
	}
}

// cascadeRename rewrites every task referencing oldName through one
// atomic batch and returns how many were touched.
func (a *App) cascadeRename(oldName, newName string, byShow bool) (int, error) {
	ctx := context.Background()
	tasks, err := a.store.ListTasks(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing tasks: %w", err)
	}

	changed := schedule.RenameCascade(tasks, oldName, newName, byShow, time.Now())
	if len(changed) == 0 {
		return 0, nil
	}

	writes := make([]store.Write, 0, len(changed))
	for _, t := range changed {
		writes = append(writes, store.Upsert(t))
	}
	if err := a.store.BatchWrite(ctx, writes); err != nil {
		return 0, fmt.Errorf("rewriting tasks: %w", err)
	}
	return len(changed), nil
}
