package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/editflowhq/editflow/internal/store"
	"github.com/editflowhq/editflow/internal/synctoken"
)

func (a *App) syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Move the whole workspace between machines via a sync token",
		Long: `Manual cross-device sync for machines that cannot share a store.

"sync copy" packs every task plus the roster into a portable token and
places it on the clipboard. "sync paste" reads a token from the
clipboard and overwrites local state with it.`,
	}

	cmd.AddCommand(a.syncCopyCmd())
	cmd.AddCommand(a.syncPasteCmd())
	return cmd
}

func (a *App) syncCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy",
		Short: "Copy a sync token to the clipboard",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if err := a.ensureLocal(); err != nil {
				return err
			}

			tasks, err := a.store.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			token, err := synctoken.Encode(&synctoken.Snapshot{
				Tasks:      tasks,
				Programs:   a.local.Programs,
				Editors:    a.local.Editors,
				ExportedAt: time.Now(),
			})
			if err != nil {
				return err
			}

			if err := clipboard.WriteAll(token); err != nil {
				return fmt.Errorf("writing clipboard: %w", err)
			}

			fmt.Printf("Copied sync token: %d tasks, %d programs, %d editors\n",
				len(tasks), len(a.local.Programs), len(a.local.Editors))
			return nil
		},
	}
}

func (a *App) syncPasteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paste",
		Short: "Overwrite local state from a clipboard sync token",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			if err := a.ensureLocal(); err != nil {
				return err
			}

			token, err := clipboard.ReadAll()
			if err != nil {
				return fmt.Errorf("reading clipboard: %w", err)
			}

			snap, err := synctoken.Decode(token)
			if err != nil {
				return err
			}

			ctx := context.Background()

			// Overwrite wholesale: drop everything the store holds that the
			// token does not, then upsert the token's tasks.
			existing, err := a.store.ListTasks(ctx)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			incoming := make(map[string]bool, len(snap.Tasks))
			for _, t := range snap.Tasks {
				incoming[t.ID] = true
			}

			var writes []store.Write
			for _, t := range existing {
				if !incoming[t.ID] {
					writes = append(writes, store.Delete(t.ID))
				}
			}
			for _, t := range snap.Tasks {
				writes = append(writes, store.Upsert(t))
			}
			if err := a.store.BatchWrite(ctx, writes); err != nil {
				return fmt.Errorf("applying sync token: %w", err)
			}

			if snap.Programs != nil {
				a.local.Programs = snap.Programs
			}
			if snap.Editors != nil {
				a.local.Editors = snap.Editors
			}
			a.local.Settings.LastSyncedAt = time.Now()
			if err := a.saveLocal(); err != nil {
				return err
			}

			fmt.Printf("Applied sync token: %d tasks, %d programs, %d editors\n",
				len(snap.Tasks), len(snap.Programs), len(snap.Editors))
			return nil
		},
	}
}
