package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/persistence"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Manage pattern banks",
	Long:  `List, add and remove the pattern banks of the saved layout.`,
}

var patternListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved pattern banks",
	RunE:  runPatternList,
}

var patternAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a pattern bank to the saved layout",
	RunE:  runPatternAdd,
}

var patternRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a pattern bank from the saved layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatternRemove,
}

var (
	patternName     string
	patternSwitches string
	patternColor    string
)

func init() {
	patternAddCmd.Flags().StringVar(&patternName, "name", "", "name of the bank")
	patternAddCmd.Flags().StringVar(&patternSwitches, "switches", "", "comma separated switch ids")
	patternAddCmd.Flags().StringVar(&patternColor, "color", "", "display color, e.g. #3b82f6")

	rootCmd.AddCommand(patternCmd)
	patternCmd.AddCommand(patternListCmd)
	patternCmd.AddCommand(patternAddCmd)
	patternCmd.AddCommand(patternRemoveCmd)
}

// withSavedLayout opens the configured storage and edits the saved layout
// through editSavedLayout
func withSavedLayout(cmd *cobra.Command, fn func(d *layout.Dashboard) (bool, error)) error {
	kv, logger, err := openCommandStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	return editSavedLayout(cmd.Context(), kv, logger, fn)
}

// editSavedLayout loads the saved layout into a detached dashboard, runs fn
// and saves the result when fn reports a change. Nothing runs when a key
// could not be read, since saving would replace it with defaults.
func editSavedLayout(ctx context.Context, kv storage.KV, logger *zap.Logger, fn func(d *layout.Dashboard) (bool, error)) error {
	dashboard := layout.NewDashboard(nil)
	adapter := persistence.NewAdapter(kv, dashboard, persistence.WithLogger(logger.Named("persistence")))

	if err := unreadableKeys(adapter.Load(ctx)); err != nil {
		return fmt.Errorf("failed to read saved layout, nothing was changed: %w", err)
	}

	changed, err := fn(dashboard)
	if err != nil || !changed {
		return err
	}
	return adapter.Save(ctx)
}

func unreadableKeys(result persistence.LoadResult) error {
	var errs []error
	for _, key := range persistence.Keys {
		if err, ok := result.Problems[key]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func runPatternList(cmd *cobra.Command, args []string) error {
	kv, _, err := openCommandStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	result := persistence.LoadLayout(cmd.Context(), kv)
	if err, ok := result.Problems[persistence.KeyPatterns]; ok {
		return fmt.Errorf("failed to read pattern banks: %w", err)
	}

	banks := result.Layout.Patterns
	out := cmd.OutOrStdout()
	if len(banks) == 0 {
		fmt.Fprintln(out, "No pattern banks saved yet.")
		return nil
	}

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(out, "Pattern Banks")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	printPatterns(out, banks)
	fmt.Fprintln(out, strings.Repeat("=", 60)+"\n")
	return nil
}

func runPatternAdd(cmd *cobra.Command, args []string) error {
	return withSavedLayout(cmd, func(d *layout.Dashboard) (bool, error) {
		bank, err := d.Customize.AddPatternBank(patternName, splitList([]string{patternSwitches}), patternColor)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Pattern bank created with ID: %s\n", bank.ID)
		return true, nil
	})
}

func runPatternRemove(cmd *cobra.Command, args []string) error {
	return withSavedLayout(cmd, func(d *layout.Dashboard) (bool, error) {
		if !d.Customize.RemovePatternBank(args[0]) {
			return false, fmt.Errorf("pattern bank %q not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Pattern bank '%s' removed\n", args[0])
		return true, nil
	})
}
