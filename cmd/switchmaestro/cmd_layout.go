package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/sguter90/switchmaestro/pkg/models"
	"github.com/sguter90/switchmaestro/pkg/persistence"
	"github.com/sguter90/switchmaestro/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect and reset the saved layout",
	Long:  `Read or reset the layout stored in the configured storage backend.`,
}

var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved layout",
	Long:  `Print the saved layout. Output is JSON when stdout is not a terminal.`,
	RunE:  runLayoutShow,
}

var layoutResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the saved layout with the defaults",
	RunE:  runLayoutReset,
}

var layoutJSON bool

func init() {
	layoutShowCmd.Flags().BoolVar(&layoutJSON, "json", false, "always print JSON")

	rootCmd.AddCommand(layoutCmd)
	layoutCmd.AddCommand(layoutShowCmd)
	layoutCmd.AddCommand(layoutResetCmd)
}

// openCommandStorage opens the configured backend for one-shot commands
func openCommandStorage() (storage.KV, *zap.Logger, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	kv, err := storage.Open(cfg.Storage, logger.Named("storage"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return kv, logger, nil
}

func runLayoutShow(cmd *cobra.Command, args []string) error {
	kv, logger, err := openCommandStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	result := persistence.LoadLayout(cmd.Context(), kv)
	for key, perr := range result.Problems {
		logger.Warn("❌ falling back to default layout data", zap.String("key", key), zap.Error(perr))
	}

	if layoutJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result.Layout)
	}
	return printLayout(cmd.OutOrStdout(), result)
}

func printLayout(out io.Writer, result persistence.LoadResult) error {
	l := result.Layout

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(out, "Saved Layout")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	restored := append([]string(nil), result.Restored...)
	sort.Strings(restored)
	if len(restored) == 0 {
		fmt.Fprintln(out, "Nothing saved yet, showing defaults.")
	} else {
		fmt.Fprintf(out, "Restored: %s\n", strings.Join(restored, ", "))
	}

	fmt.Fprintf(out, "\nWidgets (%d)\n", len(l.Widgets))
	if len(l.Widgets) > 0 {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tCELL\tSPAN\tCONFIG")
		for _, w := range l.Widgets {
			fmt.Fprintf(tw, "%s\t%s\t%d,%d\t%dx%d\t%s\n", w.ID, w.Kind, w.X, w.Y, w.Width, w.Height, configSummary(w.Config))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "\nTheme")
	fmt.Fprintf(out, "    Switch style: %s\n", l.Theme.SwitchStyle)
	fmt.Fprintf(out, "    Color scheme: %s\n", l.Theme.ColorScheme)
	fmt.Fprintf(out, "    Background: %s\n", l.Theme.BackgroundColor)

	fmt.Fprintf(out, "\nPattern banks (%d)\n", len(l.Patterns))
	printPatterns(out, l.Patterns)

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60)+"\n")
	return nil
}

func printPatterns(out io.Writer, banks []models.PatternBank) {
	for i, bank := range banks {
		fmt.Fprintf(out, "[%d] %s\n", i+1, bank.Name)
		fmt.Fprintf(out, "    ID: %s\n", bank.ID)
		fmt.Fprintf(out, "    Switches: %s\n", strings.Join(bank.Switches, ", "))
		fmt.Fprintf(out, "    Color: %s\n", bank.DisplayColor())
	}
}

func configSummary(c models.WidgetConfig) string {
	if len(c) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, c[k]))
	}
	return strings.Join(parts, " ")
}

func runLayoutReset(cmd *cobra.Command, args []string) error {
	kv, _, err := openCommandStorage()
	if err != nil {
		return err
	}
	defer kv.Close()

	if err := persistence.SaveLayout(cmd.Context(), kv, models.EmptyLayout()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Layout reset to defaults")
	return nil
}
