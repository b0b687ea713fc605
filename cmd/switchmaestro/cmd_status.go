package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sguter90/switchmaestro/pkg/api"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a running server",
	Long:  `Query a running SwitchMaestro server for its health, controller state and diagnostics.`,
	RunE:  runStatus,
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Ask a running server to connect to the controller",
	RunE:  runConnect,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <switch-id>",
	Short: "Toggle a switch on a running server",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var activateCmd = &cobra.Command{
	Use:   "activate <pattern-id>",
	Short: "Activate a pattern bank on a running server",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivate,
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "address of a running server (default http://localhost:8059)")
	viper.BindPFlag("client.server", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(toggleCmd)
	patternCmd.AddCommand(activateCmd)
}

func newAPIClient() *api.Client {
	return api.NewClient(viper.GetString("client.server"), api.WithUserAgent("switchmaestro/"+version))
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := newAPIClient()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	status, err := client.SystemStatus(ctx)
	if err != nil {
		return err
	}
	switches, err := client.ListSwitches(ctx)
	if err != nil {
		return err
	}
	diag, err := client.Diagnostics(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintf(out, "SwitchMaestro %s (%s storage)\n", health.Version, health.Storage)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	if health.Status != "ok" {
		fmt.Fprintf(out, "❌ Storage %s: %s\n", health.Status, health.StorageError)
	}

	connected := "no"
	if status.Connected {
		connected = "yes"
	}
	fmt.Fprintf(out, "Connected: %s\n", connected)
	fmt.Fprintf(out, "Temperature: %.1f°C\n", diag.Summary.CurrentTemperature)
	fmt.Fprintf(out, "Power: %.2f A on %d channels\n", diag.Summary.CurrentPower, diag.Summary.ActiveChannels)

	open := 0
	for _, f := range status.Faults {
		if !f.Resolved {
			open++
		}
	}
	fmt.Fprintf(out, "Open faults: %d\n\n", open)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE\tCURRENT")
	for _, sw := range switches {
		state := "off"
		switch {
		case sw.Fault:
			state = "fault"
		case sw.Disabled:
			state = "disabled"
		case sw.Active:
			state = "on"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f A\n", sw.ID, sw.Name, state, sw.Current)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Repeat("=", 60)+"\n")
	return nil
}

func runConnect(cmd *cobra.Command, args []string) error {
	status, err := newAPIClient().Connect(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Connected to controller (%d modules)\n", len(status.Modules))
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	sw, err := newAPIClient().ToggleSwitch(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	state := "off"
	if sw.Active {
		state = fmt.Sprintf("on (%.1f A)", sw.Current)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is %s\n", sw.Name, state)
	return nil
}

func runActivate(cmd *cobra.Command, args []string) error {
	result, err := newAPIClient().ActivatePattern(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Requested %d switches, skipped %d\n", len(result.Requested), len(result.Skipped))
	for id, reason := range result.Failed {
		fmt.Fprintf(out, "❌ %s: %s\n", id, reason)
	}
	return nil
}
