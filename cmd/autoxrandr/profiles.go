package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sigreer/autoxrandr/internal/profile"
	"github.com/sigreer/autoxrandr/internal/report"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current layout",
	Long: `Save the current layout under a name.

Connectors listed by xrandr --listactivemonitors are saved with their mode,
position, refresh rate and primary flag; every other connector is saved as
off. An existing profile with the same name is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runSave),
}

var applyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Apply a saved layout",
	Long: `Apply a saved layout with a single xrandr call.

Examples:
  autoxrandr apply docked
  autoxrandr apply docked --dry-run    # print the xrandr arguments only`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runApply),
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved layout",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runRemove),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved layouts",
	Args:  cobra.NoArgs,
	RunE:  withApp(runList),
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved layout and the xrandr command it runs",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runShow),
}

func init() {
	applyCmd.Flags().BoolP("dry-run", "n", false, "print the xrandr arguments without running xrandr")
	listCmd.Flags().Bool("json", false, "Output as JSON")
	showCmd.Flags().Bool("json", false, "Output as JSON")
}

func runSave(cmd *cobra.Command, a *app, args []string) error {
	name := args[0]
	if _, err := a.manager.Save(cmd.Context(), name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved layout %s\n", report.Good(name))
	return nil
}

func runApply(cmd *cobra.Command, a *app, args []string) error {
	name := args[0]
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	p, err := a.manager.Get(name)
	if err != nil {
		return notFound(err, name)
	}

	// Dry runs never reach xrandr
	apply, disable := "Applying", "Disabling"
	if dryRun {
		apply, disable = "Would apply", "Would disable"
	}

	fmt.Fprintf(out, "%s layout %s\n", apply, report.Good(name))
	for _, connector := range p.Connectors() {
		if dev, ok := p.Connected[connector]; ok {
			fmt.Fprintf(out, "%s device %s with %s\n", apply, report.Good(connector), report.DescribeDevice(dev))
		} else {
			fmt.Fprintf(out, "%s device %s\n", disable, connector)
		}
	}

	xargs, err := a.manager.Apply(cmd.Context(), name, dryRun)
	if err != nil {
		return notFound(err, name)
	}
	if dryRun {
		fmt.Fprintf(out, "%s %s\n", a.cfg.Xrandr.Binary, strings.Join(xargs, " "))
	}
	return nil
}

func runRemove(cmd *cobra.Command, a *app, args []string) error {
	name := args[0]
	if err := a.manager.Remove(name); err != nil {
		return notFound(err, name)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed layout %s\n", report.Warn(name))
	return nil
}

func runList(cmd *cobra.Command, a *app, args []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	set, err := a.manager.List()
	if err != nil {
		return err
	}
	if jsonOut {
		return report.PrintJSON(cmd.OutOrStdout(), report.Summaries(set))
	}

	report.PrintList(cmd.OutOrStdout(), set, lastApplied(a))
	return nil
}

func runShow(cmd *cobra.Command, a *app, args []string) error {
	name := args[0]
	jsonOut, _ := cmd.Flags().GetBool("json")

	p, err := a.manager.Get(name)
	if err != nil {
		return notFound(err, name)
	}
	if jsonOut {
		return report.PrintJSON(cmd.OutOrStdout(), p)
	}
	report.PrintProfile(cmd.OutOrStdout(), name, p)
	return nil
}

// notFound replaces a profile lookup failure with a message naming the profile
func notFound(err error, name string) error {
	if errors.Is(err, profile.ErrProfileNotFound) {
		return fmt.Errorf("no profile with name %s", report.Bad(name))
	}
	return err
}
