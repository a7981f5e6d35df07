package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/sigreer/autoxrandr/internal/config"
	"github.com/sigreer/autoxrandr/internal/db"
	"github.com/sigreer/autoxrandr/internal/layout"
	"github.com/sigreer/autoxrandr/internal/logger"
	"github.com/sigreer/autoxrandr/internal/profile"
	"github.com/sigreer/autoxrandr/internal/version"
	"github.com/sigreer/autoxrandr/internal/xrandr"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "autoxrandr",
	Short: "Save and restore xrandr display layouts",
	Long: `autoxrandr saves the current xrandr layout under a name and restores it later.

A profile records, for every connector xrandr knows about, whether it is
enabled and, if so, its mode, position, refresh rate and primary flag.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "autoxrandr v%s\n", version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/autoxrandr/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log diagnostics to stderr")

	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// app holds everything a command needs, built from the config file
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	manager *layout.Manager
	history *db.DB
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	if debug {
		logger.SetDebug(true)
	}
	log := logger.WithComponent("cli")

	a := &app{cfg: cfg, log: log}

	var hist layout.History
	if cfg.HistoryEnabled() {
		database, err := db.New(cfg.HistoryPath)
		if err != nil {
			// History is optional; layouts still work without it
			log.Warn().Err(err).Str("path", cfg.HistoryPath).Msg("history disabled")
		} else {
			a.history = database
			hist = database
		}
	}

	invoker := xrandr.NewCommand(cfg.Xrandr.Binary, cfg.Xrandr.Display, logger.WithComponent("xrandr"))
	store := profile.NewStore(cfg.ProfilesPath, logger.WithComponent("store"))
	a.manager = layout.NewManager(invoker, store, hist, logger.WithComponent("layout"))

	return a, nil
}

func (a *app) Close() {
	if a.history != nil {
		a.history.Close()
	}
}

// withApp adapts a command body that needs an app into a cobra RunE
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
