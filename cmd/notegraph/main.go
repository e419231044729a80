// Command notegraph views and edits a graph of linked notes
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notegraph/notegraph/pkg/config"
	"github.com/notegraph/notegraph/pkg/store"
)

// Version is the current version of notegraph
var Version = "0.1.0"

// app carries global flags and what PersistentPreRunE builds from them
type app struct {
	configPath string
	dbPath     string
	logFile    string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "notegraph",
		Short: "Graph view for linked notes",
		Long: `notegraph lays out notes as a graph of explicit links and shared tags.

Examples:
  notegraph view                       # Interactive graph in the terminal
  notegraph render --png graph.png     # Static snapshot
  notegraph add "Trip plan" --category projets --tags travel,2024
  notegraph link <from-id> <to-id>     # Connect two notes`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (default from config)")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(viewCmd(a))
	rootCmd.AddCommand(renderCmd(a))
	rootCmd.AddCommand(exportCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(importCmd(a))
	rootCmd.AddCommand(linkCmd(a))
	rootCmd.AddCommand(unlinkCmd(a))
	rootCmd.AddCommand(deleteCmd(a))
	rootCmd.AddCommand(initCmd(a))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config, applies flag overrides and builds the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromPath(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Store.Path = a.dbPath
	}
	if a.logFile != "" {
		cfg.Log.File = a.logFile
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	// The interactive view owns the terminal; it only logs to a file
	quiet := cmd.Name() == "view"
	log, err := newLogger(cfg.Log, quiet)
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) openStore() (*store.Store, error) {
	s, err := store.Open(a.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	a.log.Debug("store opened", zap.String("path", s.Path()))
	return s, nil
}
