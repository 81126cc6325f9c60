package main

import (
	"fmt"
	"os"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stepwise",
	Short: "Stepwise plays data-structure algorithms one step at a time",
	Long: `Stepwise runs operations on BSTs, AVL trees, heaps, graphs, arrays, stacks and queues,
records every step, and lets you play the trace forwards and backwards before committing it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to stepwise.yaml (default: ./stepwise.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringP("session", "s", "", "Session ID")
	rootCmd.PersistentFlags().String("store", "", "Store backend: memory, file, sqlite or redis")
	rootCmd.PersistentFlags().String("store-path", "", "Directory (file) or database file (sqlite) of the store")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the redis store")
}

// loadConfig reads the configuration file and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path, flags.Changed("config"))
	if err != nil {
		return cfg, err
	}

	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("session") {
		cfg.Session, _ = flags.GetString("session")
	}
	if flags.Changed("store") {
		cfg.Store.Backend, _ = flags.GetString("store")
	}
	if flags.Changed("store-path") {
		cfg.Store.Path, _ = flags.GetString("store-path")
	}
	if flags.Changed("redis-addr") {
		cfg.Store.RedisAddr, _ = flags.GetString("redis-addr")
	}
	return cfg, cfg.Validate()
}
