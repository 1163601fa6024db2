package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/caarlos0/env/v11"
	"github.com/lifemarket/lifemarket/internal/store"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// appConfig is the environment-driven runtime configuration.
type appConfig struct {
	DataDir string `env:"LIFEMARKET_DATA_DIR" envDefault:"data"`
	Backend string `env:"LIFEMARKET_STORE" envDefault:"json"`
}

func loadAppConfig() (appConfig, error) {
	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// openStore picks the profile storage backend from the environment. Commands
// only see the ProfileStore interface, so any conforming backend works.
func openStore(cfg appConfig) (store.ProfileStore, error) {
	switch cfg.Backend {
	case "json":
		return store.NewJSONStore(cfg.DataDir)
	case "sqlite":
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		return store.NewSQLiteStore(filepath.Join(cfg.DataDir, "profiles.db"))
	default:
		return nil, fmt.Errorf("unknown store backend %q (want json or sqlite)", cfg.Backend)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "lifemarket %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

var rootCmd = &cobra.Command{
	Use:   "lifemarket",
	Short: "LifeMarket planning data CLI",
	Long:  "Validates scenario configurations and manages stored user profiles for the LifeMarket simulation engine",
}

func main() {
	log.SetFlags(0)

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newProfileCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
