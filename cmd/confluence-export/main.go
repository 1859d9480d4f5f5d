// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the confluence-export CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/confluence-export/internal/logger"
	"github.com/pdiddy/confluence-export/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when it is non-empty, or the secret value
// for key otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the confluence-export CLI.
var rootCmd = &cobra.Command{
	Use:   "confluence-export",
	Short: "Export Confluence spaces to a Markdown tree",
	Long: `confluence-export walks the page hierarchy of a Confluence instance and
writes one Markdown file per page, mirroring the hierarchy on disk. Pages
travel through the instance's legacy Word export and pandoc, or straight
from storage-format XHTML with the storage backend.

dump performs the migration; spaces lists what an instance offers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := viper.GetString("log_level")
		if level == "" {
			level = "info"
		}
		if err := logger.Init(level); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./confluence-export.yaml or ~/.config/confluence-export/config.yaml)")
}

func initConfig() {
	// A local .env feeds AutomaticEnv before viper reads anything.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("confluence-export")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "confluence-export"))
		}
	}

	viper.SetEnvPrefix("CONFLUENCE_EXPORT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
