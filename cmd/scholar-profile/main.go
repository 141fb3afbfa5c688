// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-profile CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-profile/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the flag value when set, then the secret for
// key, then the empty string.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the scholar-profile CLI.
var rootCmd = &cobra.Command{
	Use:   "scholar-profile",
	Short: "Build research profiles from public scholarly records",
	Long: `scholar-profile assembles a researcher's profile from their public
identity record and the open literature: it resolves their declared works
to indexed publications, fetches abstracts and open-access methods
sections, and synthesizes a structured profile stored in a local SQLite
database.

Run "scholar-profile ingest <orcid-id>" to build or refresh a profile,
then "scholar-profile profile <user-id>" to read it back.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholar-profile.yaml or ~/.config/scholar-profile/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default: ./scholar-profile.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholar-profile")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholar-profile"))
		}
	}

	viper.SetEnvPrefix("SCHOLAR_PROFILE")
	viper.AutomaticEnv()

	viper.SetDefault("store.path", "scholar-profile.db")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dbPath resolves the database location: --db flag, then config.
func dbPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p
	}
	if p, _ := rootCmd.PersistentFlags().GetString("db"); p != "" {
		return p
	}
	return viper.GetString("store.path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
