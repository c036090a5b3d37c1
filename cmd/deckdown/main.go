// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deckdown CLI, which converts
// slide decks (PDF, PPTX) into single self-contained HTML or Markdown
// documents with embedded images.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the deckdown CLI.
var rootCmd = &cobra.Command{
	Use:   "deckdown",
	Short: "Convert slide decks to structured HTML or Markdown",
	Long: `deckdown converts PDF and PPTX slide decks into a single self-contained
document with embedded images. Font analysis recovers titles, bullets,
equations, and code blocks; pages with vector diagrams or dense math are
rendered as images so nothing is lost to garbled text extraction.

Multiple input files merge into one reference document in argument order.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deckdown.yaml or ~/.config/deckdown/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deckdown")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deckdown"))
		}
	}

	viper.SetEnvPrefix("DECKDOWN")
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
