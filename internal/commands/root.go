//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package commands defines the contratos-kb CLI.
package commands

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opencontratos/contratos-kb/contracts"
	"github.com/opencontratos/contratos-kb/log"
)

var rootCmd = &cobra.Command{
	Use:   "contratos-kb",
	Short: "Knowledge base pipeline for Spanish public contracting documents",
	Long: "contratos-kb scrapes pliego PDFs from a public contracting portal, " +
		"extracts and chunks their text clause by clause, and vectorizes the " +
		"chunks into a Qdrant collection.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; environment variables win over it.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Debugf("no .env loaded: %v", err)
		}
		log.SetLevel(viper.GetString("log-level"))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", log.LevelInfo,
		"log level: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("data-root", contracts.DefaultDataRoot,
		"directory holding per-contract scrape output")

	mustBindPFlag("log-level", rootCmd, "log-level")
	mustBindPFlag("data-root", rootCmd, "data-root")

	viper.SetEnvPrefix("CONTRATOS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Conventional provider variables, without the CONTRATOS_ prefix.
	_ = viper.BindEnv("openai-api-key", "OPENAI_API_KEY")
	_ = viper.BindEnv("qdrant-api-key", "QDRANT_API_KEY")
	_ = viper.BindEnv("qdrant-host", "QDRANT_HOST")
	_ = viper.BindEnv("qdrant-port", "QDRANT_PORT")
	_ = viper.BindEnv("agent-model", "AGENT_MODEL")
}

// mustBindPFlag binds a persistent or local flag to a viper key.
func mustBindPFlag(key string, cmd *cobra.Command, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func dataRoot() string {
	return viper.GetString("data-root")
}
