//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opencontratos/contratos-kb/wikiagent"
)

var askCmd = &cobra.Command{
	Use:   "ask \"question\"",
	Short: "Answer a question with the Wikipedia research agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := viper.GetString("agent-model")
		language, _ := cmd.Flags().GetString("language")
		maxIterations, _ := cmd.Flags().GetInt("max-iterations")

		agent := wikiagent.New(
			wikiagent.WithAPIKey(viper.GetString("openai-api-key")),
			wikiagent.WithModel(model),
			wikiagent.WithLanguage(language),
			wikiagent.WithMaxIterations(maxIterations),
		)

		answer, err := agent.Answer(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Q: %s\nA: %s\n", args[0], answer)
		return nil
	},
}

func init() {
	askCmd.Flags().String("model", wikiagent.DefaultModel, "chat model")
	askCmd.Flags().String("language", "en", "Wikipedia language")
	askCmd.Flags().Int("max-iterations", wikiagent.DefaultMaxIterations, "tool-call loop budget")

	mustBindPFlag("agent-model", askCmd, "model")

	rootCmd.AddCommand(askCmd)
}
