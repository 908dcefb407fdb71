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

	"github.com/opencontratos/contratos-kb/knowledge/chunking"
	"github.com/opencontratos/contratos-kb/knowledge/corpus"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Chunk the corpus clause by clause into kb_chunks.jsonl",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("corpus")
		out, _ := cmd.Flags().GetString("out")
		maxChars, _ := cmd.Flags().GetInt("max-chars")
		minChars, _ := cmd.Flags().GetInt("min-chars")
		overlap, _ := cmd.Flags().GetInt("overlap-segments")

		cfg, err := chunking.NewConfig(maxChars, minChars, overlap)
		if err != nil {
			return err
		}

		n, err := corpus.PrepareKB(in, out, cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d chunks to %s\n", n, out)
		return nil
	},
}

func init() {
	defaults := chunking.DefaultConfig()
	kbCmd.Flags().String("corpus", corpus.DefaultCorpusFilename, "input corpus JSONL file")
	kbCmd.Flags().String("out", corpus.DefaultKBFilename, "output JSONL file")
	kbCmd.Flags().Int("max-chars", defaults.MaxChars, "maximum chunk size in characters")
	kbCmd.Flags().Int("min-chars", defaults.MinChars, "minimum size of the final chunk before merging")
	kbCmd.Flags().Int("overlap-segments", defaults.OverlapSegments, "segments carried over between chunks")

	rootCmd.AddCommand(kbCmd)
}
