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

	"github.com/opencontratos/contratos-kb/knowledge/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Extract per-page text from downloaded PDFs into a JSONL corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		builder := corpus.NewBuilder(corpus.WithDataRoot(dataRoot()))
		records, err := builder.Build()
		if err != nil {
			return err
		}
		if err := corpus.WriteCorpus(out, records); err != nil {
			return err
		}

		fmt.Printf("Wrote %d page records to %s\n", len(records), out)
		return nil
	},
}

func init() {
	corpusCmd.Flags().String("out", corpus.DefaultCorpusFilename, "output JSONL file")
	rootCmd.AddCommand(corpusCmd)
}
