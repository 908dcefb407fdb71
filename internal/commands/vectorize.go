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

	"github.com/opencontratos/contratos-kb/knowledge"
	"github.com/opencontratos/contratos-kb/knowledge/corpus"
	openaiembedder "github.com/opencontratos/contratos-kb/knowledge/embedder/openai"
	"github.com/opencontratos/contratos-kb/knowledge/vectorstore/qdrant"
	"github.com/opencontratos/contratos-kb/log"
)

var vectorizeCmd = &cobra.Command{
	Use:   "vectorize",
	Short: "Embed KB chunks and upsert them into a Qdrant collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		kbPath, _ := cmd.Flags().GetString("kb")
		numContracts, _ := cmd.Flags().GetInt("contracts")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		model, _ := cmd.Flags().GetString("model")
		dimensions, _ := cmd.Flags().GetInt("dimensions")
		collection, _ := cmd.Flags().GetString("collection")
		host := viper.GetString("qdrant-host")
		port := viper.GetInt("qdrant-port")
		useTLS, _ := cmd.Flags().GetBool("qdrant-tls")

		ctx := cmd.Context()

		emb := openaiembedder.New(
			openaiembedder.WithModel(model),
			openaiembedder.WithDimensions(dimensions),
			openaiembedder.WithAPIKey(viper.GetString("openai-api-key")),
		)

		store, err := qdrant.New(ctx,
			qdrant.WithHost(host),
			qdrant.WithPort(port),
			qdrant.WithTLS(useTLS),
			qdrant.WithAPIKey(viper.GetString("qdrant-api-key")),
			qdrant.WithCollectionName(collection),
			qdrant.WithDimension(dimensions),
		)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warnf("close vector store: %v", err)
			}
		}()

		vectorizer, err := knowledge.NewVectorizer(
			knowledge.WithEmbedder(emb),
			knowledge.WithVectorStore(store),
			knowledge.WithBatchSize(batchSize),
			knowledge.WithExpectedDimension(dimensions),
		)
		if err != nil {
			return err
		}

		selected, err := knowledge.SelectFirstContracts(kbPath, numContracts)
		if err != nil {
			return err
		}
		if len(selected) > 0 {
			log.Infof("selected contracts: %v", selected)
		}

		stats, err := vectorizer.VectorizeKB(ctx, kbPath, selected)
		if err != nil {
			return err
		}

		fmt.Printf("Embedded %d chunks (%d skipped), collection %q now holds %d points\n",
			stats.Embedded, stats.Skipped, collection, stats.StoreCount)
		return nil
	},
}

func init() {
	vectorizeCmd.Flags().String("kb", corpus.DefaultKBFilename, "input kb_chunks.jsonl file")
	vectorizeCmd.Flags().Int("contracts", 3, "vectorize only the first N distinct contracts (0 = all)")
	vectorizeCmd.Flags().Int("batch-size", knowledge.DefaultBatchSize, "chunks per upsert batch")
	vectorizeCmd.Flags().String("model", openaiembedder.DefaultModel, "embedding model")
	vectorizeCmd.Flags().Int("dimensions", openaiembedder.DefaultDimensions, "embedding dimensions")
	vectorizeCmd.Flags().String("collection", "contratos_kb", "Qdrant collection name")
	vectorizeCmd.Flags().String("qdrant-host", "localhost", "Qdrant host")
	vectorizeCmd.Flags().Int("qdrant-port", 6334, "Qdrant gRPC port")
	vectorizeCmd.Flags().Bool("qdrant-tls", false, "connect to Qdrant over TLS")

	mustBindPFlag("qdrant-host", vectorizeCmd, "qdrant-host")
	mustBindPFlag("qdrant-port", vectorizeCmd, "qdrant-port")

	rootCmd.AddCommand(vectorizeCmd)
}
