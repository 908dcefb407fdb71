//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package commands

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencontratos/contratos-kb/log"
	"github.com/opencontratos/contratos-kb/scraper"
)

// detailDelay is the polite delay between contract detail pages.
const detailDelay = time.Second

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Crawl the portal search results and download contract PDFs",
	RunE: func(cmd *cobra.Command, args []string) error {
		searchURL, _ := cmd.Flags().GetString("search-url")
		baseURL, _ := cmd.Flags().GetString("base-url")
		maxContracts, _ := cmd.Flags().GetInt("max-contracts")
		maxPages, _ := cmd.Flags().GetInt("max-pages")

		if baseURL == "" {
			derived, err := deriveBaseURL(searchURL)
			if err != nil {
				return err
			}
			baseURL = derived
		}

		c := scraper.New(baseURL,
			scraper.WithDataRoot(dataRoot()),
			scraper.WithMaxPages(maxPages),
		)

		ctx := cmd.Context()
		links, err := c.PaginateContractLinks(ctx, searchURL)
		if err != nil {
			return err
		}
		log.Infof("found %d contract links", len(links))

		if maxContracts > 0 && len(links) > maxContracts {
			links = links[:maxContracts]
		}

		processed := 0
		for i, link := range links {
			if i > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(detailDelay):
				}
			}
			record, err := c.ProcessContractDetail(ctx, link)
			if err != nil {
				log.Errorf("process %s: %v", link, err)
				continue
			}
			log.Infof("processed contract %s (%d PDFs)", record.ContractID, len(record.PDFs))
			processed++
		}

		fmt.Printf("Processed %d of %d contracts into %s\n", processed, len(links), dataRoot())
		return nil
	},
}

// deriveBaseURL extracts scheme://host from the search URL.
func deriveBaseURL(searchURL string) (string, error) {
	u, err := url.Parse(searchURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("cannot derive base URL from %q, pass --base-url", searchURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

func init() {
	scrapeCmd.Flags().String("search-url", "", "portal search results URL (required)")
	scrapeCmd.Flags().String("base-url", "", "portal base URL (default: derived from --search-url)")
	scrapeCmd.Flags().Int("max-contracts", 5, "process at most this many contract details")
	scrapeCmd.Flags().Int("max-pages", scraper.DefaultMaxPages, "crawl at most this many search result pages")
	_ = scrapeCmd.MarkFlagRequired("search-url")

	rootCmd.AddCommand(scrapeCmd)
}
