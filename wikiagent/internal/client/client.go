//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package client provides a minimal Wikipedia API client: full-text search
// and page content retrieval.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client represents a Wikipedia API client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// New creates a new Wikipedia API client. baseURL points at the api.php
// endpoint, e.g. https://en.wikipedia.org/w/api.php.
func New(baseURL, userAgent string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// SearchResponse represents the Wikipedia API search response.
type SearchResponse struct {
	Query struct {
		SearchInfo struct {
			TotalHits int `json:"totalhits"` // TotalHits is the total number of search results
		} `json:"searchinfo"`
		Search []SearchResult `json:"search"` // Search contains the list of search results
	} `json:"query"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	Title     string `json:"title"`     // Title is the title of the page
	PageID    int    `json:"pageid"`    // PageID is the unique page identifier
	Size      int    `json:"size"`      // Size is the page size in bytes
	WordCount int    `json:"wordcount"` // WordCount is the number of words in the page
	Snippet   string `json:"snippet"`   // Snippet is a short HTML excerpt of the page content
	Timestamp string `json:"timestamp"` // Timestamp is the last modification time
}

// ParseResponse represents the action=parse response.
type ParseResponse struct {
	Parse struct {
		Title  string `json:"title"`  // Title is the resolved page title
		PageID int    `json:"pageid"` // PageID is the unique page identifier
		Text   string `json:"text"`   // Text is the rendered page HTML
	} `json:"parse"`
	Error *APIError `json:"error,omitempty"`
}

// APIError is the error object the MediaWiki API embeds in responses.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// validateQuery validates query parameters.
func validateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	return nil
}

// normalizeLimit ensures limit is positive, returns default if <= 0.
func normalizeLimit(limit, defaultLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

// Search performs a full-text Wikipedia search.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", normalizeLimit(limit, 5)))
	params.Set("srprop", "snippet|timestamp|wordcount|size")
	params.Set("format", "json")

	var response SearchResponse
	if err := c.execute(ctx, params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetPage retrieves the rendered HTML of a Wikipedia page by title via the
// parse API, following redirects.
func (c *Client) GetPage(ctx context.Context, title string) (*ParseResponse, error) {
	if err := validateQuery(title); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("action", "parse")
	params.Set("page", title)
	params.Set("prop", "text")
	params.Set("redirects", "1")
	params.Set("format", "json")
	params.Set("formatversion", "2")

	var response ParseResponse
	if err := c.execute(ctx, params, &response); err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, fmt.Errorf("wikipedia API error %s: %s", response.Error.Code, response.Error.Info)
	}
	return &response, nil
}

// execute performs an API GET request and decodes the JSON response into out.
func (c *Client) execute(ctx context.Context, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
