//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package wikiagent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/opencontratos/contratos-kb/log"
)

// Tool names exposed to the model.
const (
	toolSearch  = "wikipedia_search"
	toolGetPage = "wikipedia_get_page"
)

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type searchResultItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	WordCount   int    `json:"word_count"`
}

type searchResponse struct {
	Query     string             `json:"query"`
	Results   []searchResultItem `json:"results"`
	TotalHits int                `json:"total_hits"`
}

type getPageRequest struct {
	Title string `json:"title"`
}

type pageResponse struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// agentTools declares the two function tools the agent may call.
func agentTools() []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{
		{
			Function: openai.FunctionDefinitionParam{
				Name: toolSearch,
				Description: openai.String("Search Wikipedia for pages related to a query. " +
					"Returns page titles with short descriptions. Call this before reading any page."),
				Parameters: shared.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{
							"type":        "string",
							"description": "Search query",
						},
						"limit": map[string]any{
							"type":        "integer",
							"description": "Maximum number of results (default 5)",
						},
					},
					"required": []string{"query"},
				},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name: toolGetPage,
				Description: openai.String("Read the full content of a Wikipedia page by its exact title, " +
					"as returned by wikipedia_search. The content is markdown."),
				Parameters: shared.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Exact page title",
						},
					},
					"required": []string{"title"},
				},
			},
		},
	}
}

// dispatch routes a tool call to its implementation. Failures are serialized
// into the tool result so the model can recover or report them.
func (a *Agent) dispatch(ctx context.Context, name, arguments string) string {
	result, err := a.call(ctx, name, arguments)
	if err != nil {
		log.Warnf("tool %s failed: %v", name, err)
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return result
}

func (a *Agent) call(ctx context.Context, name, arguments string) (string, error) {
	switch name {
	case toolSearch:
		var req searchRequest
		if err := json.Unmarshal([]byte(arguments), &req); err != nil {
			return "", fmt.Errorf("invalid %s arguments: %w", name, err)
		}
		return a.runSearch(ctx, req)
	case toolGetPage:
		var req getPageRequest
		if err := json.Unmarshal([]byte(arguments), &req); err != nil {
			return "", fmt.Errorf("invalid %s arguments: %w", name, err)
		}
		return a.runGetPage(ctx, req)
	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

func (a *Agent) runSearch(ctx context.Context, req searchRequest) (string, error) {
	limit := req.Limit
	if limit <= 0 || limit > a.maxResults {
		limit = a.maxResults
	}

	response, err := a.wiki.Search(ctx, req.Query, limit)
	if err != nil {
		return "", err
	}

	results := make([]searchResultItem, 0, len(response.Query.Search))
	for _, page := range response.Query.Search {
		description, convErr := convertHTMLToMarkdown(page.Snippet)
		if convErr != nil {
			description = cleanHTMLTags(page.Snippet)
		}
		results = append(results, searchResultItem{
			Title:       page.Title,
			URL:         a.pageURL(page.Title),
			Description: description,
			WordCount:   page.WordCount,
		})
	}

	out, err := json.Marshal(searchResponse{
		Query:     req.Query,
		Results:   results,
		TotalHits: response.Query.SearchInfo.TotalHits,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (a *Agent) runGetPage(ctx context.Context, req getPageRequest) (string, error) {
	response, err := a.wiki.GetPage(ctx, req.Title)
	if err != nil {
		return "", err
	}

	content, convErr := convertHTMLToMarkdown(response.Parse.Text)
	if convErr != nil {
		content = cleanHTMLTags(response.Parse.Text)
	}
	content = truncateRunes(content, a.maxPageRunes)

	out, err := json.Marshal(pageResponse{
		Title:   response.Parse.Title,
		URL:     a.pageURL(response.Parse.Title),
		Content: content,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// pageURL builds the canonical article URL for a title.
func (a *Agent) pageURL(title string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/wiki/%s",
		a.language, strings.ReplaceAll(url.PathEscape(title), "%20", "_"))
}

// truncateRunes bounds tool output so page content does not blow up the
// model context.
func truncateRunes(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "\n\n[content truncated]"
}

// convertHTMLToMarkdown converts Wikipedia HTML to markdown.
func convertHTMLToMarkdown(htmlText string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	return conv.ConvertString(htmlText)
}

// cleanHTMLTags removes HTML tags from text, as a fallback when markdown
// conversion fails.
func cleanHTMLTags(text string) string {
	cleaned := regexp.MustCompile(`<[^>]*>`).ReplaceAllString(text, "")

	cleaned = strings.ReplaceAll(cleaned, "&amp;", "&")
	cleaned = strings.ReplaceAll(cleaned, "&lt;", "<")
	cleaned = strings.ReplaceAll(cleaned, "&gt;", ">")
	cleaned = strings.ReplaceAll(cleaned, "&quot;", "\"")
	cleaned = strings.ReplaceAll(cleaned, "&#39;", "'")
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")

	cleaned = regexp.MustCompile(`\s+`).ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
