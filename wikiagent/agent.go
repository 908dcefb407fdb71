//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package wikiagent implements a small Wikipedia research agent: an OpenAI
// chat completion loop with two function tools, wikipedia_search and
// wikipedia_get_page.
package wikiagent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/opencontratos/contratos-kb/log"
	"github.com/opencontratos/contratos-kb/wikiagent/internal/client"
)

// Default configuration constants.
const (
	DefaultModel         = "gpt-4o-mini"
	DefaultMaxIterations = 8
	DefaultMaxResults    = 5

	defaultLanguage     = "en"
	defaultUserAgent    = "contratos-kb-wikiagent/1.0"
	defaultTimeout      = 30 * time.Second
	defaultMaxPageRunes = 24000
)

// systemPrompt forces the search-then-read workflow and explicit citations.
const systemPrompt = `You are a Wikipedia research agent.

You can use two tools:

1. wikipedia_search(query, limit)
   - Call this first to find relevant pages.

2. wikipedia_get_page(title)
   - Then call this for 1-3 of the most relevant titles to read their content.

Rules:
- Always call wikipedia_search first, then wikipedia_get_page.
- Answer only using the retrieved page text.
- In your final message, include explicit references like
  (source: <Page Title>)
  for every fact you state.
- If you cannot find the answer, say so clearly.`

// config holds the configuration for the agent.
type config struct {
	model          string
	language       string
	wikiBaseURL    string
	userAgent      string
	httpClient     *http.Client
	maxIterations  int
	maxResults     int
	maxPageRunes   int
	apiKey         string
	baseURL        string
	requestOptions []option.RequestOption
}

// Option is a functional option for configuring the agent.
type Option func(*config)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *config) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLanguage sets the Wikipedia language (e.g. "en", "es").
func WithLanguage(language string) Option {
	return func(c *config) {
		if language != "" {
			c.language = language
			c.wikiBaseURL = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", language)
		}
	}
}

// WithWikipediaBaseURL overrides the Wikipedia API endpoint.
func WithWikipediaBaseURL(baseURL string) Option {
	return func(c *config) {
		if baseURL != "" {
			c.wikiBaseURL = baseURL
		}
	}
}

// WithUserAgent sets the User-Agent for Wikipedia requests.
func WithUserAgent(userAgent string) Option {
	return func(c *config) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout sets the Wikipedia HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMaxIterations bounds the tool-call loop.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithMaxResults bounds how many search results a single tool call returns.
func WithMaxResults(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(apiKey string) Option {
	return func(c *config) {
		c.apiKey = apiKey
	}
}

// WithBaseURL sets a custom OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithRequestOptions adds extra OpenAI request options.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *config) {
		c.requestOptions = append(c.requestOptions, opts...)
	}
}

// Agent answers questions by searching and reading Wikipedia through an
// OpenAI tool-calling loop.
type Agent struct {
	openai         openai.Client
	wiki           *client.Client
	model          string
	language       string
	maxIterations  int
	maxResults     int
	maxPageRunes   int
	requestOptions []option.RequestOption
}

// New creates a Wikipedia agent with the given options.
func New(opts ...Option) *Agent {
	cfg := &config{
		model:         DefaultModel,
		language:      defaultLanguage,
		wikiBaseURL:   fmt.Sprintf("https://%s.wikipedia.org/w/api.php", defaultLanguage),
		userAgent:     defaultUserAgent,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		maxIterations: DefaultMaxIterations,
		maxResults:    DefaultMaxResults,
		maxPageRunes:  defaultMaxPageRunes,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var clientOpts []option.RequestOption
	if cfg.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.apiKey))
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}

	return &Agent{
		openai:         openai.NewClient(clientOpts...),
		wiki:           client.New(cfg.wikiBaseURL, cfg.userAgent, cfg.httpClient),
		model:          cfg.model,
		language:       cfg.language,
		maxIterations:  cfg.maxIterations,
		maxResults:     cfg.maxResults,
		maxPageRunes:   cfg.maxPageRunes,
		requestOptions: cfg.requestOptions,
	}
}

// Answer runs the tool-call loop until the model produces a final message or
// the iteration budget runs out.
func (a *Agent) Answer(ctx context.Context, question string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(question),
	}

	for i := 0; i < a.maxIterations; i++ {
		completion, err := a.openai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    shared.ChatModel(a.model),
			Messages: messages,
			Tools:    agentTools(),
		}, a.requestOptions...)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", errors.New("chat completion returned no choices")
		}

		msg := completion.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg.ToParam())
		for _, call := range msg.ToolCalls {
			log.Debugf("tool call %s(%s)", call.Function.Name, call.Function.Arguments)
			result := a.dispatch(ctx, call.Function.Name, call.Function.Arguments)
			messages = append(messages, openai.ToolMessage(result, call.ID))
		}
	}

	return "", fmt.Errorf("no final answer after %d iterations", a.maxIterations)
}
