//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Package scraper crawls the public contracting portal: search result
// pagination, contract detail pages, and pliego PDF downloads.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/opencontratos/contratos-kb/contracts"
	"github.com/opencontratos/contratos-kb/log"
)

const (
	// DefaultUserAgent identifies the crawler to the portal.
	DefaultUserAgent = "contratos-kb/1.0"
	// DefaultMaxPages bounds search result pagination.
	DefaultMaxPages = 20
	// DefaultPageDelay is the polite delay between search result pages.
	DefaultPageDelay = 800 * time.Millisecond
	// DefaultTimeout applies to HTML fetches.
	DefaultTimeout = 30 * time.Second
)

// contractLinkRegexp matches detail page links in search result HTML.
var contractLinkRegexp = regexp.MustCompile(`href="(/contrato-publico/[^"]+)"`)

// Client crawls the contracting portal.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	pageDelay  time.Duration
	maxPages   int
	dataRoot   string
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets the portal base URL used to absolutize relative links.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPageDelay sets the delay between paginated search requests.
func WithPageDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.pageDelay = d
		}
	}
}

// WithMaxPages bounds how many search result pages are crawled.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithDataRoot sets the directory where contract artifacts are stored.
func WithDataRoot(root string) Option {
	return func(c *Client) {
		if root != "" {
			c.dataRoot = root
		}
	}
}

// New creates a scraper client for the given portal.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		pageDelay:  DefaultPageDelay,
		maxPages:   DefaultMaxPages,
		dataRoot:   contracts.DefaultDataRoot,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchHTML fetches raw HTML from a URL, decoding the response body to UTF-8
// using the declared charset.
func (c *Client) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request for %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", rawURL, err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", rawURL, err)
	}
	return string(body), nil
}

// ExtractContractLinks extracts links starting with /contrato-publico/ from
// search result HTML, normalized to unique sorted absolute URLs.
func (c *Client) ExtractContractLinks(htmlText string) []string {
	matches := contractLinkRegexp.FindAllStringSubmatch(htmlText, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		seen[c.baseURL+m[1]] = struct{}{}
	}

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}

// updatePageParam replaces the `page` query parameter in the URL.
func updatePageParam(rawURL string, page int) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse search URL %q: %w", rawURL, err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PaginateContractLinks crawls search result pages ?page=0..N and collects
// all contract detail links, stopping early on the first empty page.
func (c *Client) PaginateContractLinks(ctx context.Context, searchURL string) ([]string, error) {
	seen := make(map[string]struct{})

	for page := 0; page < c.maxPages; page++ {
		pageURL, err := updatePageParam(searchURL, page)
		if err != nil {
			return nil, err
		}

		htmlText, err := c.FetchHTML(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		links := c.ExtractContractLinks(htmlText)
		added := 0
		for _, link := range links {
			if _, ok := seen[link]; !ok {
				seen[link] = struct{}{}
				added++
			}
		}
		log.Infof("search page %d: found=%d added=%d total=%d", page, len(links), added, len(seen))

		if len(links) == 0 {
			log.Infof("no links found on page %d, stopping early", page)
			break
		}

		if c.pageDelay > 0 && page < c.maxPages-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pageDelay):
			}
		}
	}

	all := make([]string, 0, len(seen))
	for link := range seen {
		all = append(all, link)
	}
	sort.Strings(all)
	return all, nil
}

// DownloadPDF downloads a PDF to destPath, creating parent directories.
// A non-PDF content type is logged but not treated as an error.
func (c *Client) DownloadPDF(ctx context.Context, rawURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request for %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %q: unexpected status %d", rawURL, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "pdf") && !strings.Contains(ct, "octet-stream") {
		log.Warnf("unexpected content type %q for %s", ct, rawURL)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create dir for %q: %w", destPath, err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %q: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write %q: %w", destPath, err)
	}

	log.Infof("saved PDF to %s", destPath)
	return nil
}

// ProcessContractDetail downloads a contract detail page once, extracts its
// metadata and pliego PDF links, downloads the PDFs under the data root, and
// persists the resulting record.
func (c *Client) ProcessContractDetail(ctx context.Context, detailURL string) (*contracts.Record, error) {
	log.Infof("processing contract detail %s", detailURL)

	htmlText, err := c.FetchHTML(ctx, detailURL)
	if err != nil {
		return nil, err
	}

	raw := ExtractMetadata(htmlText)
	pdfLinks := c.ExtractPliegoLinks(htmlText)

	contractID := contracts.NormalizeContractID(raw.Get(contracts.LabelContractID))
	contractDir, err := contracts.ContractDir(c.dataRoot, contractID)
	if err != nil {
		return nil, err
	}

	pdfPaths := make(map[string]string, len(pdfLinks))
	for _, key := range []string{PliegoAdmin, PliegoTecnico} {
		pdfURL, ok := pdfLinks[key]
		if !ok {
			continue
		}
		destPath := filepath.Join(contractDir, key+".pdf")
		if err := c.DownloadPDF(ctx, pdfURL, destPath); err != nil {
			log.Errorf("download %s for %s: %v", key, contractID, err)
			continue
		}
		pdfPaths[key] = destPath
	}

	record := contracts.NewRecord(detailURL, raw, pdfPaths)
	if err := contracts.SaveRecord(c.dataRoot, record); err != nil {
		return nil, err
	}
	return record, nil
}
