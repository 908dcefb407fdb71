//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package scraper

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/opencontratos/contratos-kb/contracts"
	"github.com/opencontratos/contratos-kb/log"
)

// Keys for pliego PDFs in a contract record.
const (
	PliegoAdmin   = "pliego_admin"
	PliegoTecnico = "pliego_tecnico"
)

const (
	metadataListClass = "pcon-convocatoria"
	pliegoSectionID   = "pcon-pliego-de-condiciones"
)

// ExtractMetadata extracts label/value pairs from the convocatoria summary
// list on a contract detail page. Parse failures yield an empty map.
func ExtractMetadata(htmlText string) contracts.MetadataRaw {
	raw := make(contracts.MetadataRaw)

	root, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		log.Warnf("parse detail HTML: %v", err)
		return raw
	}

	list := findElement(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Ul && hasClass(n, metadataListClass)
	})
	if list == nil {
		log.Warnf("metadata list ul.%s not found", metadataListClass)
		return raw
	}

	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		labelNode := findElement(li, func(n *html.Node) bool {
			return hasClass(n, "field__label")
		})
		if labelNode == nil {
			continue
		}
		label := collapseText(labelNode)
		if label == "" {
			continue
		}

		valueNode := findElement(li, func(n *html.Node) bool {
			return hasClass(n, "field__item")
		})
		if valueNode == nil {
			valueNode = findElement(li, func(n *html.Node) bool {
				return hasClass(n, "field-content")
			})
		}
		if valueNode == nil {
			continue
		}
		raw[label] = collapseText(valueNode)
	}
	return raw
}

// ExtractPliegoLinks extracts the download URLs for the administrative and
// technical pliegos, keyed by PliegoAdmin and PliegoTecnico. The pliego
// section holds one div per document; the link is the first anchor whose
// text contains "descargar". Relative URLs are resolved against the portal
// base URL.
func (c *Client) ExtractPliegoLinks(htmlText string) map[string]string {
	links := make(map[string]string)

	root, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		log.Warnf("parse detail HTML: %v", err)
		return links
	}

	section := findElement(root, func(n *html.Node) bool {
		return getAttr(n, "id") == pliegoSectionID
	})
	if section == nil {
		log.Warnf("pliego section #%s not found", pliegoSectionID)
		return links
	}

	var blocks []*html.Node
	for child := section.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == atom.Div {
			blocks = append(blocks, child)
		}
	}

	keys := []string{PliegoAdmin, PliegoTecnico}
	for i, key := range keys {
		if i >= len(blocks) {
			log.Warnf("%s block not found in pliego section", key)
			continue
		}
		href := findDownloadLink(blocks[i])
		if href == "" {
			log.Warnf("%s download link not found", key)
			continue
		}
		links[key] = c.absolutize(href)
	}
	return links
}

// findDownloadLink returns the href of the first anchor under n whose text
// contains "descargar" (case-insensitive).
func findDownloadLink(n *html.Node) string {
	anchor := findElement(n, func(a *html.Node) bool {
		if a.DataAtom != atom.A || getAttr(a, "href") == "" {
			return false
		}
		return strings.Contains(strings.ToLower(collapseText(a)), "descargar")
	})
	if anchor == nil {
		return ""
	}
	return getAttr(anchor, "href")
}

// absolutize resolves href against the client base URL.
func (c *Client) absolutize(href string) string {
	base, err := url.Parse(c.baseURL)
	if err != nil || base.Host == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// findElement walks the tree depth-first and returns the first element node
// matching the predicate.
func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, match); found != nil {
			return found
		}
	}
	return nil
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// hasClass reports whether the node carries the CSS class.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// collapseText returns the whitespace-normalized text content of the subtree.
func collapseText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if text := strings.TrimSpace(node.Data); text != "" {
				parts = append(parts, strings.Join(strings.Fields(text), " "))
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
