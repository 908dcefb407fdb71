//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

package chunking

import (
	"regexp"
	"strings"
	"unicode"
)

// HeadingMatcher reports whether a line starts a new logical segment.
// It makes the segment boundary rule pluggable without touching the packing
// algorithm.
type HeadingMatcher func(line string) bool

// headingRegexp matches clause and article headings of Spanish legal
// documents, e.g. "CLÁUSULA 4", "Artículo 12.", with or without accents.
var headingRegexp = regexp.MustCompile(`(?i)^\s*(CL[AÁ]USULA|ART[ÍI]CULO)\b`)

// DefaultHeadingMatcher matches "CLÁUSULA ..." and "ARTÍCULO ..." headings
// (accented or not, any case), optionally preceded by whitespace.
func DefaultHeadingMatcher(line string) bool {
	return headingRegexp.MatchString(line)
}

var (
	multiSpaceRegexp   = regexp.MustCompile(` {2,}`)
	multiNewlineRegexp = regexp.MustCompile(`\n{3,}`)
)

// NormalizeWhitespace collapses redundant whitespace: tabs become single
// spaces, runs of two or more spaces collapse to one, runs of three or more
// newlines collapse to exactly one blank line, and the whole text is trimmed.
// Normalizing already-normalized text is a no-op.
func NormalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\t", " ")
	text = multiSpaceRegexp.ReplaceAllString(text, " ")
	text = multiNewlineRegexp.ReplaceAllString(text, segmentSeparator)
	return strings.TrimSpace(text)
}

// SplitIntoSegments splits a page of text into logical segments (paragraphs,
// clauses) using the default heading matcher.
func SplitIntoSegments(pageText string) []string {
	return SplitIntoSegmentsFunc(pageText, DefaultHeadingMatcher)
}

// SplitIntoSegmentsFunc splits a page of text into logical segments.
//
// The text is normalized first, then walked line by line:
//   - a blank line closes the current segment;
//   - a heading line closes the current segment and starts a new one, unless
//     the current segment is empty, in which case the heading simply begins
//     it;
//   - any other line is appended to the current segment.
//
// Segments are emitted in document order. Segments that are empty after
// trimming are discarded.
func SplitIntoSegmentsFunc(pageText string, isHeading HeadingMatcher) []string {
	if isHeading == nil {
		isHeading = DefaultHeadingMatcher
	}

	pageText = NormalizeWhitespace(pageText)
	if pageText == "" {
		return nil
	}

	var segments []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		segment := strings.TrimSpace(strings.Join(current, "\n"))
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	for _, raw := range strings.Split(pageText, "\n") {
		line := strings.TrimRightFunc(raw, unicode.IsSpace)

		// Blank line closes the current segment.
		if strings.TrimSpace(line) == "" {
			flush()
			current = nil
			continue
		}

		// Heading starts a new segment, but only if there is one to close.
		if isHeading(line) && len(current) > 0 {
			flush()
			current = []string{line}
			continue
		}

		current = append(current, line)
	}

	flush()
	return segments
}
