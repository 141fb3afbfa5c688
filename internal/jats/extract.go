// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jats locates and flattens article sections out of full-text
// XML as served by open-access repositories. The markup is heterogeneous
// and frequently fails strict parsing (bare ampersands, undeclared
// entities), so extraction walks the raw text and balances tags by hand
// instead of decoding a document tree.
package jats

import (
	"errors"
	"strings"
)

// ErrUnbalanced reports that an element's open and close tags did not
// balance before the text ran out.
var ErrUnbalanced = errors.New("unbalanced element")

// isTagBoundary reports whether c can legally follow a tag name inside a
// tag. This distinguishes a genuine <sec> from a prefix collision such as
// <sec-meta> when scanning for "sec".
func isTagBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '>', '/':
		return true
	}
	return false
}

// nextOpen returns the index of the next genuine opening tag for name at
// or after pos, or -1 if none exists.
func nextOpen(text string, pos int, name string) int {
	marker := "<" + name
	for pos < len(text) {
		i := strings.Index(text[pos:], marker)
		if i < 0 {
			return -1
		}
		at := pos + i
		end := at + len(marker)
		if end < len(text) && isTagBoundary(text[end]) {
			return at
		}
		pos = at + 1
	}
	return -1
}

// ExtractElement returns the full span of the element whose opening tag
// begins at start, including any same-named nested descendants. The walk
// finds whichever comes first, the next genuine opening tag or the next
// matching close, adjusting nesting depth as it goes. Self-closing tags
// never change depth. ErrUnbalanced is returned when the text is
// exhausted before the element closes or a close appears with no
// matching open.
func ExtractElement(text string, start int, name string) (string, error) {
	closeTag := "</" + name + ">"
	depth := 0
	pos := start

	for pos < len(text) {
		open := nextOpen(text, pos, name)

		closeIdx := strings.Index(text[pos:], closeTag)
		if closeIdx >= 0 {
			closeIdx += pos
		}

		if open >= 0 && (closeIdx < 0 || open < closeIdx) {
			// Opening tag first. Find its terminating '>' to decide
			// whether it is self-closing.
			gt := strings.IndexByte(text[open:], '>')
			if gt < 0 {
				return "", ErrUnbalanced
			}
			gt += open
			if text[gt-1] != '/' {
				depth++
			}
			pos = gt + 1
			if depth == 0 {
				// The element at start is itself self-closing; its span
				// is just the tag.
				return text[start:pos], nil
			}
			continue
		}

		if closeIdx < 0 {
			return "", ErrUnbalanced
		}

		depth--
		if depth < 0 {
			return "", ErrUnbalanced
		}
		pos = closeIdx + len(closeTag)
		if depth == 0 {
			return text[start:pos], nil
		}
	}

	return "", ErrUnbalanced
}

// CarveArticles splits a multi-article response body into one span per
// <article> element. Malformed spans are skipped; callers that need to
// know about them should compare the count against the request.
func CarveArticles(text string) []string {
	var articles []string
	pos := 0
	for {
		open := nextOpen(text, pos, "article")
		if open < 0 {
			return articles
		}
		span, err := ExtractElement(text, open, "article")
		if err != nil {
			pos = open + 1
			continue
		}
		articles = append(articles, span)
		pos = open + len(span)
	}
}
