// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jats

import (
	"regexp"
	"strconv"
	"strings"
)

// Closing tags of block-level elements become paragraph breaks so the
// flattened text keeps its structure. Inline markup (italic, sub, sup,
// xref and the like) is stripped with its text preserved.
var (
	blockClose   = regexp.MustCompile(`</(?:p|sec|title|list-item|list|table|table-wrap|caption|fn|def)\s*>`)
	lineBreak    = regexp.MustCompile(`<break\s*/?\s*>`)
	anyTag       = regexp.MustCompile(`<[^>]*>`)
	charRef      = regexp.MustCompile(`&(#[xX]?[0-9a-fA-F]+|[a-zA-Z]+[0-9]*);`)
	runSpaces    = regexp.MustCompile(`[ \t]+`)
	spacedBreaks = regexp.MustCompile(` ?\n ?`)
	manyBreaks   = regexp.MustCompile(`\n{3,}`)
)

// namedEntities covers the standard XML set plus the named references
// that show up routinely in article text.
var namedEntities = map[string]string{
	"amp":    "&",
	"lt":     "<",
	"gt":     ">",
	"quot":   `"`,
	"apos":   "'",
	"nbsp":   " ",
	"ndash":  "–",
	"mdash":  "—",
	"plusmn": "±",
	"deg":    "°",
	"times":  "×",
	"micro":  "µ",
	"alpha":  "α",
	"beta":   "β",
	"gamma":  "γ",
	"delta":  "δ",
	"lambda": "λ",
	"mu":     "μ",
}

// Flatten converts a section's raw markup to plain text: block-element
// closes become double newlines, explicit breaks become single newlines,
// every remaining tag is stripped with its enclosed text kept, character
// references are decoded, and whitespace is normalized.
func Flatten(markup string) string {
	text := blockClose.ReplaceAllString(markup, "\n\n")
	text = lineBreak.ReplaceAllString(text, "\n")
	text = anyTag.ReplaceAllString(text, "")
	text = decodeCharRefs(text)
	text = runSpaces.ReplaceAllString(text, " ")
	text = spacedBreaks.ReplaceAllString(text, "\n")
	text = manyBreaks.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// decodeCharRefs resolves named entities and decimal/hexadecimal numeric
// character references. Unknown references are left as written.
func decodeCharRefs(text string) string {
	return charRef.ReplaceAllStringFunc(text, func(ref string) string {
		name := ref[1 : len(ref)-1]

		if strings.HasPrefix(name, "#") {
			digits := name[1:]
			base := 10
			if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
				digits = digits[1:]
				base = 16
			}
			n, err := strconv.ParseInt(digits, base, 32)
			if err != nil || n <= 0 {
				return ref
			}
			return string(rune(n))
		}

		if repl, ok := namedEntities[name]; ok {
			return repl
		}
		return ref
	})
}
