// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jats

import (
	"regexp"
	"strings"
)

// secTypeAllowList holds normalized sec-type attribute values that mark a
// Methods/Materials section. Publishers are inconsistent about spelling.
var secTypeAllowList = map[string]bool{
	"methods":               true,
	"materials|methods":     true,
	"materials-methods":     true,
	"materials and methods": true,
	"material|methods":      true,
	"subjects|methods":      true,
}

// titlePatterns match section titles that identify a Methods section when
// no sec-type attribute does. Matched against the whole normalized title.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^methods?$`),
	regexp.MustCompile(`(?i)^materials?\s+and\s+methods?$`),
	regexp.MustCompile(`(?i)^methods?\s+and\s+materials?$`),
	regexp.MustCompile(`(?i)^experimental\s+procedures?$`),
	regexp.MustCompile(`(?i)^star\s*★?\s*methods?$`),
	regexp.MustCompile(`(?i)^online\s+methods?$`),
	regexp.MustCompile(`(?i)^study\s+design\s+and\s+methods?$`),
	regexp.MustCompile(`(?i)^(patients?|subjects?)(\s*/\s*(patients?|subjects?))?\s+and\s+methods?$`),
}

var secTypeAttr = regexp.MustCompile(`(?i)\bsec-type\s*=\s*["']([^"']*)["']`)

// MethodsText extracts the plain text of an article's Methods/Materials
// section, or "" when the article has none. Only top-level sections
// inside <body> are examined: a matched subtree is consumed whole, so a
// "Statistical Methods" subsection nested under Results is never
// mistaken for the primary section. Articles without a body (embargoed
// records) yield "" immediately.
func MethodsText(article string) string {
	body := bodyContent(article)
	if body == "" {
		return ""
	}

	pos := 0
	for {
		open := nextOpen(body, pos, "sec")
		if open < 0 {
			return ""
		}
		span, err := ExtractElement(body, open, "sec")
		if err != nil {
			return ""
		}
		if isMethodsSection(span) {
			return Flatten(span)
		}
		pos = open + len(span)
	}
}

// bodyContent returns the markup between an article's body markers, or ""
// when no body element exists.
func bodyContent(article string) string {
	open := nextOpen(article, 0, "body")
	if open < 0 {
		return ""
	}
	span, err := ExtractElement(article, open, "body")
	if err != nil {
		return ""
	}
	gt := strings.IndexByte(span, '>')
	if gt < 0 {
		return ""
	}
	return span[gt+1 : len(span)-len("</body>")]
}

// isMethodsSection applies the two identification strategies in order:
// the sec-type attribute against the allow-list, then the section's own
// title against the title patterns.
func isMethodsSection(section string) bool {
	gt := strings.IndexByte(section, '>')
	if gt < 0 {
		return false
	}
	openTag := section[:gt+1]

	if m := secTypeAttr.FindStringSubmatch(openTag); m != nil {
		normalized := strings.Join(strings.Fields(strings.ToLower(m[1])), " ")
		if secTypeAllowList[normalized] {
			return true
		}
	}

	title := sectionTitle(section[gt+1:])
	if title == "" {
		return false
	}
	for _, p := range titlePatterns {
		if p.MatchString(title) {
			return true
		}
	}
	return false
}

// sectionTitle returns the section's own title as plain text. The search
// is capped at the first nested <sec> so a subsection's title is never
// picked up in its place.
func sectionTitle(content string) string {
	limit := len(content)
	if nested := nextOpen(content, 0, "sec"); nested >= 0 {
		limit = nested
	}
	head := content[:limit]

	open := nextOpen(head, 0, "title")
	if open < 0 {
		return ""
	}
	span, err := ExtractElement(head, open, "title")
	if err != nil {
		return ""
	}
	return Flatten(span)
}

var articleIDPattern = regexp.MustCompile(`(?is)<article-id[^>]*pub-id-type\s*=\s*["']([^"']+)["'][^>]*>\s*([^<]+?)\s*</article-id>`)

// ArticleID returns the article's own identifier of the given pub-id
// type (e.g. "pmc", "pmid", "doi") from its front matter, or "".
func ArticleID(article, idType string) string {
	for _, m := range articleIDPattern.FindAllStringSubmatch(article, -1) {
		if strings.EqualFold(strings.TrimSpace(m[1]), idType) {
			return strings.TrimSpace(m[2])
		}
	}
	return ""
}
