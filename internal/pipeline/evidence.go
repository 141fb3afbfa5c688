// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/pdiddy/scholar-profile/pkg/types"
)

// AbstractsHash digests the abstract texts after canonical sorting, so
// two runs over the same literature produce the same hash regardless of
// fetch order. Empty abstracts are excluded: a record with no abstract
// carries no literature signal.
func AbstractsHash(abstracts []string) string {
	texts := make([]string, 0, len(abstracts))
	for _, a := range abstracts {
		if a != "" {
			texts = append(texts, a)
		}
	}
	sort.Strings(texts)

	h := sha256.New()
	for _, t := range texts {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ParsePriorities reads the user's free-text priorities. The stored form
// is a JSON array of {label, content} entries; "label: content" lines
// are accepted as a fallback for hand-written text. Entries missing a
// label or content are discarded; well-formed entries pass through
// verbatim.
func ParsePriorities(text string) []types.Priority {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var entries []types.Priority
	if err := json.Unmarshal([]byte(text), &entries); err == nil {
		return filterPriorities(entries)
	}

	var lines []types.Priority
	for _, line := range strings.Split(text, "\n") {
		label, content, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		lines = append(lines, types.Priority{
			Label:   strings.TrimSpace(label),
			Content: strings.TrimSpace(content),
		})
	}
	return filterPriorities(lines)
}

func filterPriorities(entries []types.Priority) []types.Priority {
	var kept []types.Priority
	for _, e := range entries {
		if e.Label == "" || e.Content == "" {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// formatAffiliation renders the identity's affiliation as
// "Institution, Department", the institution alone, or "Unknown" when
// both are absent.
func formatAffiliation(id types.Identity) string {
	switch {
	case id.Institution != "" && id.Department != "":
		return id.Institution + ", " + id.Department
	case id.Institution != "":
		return id.Institution
	default:
		return "Unknown"
	}
}

// authorPosition locates the researcher in an author list. Matching is
// by full name first, then by family name plus first initial; no match
// or an empty list defaults to middle authorship.
func authorPosition(authors []string, researcher string) types.AuthorPosition {
	idx := -1
	for i, a := range authors {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(researcher)) {
			idx = i
			break
		}
	}
	if idx < 0 {
		rFamily, rInitial := nameKey(researcher)
		if rFamily == "" {
			return types.PositionMiddle
		}
		for i, a := range authors {
			family, initial := nameKey(a)
			if strings.EqualFold(family, rFamily) && (initial == rInitial || initial == 0 || rInitial == 0) {
				idx = i
				break
			}
		}
	}

	switch {
	case idx < 0:
		return types.PositionMiddle
	case idx == 0:
		return types.PositionFirst
	case idx == len(authors)-1:
		return types.PositionLast
	default:
		return types.PositionMiddle
	}
}

// nameKey reduces a name to its family name (last token) and first
// initial for fuzzy author matching.
func nameKey(name string) (string, byte) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", 0
	}
	family := fields[len(fields)-1]
	var initial byte
	if len(fields) > 1 && len(fields[0]) > 0 {
		initial = strings.ToUpper(fields[0])[0]
	}
	return family, initial
}
