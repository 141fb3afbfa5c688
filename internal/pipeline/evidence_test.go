// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/pdiddy/scholar-profile/pkg/types"
)

func TestAbstractsHashOrderIndependent(t *testing.T) {
	a := AbstractsHash([]string{"alpha", "beta", "gamma"})
	b := AbstractsHash([]string{"gamma", "alpha", "beta"})
	if a != b {
		t.Errorf("hash depends on order: %s != %s", a, b)
	}
}

func TestAbstractsHashIgnoresEmpty(t *testing.T) {
	a := AbstractsHash([]string{"alpha", "", "beta"})
	b := AbstractsHash([]string{"alpha", "beta"})
	if a != b {
		t.Errorf("empty abstracts changed the hash: %s != %s", a, b)
	}
}

func TestAbstractsHashDistinguishesContent(t *testing.T) {
	a := AbstractsHash([]string{"alpha", "beta"})
	b := AbstractsHash([]string{"alpha", "betb"})
	if a == b {
		t.Error("different abstracts produced the same hash")
	}
}

func TestAbstractsHashSeparatorSafety(t *testing.T) {
	// Concatenation alone would make these collide.
	a := AbstractsHash([]string{"ab", "c"})
	b := AbstractsHash([]string{"a", "bc"})
	if a == b {
		t.Error("boundary shift produced the same hash")
	}
}

func TestParsePriorities(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []types.Priority
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "json array",
			text: `[{"label":"Funding","content":"Renew the R01"},{"label":"Hiring","content":"Two postdocs"}]`,
			want: []types.Priority{
				{Label: "Funding", Content: "Renew the R01"},
				{Label: "Hiring", Content: "Two postdocs"},
			},
		},
		{
			name: "json entries missing fields dropped",
			text: `[{"label":"Funding","content":"Renew the R01"},{"label":"Hiring"},{"content":"orphan"}]`,
			want: []types.Priority{
				{Label: "Funding", Content: "Renew the R01"},
			},
		},
		{
			name: "label colon content lines",
			text: "Funding: Renew the R01\nHiring: Two postdocs",
			want: []types.Priority{
				{Label: "Funding", Content: "Renew the R01"},
				{Label: "Hiring", Content: "Two postdocs"},
			},
		},
		{
			name: "lines without colon skipped",
			text: "just some prose\nFunding: Renew the R01",
			want: []types.Priority{
				{Label: "Funding", Content: "Renew the R01"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePriorities(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatAffiliation(t *testing.T) {
	tests := []struct {
		name string
		id   types.Identity
		want string
	}{
		{"both", types.Identity{Institution: "MIT", Department: "Biology"}, "MIT, Biology"},
		{"institution only", types.Identity{Institution: "MIT"}, "MIT"},
		{"neither", types.Identity{Department: "Biology"}, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAffiliation(tt.id); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthorPosition(t *testing.T) {
	authors := []string{"Jane Smith", "Robert Chen", "Maria Garcia"}

	tests := []struct {
		name       string
		authors    []string
		researcher string
		want       types.AuthorPosition
	}{
		{"first exact", authors, "Jane Smith", types.PositionFirst},
		{"middle exact", authors, "Robert Chen", types.PositionMiddle},
		{"last exact", authors, "Maria Garcia", types.PositionLast},
		{"case insensitive", authors, "jane smith", types.PositionFirst},
		{"family plus initial", authors, "M Garcia", types.PositionLast},
		{"no match defaults middle", authors, "Alan Turing", types.PositionMiddle},
		{"empty list defaults middle", nil, "Jane Smith", types.PositionMiddle},
		{"sole author is first", []string{"Jane Smith"}, "Jane Smith", types.PositionFirst},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authorPosition(tt.authors, tt.researcher); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
