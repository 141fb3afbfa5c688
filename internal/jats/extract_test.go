// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jats

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractElement(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		tag     string
		want    string
		wantErr bool
	}{
		{
			name: "flat element",
			text: `<sec><p>hello</p></sec>`,
			tag:  "sec",
			want: `<sec><p>hello</p></sec>`,
		},
		{
			name: "same-named nested element",
			text: `<sec id="a"><title>Outer</title><sec id="b"><p>inner</p></sec></sec><sec id="c"/>`,
			tag:  "sec",
			want: `<sec id="a"><title>Outer</title><sec id="b"><p>inner</p></sec></sec>`,
		},
		{
			name: "triple nesting",
			text: `<sec><sec><sec>deep</sec></sec></sec>tail`,
			tag:  "sec",
			want: `<sec><sec><sec>deep</sec></sec></sec>`,
		},
		{
			name: "self-closing element at start is its own span",
			text: `<sec id="empty"/><sec><p>next</p></sec>`,
			tag:  "sec",
			want: `<sec id="empty"/>`,
		},
		{
			name: "self-closing descendant does not add depth",
			text: `<sec><graphic/><sec xlink:href="x"/><p>t</p></sec>`,
			tag:  "sec",
			want: `<sec><graphic/><sec xlink:href="x"/><p>t</p></sec>`,
		},
		{
			name: "prefix collision ignored",
			text: `<sec><sec-meta>m</sec-meta><p>t</p></sec>`,
			tag:  "sec",
			want: `<sec><sec-meta>m</sec-meta><p>t</p></sec>`,
		},
		{
			name:    "unterminated element",
			text:    `<sec><p>never closes</p>`,
			tag:     "sec",
			wantErr: true,
		},
		{
			name:    "close before open underflows",
			text:    `</sec><sec></sec>`,
			tag:     "sec",
			wantErr: true,
		},
		{
			name: "attributes on opening tag",
			text: `<sec sec-type="methods" id="s2"><p>x</p></sec>`,
			tag:  "sec",
			want: `<sec sec-type="methods" id="s2"><p>x</p></sec>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractElement(tt.text, 0, tt.tag)
			if tt.wantErr {
				if !errors.Is(err, ErrUnbalanced) {
					t.Fatalf("ExtractElement() error = %v, want ErrUnbalanced", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractElement() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractElement() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractElementMidText(t *testing.T) {
	text := `<front>meta</front><body><sec><p>one</p></sec></body>`
	start := strings.Index(text, "<sec")
	got, err := ExtractElement(text, start, "sec")
	if err != nil {
		t.Fatalf("ExtractElement() error = %v", err)
	}
	if got != `<sec><p>one</p></sec>` {
		t.Errorf("ExtractElement() = %q", got)
	}
}

func TestExtractElementBalancedCounts(t *testing.T) {
	// Any well-formed nesting returns a span with equal open and close
	// counts for the tag.
	text := `<sec>a<sec>b<sec>c</sec><sec>d</sec></sec></sec>trailing<sec>e</sec>`
	span, err := ExtractElement(text, 0, "sec")
	if err != nil {
		t.Fatalf("ExtractElement() error = %v", err)
	}
	opens := strings.Count(span, "<sec")
	closes := strings.Count(span, "</sec>")
	if opens != closes {
		t.Errorf("span has %d opens and %d closes", opens, closes)
	}
	if strings.Contains(span, "trailing") {
		t.Errorf("span overran the element: %q", span)
	}
}

func TestCarveArticles(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "two articles",
			text: `<pmc-articleset><article id="1"><body/></article><article id="2"><body/></article></pmc-articleset>`,
			want: 2,
		},
		{
			name: "empty response",
			text: `<pmc-articleset></pmc-articleset>`,
			want: 0,
		},
		{
			name: "malformed article skipped",
			text: `<set><article><p>no close</set>`,
			want: 0,
		},
		{
			name: "article-type prefix not carved",
			text: `<set><article-commentary>x</article-commentary><article>a</article></set>`,
			want: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CarveArticles(tt.text)
			if len(got) != tt.want {
				t.Errorf("CarveArticles() returned %d spans, want %d", len(got), tt.want)
			}
		})
	}
}
