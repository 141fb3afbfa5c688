// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// AuthorPosition records where the researcher appears in an article's
// author list.
type AuthorPosition string

const (
	PositionFirst  AuthorPosition = "first"
	PositionMiddle AuthorPosition = "middle"
	PositionLast   AuthorPosition = "last"
)

// Publication is one article attributed to a researcher. Identifiers are
// each optional: an abstract-index ID (PMID), a full-text repository ID
// (PMCID), and a publisher DOI may all be absent independently.
type Publication struct {
	// UserID is the owning user.
	UserID string `json:"user_id" yaml:"user_id"`

	// PMID is the abstract-index identifier, if known.
	PMID string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	// PMCID is the full-text repository identifier, if known.
	PMCID string `json:"pmcid,omitempty" yaml:"pmcid,omitempty"`

	// DOI is the publisher-assigned identifier, if known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Journal is the publishing journal name.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Year is the publication year, zero if unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// AuthorPosition is the researcher's position in the author list.
	AuthorPosition AuthorPosition `json:"author_position" yaml:"author_position"`

	// Abstract is the plain-text abstract, empty when none was retrievable.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// MethodsText is the flattened Methods/Materials section, nil when the
	// article has no open-access full text or no identifiable section.
	MethodsText *string `json:"methods_text,omitempty" yaml:"methods_text,omitempty"`
}

// WorkRef is one entry from an identity provider's declared works list,
// carrying whichever external identifiers the provider recorded.
type WorkRef struct {
	Title string `json:"title" yaml:"title"`
	PMID  string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
	DOI   string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// AbstractRecord is one article as returned by the abstract index.
type AbstractRecord struct {
	PMID     string
	PMCID    string
	DOI      string
	Title    string
	Journal  string
	Year     int
	Abstract string

	// Authors lists author names ("Fore Last") in source order, used to
	// derive the researcher's author position.
	Authors []string
}

// IDConversion is one record from the cross-reference service. Any of the
// three identifiers may be empty; Err carries the service's per-record
// failure message when resolution failed outright.
type IDConversion struct {
	PMID  string `json:"pmid,omitempty"`
	PMCID string `json:"pmcid,omitempty"`
	DOI   string `json:"doi,omitempty"`
	Err   string `json:"error,omitempty"`
}

// Identity is the researcher's public record at the identity provider.
type Identity struct {
	Name        string `json:"name" yaml:"name"`
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`
	Department  string `json:"department,omitempty" yaml:"department,omitempty"`
	LabURL      string `json:"lab_url,omitempty" yaml:"lab_url,omitempty"`
}
