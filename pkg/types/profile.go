// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Profile is the synthesized research profile for one user. Exactly one
// exists per user; each pipeline run increments Version by one and
// overwrites the synthesis-derived fields, grant titles, abstracts hash,
// and generation timestamp. Priorities are carried across runs and fed to
// synthesis as input, never overwritten by it.
type Profile struct {
	// UserID is the owning user.
	UserID string `json:"user_id" yaml:"user_id"`

	// Version starts at 1 on the first run and increments by exactly 1 on
	// every subsequent run.
	Version int `json:"version" yaml:"version"`

	// Summary is the synthesized narrative overview.
	Summary string `json:"summary" yaml:"summary"`

	// ResearchAreas lists the synthesized research areas.
	ResearchAreas []string `json:"research_areas" yaml:"research_areas"`

	// Techniques lists experimental techniques evidenced in methods text.
	Techniques []string `json:"techniques" yaml:"techniques"`

	// ModelSystems lists organisms, cell lines, or systems worked with.
	ModelSystems []string `json:"model_systems" yaml:"model_systems"`

	// KeyQuestions lists the open questions the researcher pursues.
	KeyQuestions []string `json:"key_questions" yaml:"key_questions"`

	// FutureDirections lists likely next directions.
	FutureDirections []string `json:"future_directions" yaml:"future_directions"`

	// GrantTitles comes from the identity provider, not from synthesis.
	GrantTitles []string `json:"grant_titles" yaml:"grant_titles"`

	// AbstractsHash is an order-independent digest over the abstract texts
	// backing this profile, used for change detection between runs.
	AbstractsHash string `json:"abstracts_hash" yaml:"abstracts_hash"`

	// Priorities is free text supplied by the user, read as synthesis input.
	Priorities string `json:"priorities,omitempty" yaml:"priorities,omitempty"`

	// GeneratedAt is when the profile was last synthesized.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Priority is one parsed entry of the user's free-text priorities.
type Priority struct {
	Label   string `json:"label" yaml:"label"`
	Content string `json:"content" yaml:"content"`
}

// SynthesisRequest is the assembled evidence sent to the synthesis
// capability.
type SynthesisRequest struct {
	ResearcherName string        `json:"researcher_name"`
	Affiliation    string        `json:"affiliation"`
	GrantTitles    []string      `json:"grant_titles"`
	Priorities     []Priority    `json:"priorities,omitempty"`
	Publications   []Publication `json:"publications"`
}

// SynthesisResult is the synthesis capability's response, treated as
// opaque: the pipeline accepts whatever comes back, including an invalid
// or empty payload.
type SynthesisResult struct {
	Valid            bool     `json:"valid"`
	Attempts         int      `json:"attempts,omitempty"`
	Summary          string   `json:"summary"`
	ResearchAreas    []string `json:"research_areas"`
	Techniques       []string `json:"techniques"`
	ModelSystems     []string `json:"model_systems"`
	KeyQuestions     []string `json:"key_questions"`
	FutureDirections []string `json:"future_directions"`
}
