package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scholar-profile/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EntrezConfig holds settings for the abstract index, cross-reference, and
// full-text retrieval clients.
type EntrezConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey raises the allowed request rate when present.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is sent with every request for operator contact, per the
	// service's usage terms.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Tool is the registered tool name sent with every request.
	Tool string `json:"tool" yaml:"tool"`
}

// ORCIDConfig holds settings for the identity provider client.
type ORCIDConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is an optional access token for elevated read scope.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// SynthesisConfig holds settings for the synthesis capability client.
type SynthesisConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the synthesis service URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey authenticates against the synthesis service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// StoreConfig holds settings for the persistence layer.
type StoreConfig struct {
	// Path is the SQLite database file path.
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations for a profile run.
type PipelineConfig struct {
	Entrez    EntrezConfig    `json:"entrez" yaml:"entrez"`
	ORCID     ORCIDConfig     `json:"orcid" yaml:"orcid"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Store     StoreConfig     `json:"store" yaml:"store"`

	// SkipMethods disables the deep-mining stage.
	SkipMethods bool `json:"skip_methods" yaml:"skip_methods"`
}
