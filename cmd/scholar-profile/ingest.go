// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-profile/internal/httputil"
	"github.com/pdiddy/scholar-profile/internal/ncbi"
	"github.com/pdiddy/scholar-profile/internal/orcid"
	"github.com/pdiddy/scholar-profile/internal/pipeline"
	"github.com/pdiddy/scholar-profile/internal/secrets"
	"github.com/pdiddy/scholar-profile/internal/status"
	"github.com/pdiddy/scholar-profile/internal/store"
	"github.com/pdiddy/scholar-profile/internal/synth"
	"github.com/pdiddy/scholar-profile/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "scholar-profile/0.1"
	defaultTool      = "scholar-profile"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [orcid-id]",
	Short: "Build or refresh a researcher's profile",
	Long: `Ingest fetches the researcher's identity record, resolves their
declared works against the abstract index, mines open-access methods
sections, and synthesizes a structured profile. The profile and its
backing publications replace any previous run's data; the stored version
number increments by one.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("user", "", "user ID to store the profile under (default: the ORCID iD)")
	ingestCmd.Flags().Bool("skip-methods", false, "skip methods-section mining")
	ingestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	ingestCmd.Flags().String("ncbi-api-key", "", "NCBI API key (default: .secrets/ncbi-api-key)")
	ingestCmd.Flags().String("email", "", "contact email sent with NCBI requests (default: .secrets/entrez-email)")
	ingestCmd.Flags().String("orcid-token", "", "ORCID access token (default: .secrets/orcid-token)")
	ingestCmd.Flags().String("synth-url", "", "synthesis service endpoint (default: config synthesis.endpoint)")
	ingestCmd.Flags().String("synth-key", "", "synthesis service API key (default: .secrets/synthesis-api-key)")

	rootCmd.AddCommand(ingestCmd)
}

// newPipeline wires the run's collaborators. One pacer is shared by the
// identity and Entrez clients so every outbound call in a run obeys the
// same inter-call delay, shortened when an NCBI API key is configured.
func newPipeline(httpClient *http.Client, cfg types.PipelineConfig, s *store.Store) *pipeline.Pipeline {
	pacer := httputil.NewPacer(httputil.PacerInterval(cfg.Entrez.APIKey != ""))
	return &pipeline.Pipeline{
		Identity: orcid.NewClient(httpClient, cfg.ORCID, pacer),
		Entrez:   ncbi.NewClient(httpClient, cfg.Entrez, pacer),
		Synth:    &synth.HTTPBackend{HTTP: httpClient, Config: cfg.Synthesis},
		Store:    s,
		Tracker:  status.NewMemoryTracker(),
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	orcidID := args[0]
	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		userID = orcidID
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	skipMethods, _ := cmd.Flags().GetBool("skip-methods")

	ncbiKey, _ := cmd.Flags().GetString("ncbi-api-key")
	email, _ := cmd.Flags().GetString("email")
	orcidToken, _ := cmd.Flags().GetString("orcid-token")
	synthURL, _ := cmd.Flags().GetString("synth-url")
	synthKey, _ := cmd.Flags().GetString("synth-key")
	if synthURL == "" {
		synthURL = viper.GetString("synthesis.endpoint")
	}

	httpCfg := types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent}
	cfg := types.PipelineConfig{
		Entrez: types.EntrezConfig{
			HTTPConfig: httpCfg,
			APIKey:     secretDefault(secrets.KeyNCBI, ncbiKey),
			Email:      secretDefault(secrets.KeyEmail, email),
			Tool:       defaultTool,
		},
		ORCID: types.ORCIDConfig{
			HTTPConfig: httpCfg,
			Token:      secretDefault(secrets.KeyORCID, orcidToken),
		},
		Synthesis: types.SynthesisConfig{
			HTTPConfig: httpCfg,
			Endpoint:   synthURL,
			APIKey:     secretDefault(secrets.KeySynthesis, synthKey),
		},
		Store:       types.StoreConfig{Path: dbPath(cmd)},
		SkipMethods: skipMethods,
	}

	if cfg.Synthesis.Endpoint == "" {
		return fmt.Errorf("no synthesis endpoint configured (set --synth-url or synthesis.endpoint)")
	}

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	httpClient := &http.Client{Timeout: timeout}
	runner := pipeline.NewRunner(newPipeline(httpClient, cfg, s))

	result, _, err := runner.Run(cmd.Context(), pipeline.Options{
		UserID:      userID,
		ORCIDID:     orcidID,
		SkipMethods: cfg.SkipMethods,
	}, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("Stored profile version %d for %s: %d publications (%d with abstracts, %d with methods)\n",
		result.Summary.ProfileVersion, userID, result.Summary.Publications,
		result.Summary.WithAbstract, result.Summary.WithMethods)
	if len(result.Warnings) > 0 {
		fmt.Printf("%d warning(s); run with profile %s to inspect the result\n", len(result.Warnings), userID)
	}
	return nil
}
