// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-profile/internal/store"
	"github.com/pdiddy/scholar-profile/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile [user-id]",
	Short: "Print the stored research profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]
		asYAML, _ := cmd.Flags().GetBool("yaml")

		s, err := store.NewStore(types.StoreConfig{Path: dbPath(cmd)})
		if err != nil {
			return err
		}
		defer s.Close()

		if asYAML {
			out, err := s.ProfileYAML(cmd.Context(), userID)
			if err != nil {
				return err
			}
			os.Stdout.Write(out)
			return nil
		}

		profile, err := s.GetProfile(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return fmt.Errorf("no profile stored for user %s", userID)
		}

		fmt.Printf("Profile for %s (version %d)\n\n", userID, profile.Version)
		if profile.Summary != "" {
			fmt.Printf("%s\n\n", profile.Summary)
		}
		printList("Research areas", profile.ResearchAreas)
		printList("Techniques", profile.Techniques)
		printList("Model systems", profile.ModelSystems)
		printList("Key questions", profile.KeyQuestions)
		printList("Future directions", profile.FutureDirections)
		printList("Grants", profile.GrantTitles)
		if profile.Priorities != "" {
			fmt.Printf("Priorities:\n  %s\n", strings.ReplaceAll(profile.Priorities, "\n", "\n  "))
		}
		return nil
	},
}

func printList(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", heading)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
	fmt.Println()
}

func init() {
	profileCmd.Flags().Bool("yaml", false, "output the full profile as YAML")

	rootCmd.AddCommand(profileCmd)
}
