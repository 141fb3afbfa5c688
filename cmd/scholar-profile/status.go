// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-profile/internal/store"
	"github.com/pdiddy/scholar-profile/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status [user-id]",
	Short: "Show the stored profile's generation status",
	Long: `Status reports when the user's profile was last generated, its
version, and how many publications back it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		s, err := store.NewStore(types.StoreConfig{Path: dbPath(cmd)})
		if err != nil {
			return err
		}
		defer s.Close()

		profile, err := s.GetProfile(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if profile == nil {
			fmt.Printf("No profile stored for %s; run ingest first.\n", userID)
			return nil
		}

		pubs, err := s.Publications(cmd.Context(), userID)
		if err != nil {
			return err
		}
		withAbstract, withMethods := 0, 0
		for _, pub := range pubs {
			if pub.Abstract != "" {
				withAbstract++
			}
			if pub.MethodsText != nil {
				withMethods++
			}
		}

		fmt.Printf("Profile for %s\n", userID)
		fmt.Printf("  version:      %d\n", profile.Version)
		fmt.Printf("  generated:    %s\n", profile.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("  publications: %d (%d with abstracts, %d with methods)\n",
			len(pubs), withAbstract, withMethods)
		fmt.Printf("  grants:       %d\n", len(profile.GrantTitles))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
