// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-profile/internal/store"
	"github.com/pdiddy/scholar-profile/pkg/types"
)

var prioritiesCmd = &cobra.Command{
	Use:   "priorities [user-id] [text]",
	Short: "Show or set the user's research priorities",
	Long: `Priorities stores free text fed to the next synthesis run. The text
may be a JSON array of {label, content} entries or plain "label: content"
lines. With no text argument the stored priorities are printed.

Priorities survive profile regeneration: ingest reads them as input and
never overwrites them.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		s, err := store.NewStore(types.StoreConfig{Path: dbPath(cmd)})
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 2 {
			return s.SetPriorities(cmd.Context(), userID, args[1])
		}

		profile, err := s.GetProfile(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if profile == nil || profile.Priorities == "" {
			fmt.Printf("No priorities stored for %s.\n", userID)
			return nil
		}
		fmt.Println(profile.Priorities)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prioritiesCmd)
}
