// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-profile/internal/store"
	"github.com/pdiddy/scholar-profile/pkg/types"
)

var clearCmd = &cobra.Command{
	Use:   "clear [user-id]",
	Short: "Delete a user's stored profile and publications",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		s, err := store.NewStore(types.StoreConfig{Path: dbPath(cmd)})
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Clear(cmd.Context(), userID); err != nil {
			return err
		}
		fmt.Printf("Cleared stored data for %s\n", userID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
