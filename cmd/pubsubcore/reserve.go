package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/pubsubcore/pkg/model"
)

var reserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Reserve writer-group and dataset-writer ids on a transient manager and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		numWG, _ := cmd.Flags().GetInt("writer-groups")
		numDSW, _ := cmd.Flags().GetInt("dataset-writers")
		profile, _ := cmd.Flags().GetString("profile")

		mgr := newManager()
		defer mgr.Destroy()

		wgIDs, dswIDs, err := mgr.ReserveIds(sessionID, numWG, numDSW, profile)
		if err != nil {
			return fmt.Errorf("reserve ids: %w", err)
		}

		fmt.Printf("reserved for session %q on %s:\n", sessionID, profile)
		fmt.Printf("  writer group ids:  %v\n", wgIDs)
		fmt.Printf("  dataset writer ids: %v\n", dswIDs)
		return nil
	},
}

func init() {
	reserveCmd.Flags().String("session", "cli-session", "Session id the reservation is scoped to")
	reserveCmd.Flags().Int("writer-groups", 1, "Number of writer group ids to reserve")
	reserveCmd.Flags().Int("dataset-writers", 1, "Number of dataset writer ids to reserve")
	reserveCmd.Flags().String("profile", model.ProfileUDPUADP, "Transport profile URI to scope the reservation to")
}
