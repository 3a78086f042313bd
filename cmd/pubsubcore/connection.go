package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/pubsubcore/pkg/model"
)

var connectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Validate connection operations against a transient manager",
}

var connectionAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a connection and print its assigned id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		profile, _ := cmd.Flags().GetString("profile")
		url, _ := cmd.Flags().GetString("url")

		mgr := newManager()
		defer mgr.Destroy()

		id, err := mgr.AddConnection(&model.ConnectionConfig{
			Name:                name,
			TransportProfileURI: profile,
			Address:             model.Address{URL: url},
			Enabled:             true,
		})
		if err != nil {
			return fmt.Errorf("add connection: %w", err)
		}

		fmt.Printf("connection added: %s (id=%d)\n", name, id)
		return nil
	},
}

var connectionRemoveCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Add a connection then remove it, printing the before/after state (round-trip smoke test)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		profile, _ := cmd.Flags().GetString("profile")
		url, _ := cmd.Flags().GetString("url")

		mgr := newManager()
		defer mgr.Destroy()

		id, err := mgr.AddConnection(&model.ConnectionConfig{
			Name:                name,
			TransportProfileURI: profile,
			Address:             model.Address{URL: url},
			Enabled:             true,
		})
		if err != nil {
			return fmt.Errorf("add connection: %w", err)
		}
		fmt.Printf("connection added: %s (id=%d)\n", name, id)

		if err := mgr.RemoveConnection(id); err != nil {
			return fmt.Errorf("remove connection: %w", err)
		}
		fmt.Printf("connection removed: %s (id=%d)\n", name, id)
		return nil
	},
}

func init() {
	connectionAddCmd.Flags().String("profile", model.ProfileUDPUADP, "Transport profile URI")
	connectionAddCmd.Flags().String("url", "", "Connection address URL")
	connectionRemoveCmd.Flags().String("profile", model.ProfileUDPUADP, "Transport profile URI")
	connectionRemoveCmd.Flags().String("url", "", "Connection address URL")

	connectionCmd.AddCommand(connectionAddCmd)
	connectionCmd.AddCommand(connectionRemoveCmd)
}
