package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCmd creates the reset command.
func NewResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all tasks and events and persist the empty snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			if err := st.Reset(); err != nil {
				return fmt.Errorf("reset store: %w", err)
			}
			fmt.Println("Store reset.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}
