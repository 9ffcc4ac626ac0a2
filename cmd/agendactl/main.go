package main

import (
	"fmt"
	"os"

	"github.com/agendahq/agenda-api/cmd/agendactl/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "agendactl",
		Short: "Admin tool for the Agenda API",
		Long:  "CLI tool for inspecting and maintaining the agenda snapshot store.",
	}

	rootCmd.AddCommand(commands.NewOverviewCmd())
	rootCmd.AddCommand(commands.NewTasksCmd())
	rootCmd.AddCommand(commands.NewResetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
