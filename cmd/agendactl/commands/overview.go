package commands

import (
	"context"
	"fmt"

	"github.com/agendahq/agenda-api/internal/models"
	"github.com/agendahq/agenda-api/internal/services/events"
	"github.com/agendahq/agenda-api/internal/services/stats"
	"github.com/agendahq/agenda-api/internal/services/tasks"
	"github.com/spf13/cobra"
)

// NewOverviewCmd creates the overview command.
func NewOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Print the combined task and event overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			taskSvc := tasks.NewService(st, nil)
			eventSvc := events.NewService(st, nil)
			overview := stats.NewService(taskSvc, eventSvc).Overview(context.Background())

			fmt.Printf("Tasks: %d total, %d overdue\n", overview.Tasks.Total, overview.Tasks.Overdue)
			for _, status := range models.TaskStatuses {
				fmt.Printf("  %-12s %d\n", status, overview.Tasks.ByStatus[status])
			}
			fmt.Printf("Events: %d upcoming, %d active\n", overview.Events.Upcoming, overview.Events.Active)
			for _, e := range overview.UpcomingEvents {
				fmt.Printf("  %s  %s\n", e.StartTime.Format("2006-01-02 15:04"), e.Name)
			}
			return nil
		},
	}
}
