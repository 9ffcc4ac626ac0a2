package commands

import (
	"context"
	"fmt"

	"github.com/agendahq/agenda-api/internal/models"
	"github.com/agendahq/agenda-api/internal/services/tasks"
	"github.com/spf13/cobra"
)

// NewTasksCmd creates the tasks listing command.
func NewTasksCmd() *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks in the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			svc := tasks.NewService(st, nil)

			filter := tasks.ListFilter{PageSize: 100}
			if statusFlag != "" {
				status := models.TaskStatus(statusFlag)
				filter.Status = &status
			}
			page, err := svc.List(context.Background(), filter)
			if err != nil {
				return err
			}

			if len(page.Items) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}
			for _, t := range page.Items {
				due := "-"
				if t.DueDate != nil {
					due = t.DueDate.Format("2006-01-02 15:04")
				}
				fmt.Printf("%s  p%d  %-12s  due %-16s  %s\n", t.ID, t.Priority, t.Status, due, t.Title)
			}
			fmt.Printf("%d of %d task(s)\n", len(page.Items), page.Pagination.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (pending, in_progress, completed, cancelled)")
	return cmd
}
