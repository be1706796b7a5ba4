package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// GenerateCmd replaces the active timetable from the database snapshot.
func GenerateCmd(app *AppContext) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and persist the weekly timetable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}
			deps, err := app.connect()
			if err != nil {
				return err
			}
			defer deps.Close()

			resp, err := deps.Generator.Generate(app.Ctx)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}
			if format == formatJSON {
				return renderJSON(app.Out, resp)
			}
			fmt.Fprintf(app.Out, "%s\nTimetable ID: %s\n", resp.Message, resp.TimetableID)
			fmt.Fprintf(app.Out, "Groups: %d  Assigned: %d  Unfilled: %d  Duration: %dms\n",
				resp.Stats.TotalStudentGroups, resp.Stats.TotalSlots, resp.Stats.UnfilledCells, resp.Stats.DurationMs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	return cmd
}
