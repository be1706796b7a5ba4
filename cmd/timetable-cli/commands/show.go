package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
)

// ShowCmd prints the active timetable.
func ShowCmd(app *AppContext) *cobra.Command {
	var (
		format  string
		groupID string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active timetable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}
			deps, err := app.connect()
			if err != nil {
				return err
			}
			defer deps.Close()

			resp, err := deps.Generator.GetTimetable(app.Ctx, dto.TimetableQuery{StudentGroupID: groupID})
			if err != nil {
				return err
			}
			if format == formatJSON {
				return renderJSON(app.Out, resp)
			}
			fmt.Fprintf(app.Out, "Timetable %s (%d, semester %d)\n\n", resp.TimetableID, resp.AcademicYear, resp.Semester)
			return renderTimetable(app.Out, resp.Timetable)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	cmd.Flags().StringVarP(&groupID, "group", "g", "", "Only show this student group")
	return cmd
}
