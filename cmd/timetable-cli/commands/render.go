package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func validFormat(format string) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("unknown output format %q (want table or json)", format)
	}
	return nil
}

// renderTimetable writes one block per student group.
func renderTimetable(w io.Writer, groups []dto.GroupTimetable) error {
	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := group.StudentGroup
		if group.UnfilledCells != nil && *group.UnfilledCells > 0 {
			header = fmt.Sprintf("%s (%d unfilled)", header, *group.UnfilledCells)
		}
		fmt.Fprintln(w, header)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DAY\tTIME\tSUBJECT\tTEACHER\tCLASSROOM")
		for _, entry := range group.Schedule {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", entry.Day, entry.TimeSlot, entry.Subject, entry.Teacher, entry.Classroom)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func renderJSON(w io.Writer, payload interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
