package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/bootstrap"
	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler/fixture"
)

type simulation struct {
	Timetable []dto.GroupTimetable `json:"timetable"`
	Stats     dto.GenerationStats  `json:"stats"`
}

// SimulateCmd runs the engine over a YAML fixture without touching the database.
func SimulateCmd(app *AppContext) *cobra.Command {
	var (
		format    string
		capScope  string
		cellOrder string
		scoreOnly bool
	)
	cmd := &cobra.Command{
		Use:   "simulate <fixture.yaml>",
		Short: "Allocate a fixture in memory and print the schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}
			f, err := fixture.Load(args[0])
			if err != nil {
				return err
			}

			opts := bootstrap.EngineOptions(app.Cfg.Scheduler)
			pinned := f.EngineOptions()
			if f.Options.CapScope != "" {
				opts.CapScope = pinned.CapScope
			}
			if f.Options.CellOrder != "" {
				opts.CellOrder = pinned.CellOrder
			}
			opts.ScoreOnly = opts.ScoreOnly || pinned.ScoreOnly
			if cmd.Flags().Changed("cap-scope") {
				opts.CapScope = scheduler.ParseCapScope(capScope)
			}
			if cmd.Flags().Changed("cell-order") {
				opts.CellOrder = scheduler.ParseCellOrder(cellOrder)
			}
			if cmd.Flags().Changed("score-only") {
				opts.ScoreOnly = scoreOnly
			}
			opts.Logger = app.Logger.Named("scheduler")

			result, err := simulate(app, f, opts)
			if err != nil {
				return err
			}
			if format == formatJSON {
				return renderJSON(app.Out, result)
			}
			if err := renderTimetable(app.Out, result.Timetable); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "\n%d groups, %d slots assigned, %d cells unfilled\n",
				result.Stats.TotalStudentGroups, result.Stats.TotalSlots, result.Stats.UnfilledCells)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or json")
	cmd.Flags().StringVar(&capScope, "cap-scope", "", "Load cap scope: run or group")
	cmd.Flags().StringVar(&cellOrder, "cell-order", "", "Cell order: slot-major or day-major")
	cmd.Flags().BoolVar(&scoreOnly, "score-only", false, "Rank teachers by score alone")
	return cmd
}

func simulate(app *AppContext, f *fixture.Fixture, opts scheduler.Options) (*simulation, error) {
	engine := scheduler.NewEngine(opts)
	input, err := f.Input(engine.Grid())
	if err != nil {
		return nil, err
	}
	result, err := engine.Generate(app.Ctx, input)
	if err != nil {
		return nil, err
	}
	app.Logger.Debug("simulation finished", zap.Int("assigned", result.Assigned), zap.Int("unfilled", result.Unfilled))

	teachers := make(map[string]string, len(input.Teachers))
	for _, t := range input.Teachers {
		teachers[t.ID] = t.Name
	}
	rooms := make(map[string]string, len(input.Classrooms))
	for _, c := range input.Classrooms {
		rooms[c.ID] = c.Name
	}

	out := &simulation{Stats: dto.GenerationStats{
		TotalStudentGroups: len(result.Groups),
		TotalSlots:         result.Assigned,
		UnfilledCells:      result.Unfilled,
		ContinuedSlots:     result.Continued,
		CellsPerGroup:      result.CellsPerGroup,
		DurationMs:         result.Duration.Milliseconds(),
		CapScope:           string(engine.CapScope()),
		CellOrder:          string(engine.CellOrder()),
	}}
	for _, gs := range result.Groups {
		entries := make([]dto.ScheduleEntry, 0, len(gs.Assignments))
		for _, a := range gs.Assignments {
			entries = append(entries, dto.ScheduleEntry{
				Day:       string(a.Cell.Day),
				TimeSlot:  a.Cell.Slot,
				Teacher:   teachers[a.TeacherID],
				Subject:   a.SubjectID,
				Classroom: rooms[a.ClassroomID],
			})
		}
		unfilled := gs.Unfilled
		out.Timetable = append(out.Timetable, dto.GroupTimetable{
			StudentGroupID: gs.Group.ID,
			StudentGroup:   gs.Group.Name,
			Schedule:       entries,
			UnfilledCells:  &unfilled,
		})
	}
	return out, nil
}
