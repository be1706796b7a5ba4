package scheduler

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teacher(id string, pref *Preference, subjects ...string) Teacher {
	if len(subjects) == 0 {
		subjects = []string{"subject-" + id}
	}
	return Teacher{ID: id, Name: "Teacher " + id, SubjectIDs: subjects, Preference: pref}
}

func rooms(n int) []Classroom {
	out := make([]Classroom, n)
	for i := range out {
		out[i] = Classroom{ID: fmt.Sprintf("room-%d", i+1), Name: fmt.Sprintf("Room %d", i+1)}
	}
	return out
}

func groups(n int) []StudentGroup {
	out := make([]StudentGroup, n)
	for i := range out {
		out[i] = StudentGroup{ID: fmt.Sprintf("group-%d", i+1), Name: fmt.Sprintf("X-%d", i+1)}
	}
	return out
}

func findAssignment(t *testing.T, schedule GroupSchedule, day Day, slot string) (Assignment, bool) {
	t.Helper()
	for _, a := range schedule.Assignments {
		if a.Cell.Day == day && a.Cell.Slot == slot {
			return a, true
		}
	}
	return Assignment{}, false
}

func TestGenerateRejectsEmptyInputs(t *testing.T) {
	engine := NewEngine(Options{})

	_, err := engine.Generate(context.Background(), Input{Classrooms: rooms(1), Groups: groups(1)})
	assert.ErrorIs(t, err, ErrNoTeachers)

	_, err = engine.Generate(context.Background(), Input{Teachers: []Teacher{teacher("t1", nil)}, Groups: groups(1)})
	assert.ErrorIs(t, err, ErrNoClassrooms)
}

func TestGeneratePreferredTeacherWinsPreferredCell(t *testing.T) {
	t1 := teacher("t1", &Preference{
		Levels:          map[Day]map[string]Level{Monday: {"9:00 AM": Preferred}},
		MaxSlotsPerDay:  1,
		MaxSlotsPerWeek: 5,
	}, "s1")
	t2 := teacher("t2", nil, "s1")

	result, err := NewEngine(Options{}).Generate(context.Background(), Input{
		Teachers:   []Teacher{t1, t2},
		Classrooms: rooms(1),
		Groups:     groups(1),
	})
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)

	a, ok := findAssignment(t, result.Groups[0], Monday, "9:00 AM")
	require.True(t, ok)
	assert.Equal(t, "t1", a.TeacherID)
	assert.Equal(t, "s1", a.SubjectID)
	assert.Equal(t, "room-1", a.ClassroomID)

	monday := 0
	for _, a := range result.Groups[0].Assignments {
		if a.TeacherID == "t1" && a.Cell.Day == Monday {
			monday++
		}
	}
	assert.Equal(t, 1, monday)
}

func TestGenerateScoreOnlyFollowsRawFormula(t *testing.T) {
	t1 := teacher("t1", &Preference{
		Levels:          map[Day]map[string]Level{Monday: {"9:00 AM": Preferred}},
		MaxSlotsPerDay:  1,
		MaxSlotsPerWeek: 5,
	}, "s1")
	t2 := teacher("t2", nil, "s1")

	result, err := NewEngine(Options{ScoreOnly: true}).Generate(context.Background(), Input{
		Teachers:   []Teacher{t1, t2},
		Classrooms: rooms(1),
		Groups:     groups(1),
	})
	require.NoError(t, err)

	a, ok := findAssignment(t, result.Groups[0], Monday, "9:00 AM")
	require.True(t, ok)
	assert.Equal(t, "t2", a.TeacherID)
}

func TestGenerateNeverDoubleBooks(t *testing.T) {
	teachers := []Teacher{teacher("t1", nil), teacher("t2", nil), teacher("t3", nil)}
	result, err := NewEngine(Options{}).Generate(context.Background(), Input{
		Teachers:   teachers,
		Classrooms: rooms(2),
		Groups:     groups(4),
	})
	require.NoError(t, err)

	teacherCells := map[string]bool{}
	roomCells := map[string]bool{}
	groupCells := map[string]bool{}
	for _, g := range result.Groups {
		for _, a := range g.Assignments {
			tk := a.TeacherID + "|" + a.Cell.String()
			rk := a.ClassroomID + "|" + a.Cell.String()
			gk := a.GroupID + "|" + a.Cell.String()
			assert.False(t, teacherCells[tk], "teacher double booked: %s", tk)
			assert.False(t, roomCells[rk], "classroom double booked: %s", rk)
			assert.False(t, groupCells[gk], "group double booked: %s", gk)
			teacherCells[tk], roomCells[rk], groupCells[gk] = true, true, true
		}
	}
	// two classrooms bound every cell to at most two groups
	assert.LessOrEqual(t, result.Assigned, 2*result.CellsPerGroup)
	assert.Equal(t, 4*result.CellsPerGroup, result.Assigned+result.Unfilled)
}

func TestGenerateRespectsCaps(t *testing.T) {
	capped := teacher("t1", &Preference{MaxSlotsPerDay: 2, MaxSlotsPerWeek: 3})

	for _, order := range []CellOrder{SlotMajor, DayMajor} {
		t.Run(string(order), func(t *testing.T) {
			result, err := NewEngine(Options{CellOrder: order}).Generate(context.Background(), Input{
				Teachers:   []Teacher{capped},
				Classrooms: rooms(1),
				Groups:     groups(1),
			})
			require.NoError(t, err)
			assert.Equal(t, 3, result.Assigned)
			assert.Equal(t, result.CellsPerGroup-3, result.Unfilled)

			perDay := map[Day]int{}
			for _, a := range result.Groups[0].Assignments {
				perDay[a.Cell.Day]++
			}
			for day, n := range perDay {
				assert.LessOrEqual(t, n, 2, "day %s", day)
			}
		})
	}
}

func TestGenerateCellOrder(t *testing.T) {
	capped := teacher("t1", &Preference{MaxSlotsPerWeek: 2})
	input := Input{Teachers: []Teacher{capped}, Classrooms: rooms(1), Groups: groups(1)}

	slotMajor, err := NewEngine(Options{}).Generate(context.Background(), input)
	require.NoError(t, err)
	_, ok := findAssignment(t, slotMajor.Groups[0], Tuesday, "9:00 AM")
	assert.True(t, ok)

	dayMajor, err := NewEngine(Options{CellOrder: DayMajor}).Generate(context.Background(), input)
	require.NoError(t, err)
	_, ok = findAssignment(t, dayMajor.Groups[0], Monday, "10:00 AM")
	assert.True(t, ok)
}

func TestGenerateExcludesBreakSlot(t *testing.T) {
	result, err := NewEngine(Options{}).Generate(context.Background(), Input{
		Teachers:   []Teacher{teacher("t1", nil), teacher("t2", nil)},
		Classrooms: rooms(2),
		Groups:     groups(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 35, result.CellsPerGroup)
	for _, g := range result.Groups {
		for _, a := range g.Assignments {
			assert.NotEqual(t, BreakSlot, a.Cell.Slot)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	input := Input{
		Teachers: []Teacher{
			teacher("t1", &Preference{MaxSlotsPerDay: 3, MaxSlotsPerWeek: 10}),
			teacher("t2", nil, "s2", "s3"),
			teacher("t3", &Preference{Levels: map[Day]map[string]Level{Friday: {"4:00 PM": Unavailable}}}),
		},
		Classrooms: rooms(2),
		Groups:     groups(3),
	}
	engine := NewEngine(Options{})

	first, err := engine.Generate(context.Background(), input)
	require.NoError(t, err)
	second, err := engine.Generate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.Assigned, second.Assigned)
	assert.Equal(t, first.Unfilled, second.Unfilled)
	assert.Equal(t, first.Groups, second.Groups)
}

func TestGenerateTieGoesToFirstTeacher(t *testing.T) {
	result, err := NewEngine(Options{}).Generate(context.Background(), Input{
		Teachers:   []Teacher{teacher("alpha", nil), teacher("beta", nil)},
		Classrooms: rooms(1),
		Groups:     groups(1),
	})
	require.NoError(t, err)

	a, ok := findAssignment(t, result.Groups[0], Monday, "9:00 AM")
	require.True(t, ok)
	assert.Equal(t, "alpha", a.TeacherID)
}

func TestGenerateSkipsWhenTeachersExhausted(t *testing.T) {
	result, err := NewEngine(Options{}).Generate(context.Background(), Input{
		Teachers:   []Teacher{teacher("t1", &Preference{MaxSlotsPerWeek: 1})},
		Classrooms: rooms(1),
		Groups:     groups(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Assigned)
	assert.Equal(t, 34, result.Unfilled)
	assert.Equal(t, 34, result.Groups[0].Unfilled)
}

func TestGenerateContinuesTeacherWithinDay(t *testing.T) {
	result, err := NewEngine(Options{}).Generate(context.Background(), Input{
		Teachers:   []Teacher{teacher("t1", nil), teacher("t2", nil)},
		Classrooms: rooms(1),
		Groups:     groups(1),
	})
	require.NoError(t, err)

	first, ok := findAssignment(t, result.Groups[0], Monday, "9:00 AM")
	require.True(t, ok)
	next, ok := findAssignment(t, result.Groups[0], Monday, "10:00 AM")
	require.True(t, ok)

	assert.Equal(t, first.TeacherID, next.TeacherID)
	assert.True(t, next.Continued)
	assert.Positive(t, result.Continued)
}

func TestGenerateHonoursClassroomUnavailability(t *testing.T) {
	room := Classroom{ID: "room-1", Unavailable: []Cell{{Day: Monday, Slot: "9:00 AM"}}}
	result, err := NewEngine(Options{}).Generate(context.Background(), Input{
		Teachers:   []Teacher{teacher("t1", nil), teacher("t2", nil)},
		Classrooms: []Classroom{room},
		Groups:     groups(1),
	})
	require.NoError(t, err)

	_, ok := findAssignment(t, result.Groups[0], Monday, "9:00 AM")
	assert.False(t, ok)
	assert.Equal(t, 1, result.Groups[0].Unfilled)
}

func TestGenerateCapScope(t *testing.T) {
	input := Input{
		Teachers:   []Teacher{teacher("t1", &Preference{MaxSlotsPerWeek: 3})},
		Classrooms: rooms(2),
		Groups:     groups(2),
	}

	run, err := NewEngine(Options{CapScope: CapScopeRun}).Generate(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Assigned)
	assert.Empty(t, run.Groups[1].Assignments)

	perGroup, err := NewEngine(Options{CapScope: CapScopeGroup}).Generate(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 6, perGroup.Assigned)
	assert.Len(t, perGroup.Groups[1].Assignments, 3)
}

func TestGenerateSortsScheduleByDayThenSlotLabel(t *testing.T) {
	result, err := NewEngine(Options{}).Generate(context.Background(), Input{
		Teachers:   []Teacher{teacher("t1", nil), teacher("t2", nil)},
		Classrooms: rooms(1),
		Groups:     groups(1),
	})
	require.NoError(t, err)

	schedule := result.Groups[0].Assignments
	require.NotEmpty(t, schedule)
	assert.Equal(t, Monday, schedule[0].Cell.Day)
	var monday []string
	for _, a := range schedule {
		if a.Cell.Day == Monday {
			monday = append(monday, a.Cell.Slot)
		}
	}
	assert.Equal(t, []string{"1:00 PM", "10:00 AM", "11:00 AM", "2:00 PM", "3:00 PM", "4:00 PM", "9:00 AM"}, monday)

	less := SlotLabelLess()
	for i := 1; i < len(schedule); i++ {
		prev, cur := schedule[i-1].Cell, schedule[i].Cell
		if prev.DayIndex() == cur.DayIndex() {
			assert.True(t, less(prev.Slot, cur.Slot), "%s before %s", prev.Slot, cur.Slot)
		} else {
			assert.Less(t, prev.DayIndex(), cur.DayIndex())
		}
	}
}

func TestGenerateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(Options{}).Generate(ctx, Input{
		Teachers:   []Teacher{teacher("t1", nil)},
		Classrooms: rooms(1),
		Groups:     groups(1),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

type stubSelector struct{ calls int }

func (s *stubSelector) SelectAssignment(c Cell, group StudentGroup, state *RunState) (Assignment, bool) {
	s.calls++
	return Assignment{}, false
}

func TestGenerateUsesCustomSelector(t *testing.T) {
	selector := &stubSelector{}
	result, err := NewEngine(Options{Selector: selector}).Generate(context.Background(), Input{
		Teachers:   []Teacher{teacher("t1", nil)},
		Classrooms: rooms(1),
		Groups:     groups(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 70, selector.calls)
	assert.Zero(t, result.Assigned)
	assert.Equal(t, 70, result.Unfilled)
}
