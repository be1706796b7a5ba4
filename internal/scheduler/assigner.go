package scheduler

import "go.uber.org/zap"

// Teacher is an allocatable teacher. SubjectIDs keeps the stored order; the
// first entry is the subject taught in every assigned slot.
type Teacher struct {
	ID         string
	Name       string
	SubjectIDs []string
	Preference *Preference
}

// Classroom is an allocatable room. Unavailable cells are blocked at run start.
type Classroom struct {
	ID          string
	Name        string
	Capacity    int
	Equipment   []string
	Unavailable []Cell
}

// StudentGroup receives one allocation pass.
type StudentGroup struct {
	ID   string
	Name string
}

// Assignment is a committed (group, cell) -> (teacher, subject, classroom) placement.
type Assignment struct {
	Cell        Cell
	GroupID     string
	TeacherID   string
	SubjectID   string
	ClassroomID string
	// Continued marks placements taken by the continuation rule rather than by ranking.
	Continued bool
}

// RunState owns every mutable structure of one generation run.
type RunState struct {
	grid        *Grid
	teachers    []Teacher
	classrooms  []Classroom
	prefs       *PreferenceStore
	load        *LoadTracker
	roomBusy    *occupancy
	teacherBusy *occupancy

	assignments []Assignment
	unfilled    map[string]int
	continued   int
}

// NewRunState builds the state for a run and blocks statically unavailable
// classroom cells.
func NewRunState(g *Grid, teachers []Teacher, classrooms []Classroom) *RunState {
	state := &RunState{
		grid:        g,
		teachers:    teachers,
		classrooms:  classrooms,
		prefs:       NewPreferenceStore(teachers),
		load:        NewLoadTracker(len(g.Days())),
		roomBusy:    newOccupancy(g),
		teacherBusy: newOccupancy(g),
		unfilled:    make(map[string]int),
	}
	for _, room := range classrooms {
		for _, blocked := range room.Unavailable {
			if cell, ok := g.Cell(blocked.Day, blocked.Slot); ok {
				state.roomBusy.mark(room.ID, cell)
			}
		}
	}
	return state
}

// Teachers returns the teachers in iteration order.
func (s *RunState) Teachers() []Teacher { return s.teachers }

// Load exposes the run's load tracker.
func (s *RunState) Load() *LoadTracker { return s.load }

// Preferences exposes the run's preference store.
func (s *RunState) Preferences() *PreferenceStore { return s.prefs }

// ClassroomFree reports whether the classroom is unbooked in cell.
func (s *RunState) ClassroomFree(classroomID string, c Cell) bool {
	return !s.roomBusy.isBusy(classroomID, c)
}

// TeacherFree reports whether the teacher is unbooked in cell for any group.
func (s *RunState) TeacherFree(teacherID string, c Cell) bool {
	return !s.teacherBusy.isBusy(teacherID, c)
}

// FirstFreeClassroom returns the first classroom, in input order, free in cell.
func (s *RunState) FirstFreeClassroom(c Cell) (*Classroom, bool) {
	for i := range s.classrooms {
		if s.ClassroomFree(s.classrooms[i].ID, c) {
			return &s.classrooms[i], true
		}
	}
	return nil, false
}

// Assignments returns every committed placement in commit order.
func (s *RunState) Assignments() []Assignment { return s.assignments }

// Unfilled returns the number of skipped cells for a group.
func (s *RunState) Unfilled(groupID string) int { return s.unfilled[groupID] }

func (s *RunState) commit(a Assignment) {
	s.assignments = append(s.assignments, a)
	s.load.Record(a.TeacherID, a.Cell.day, a.Cell.slot)
	s.roomBusy.mark(a.ClassroomID, a.Cell)
	s.teacherBusy.mark(a.TeacherID, a.Cell)
	if a.Continued {
		s.continued++
	}
}

func (s *RunState) skip(groupID string) {
	s.unfilled[groupID]++
}

// Selector picks the placement for one cell of a group. It must not mutate state.
type Selector interface {
	SelectAssignment(c Cell, group StudentGroup, state *RunState) (Assignment, bool)
}

// GreedySelector prefers continuing a teacher already working that day and
// otherwise takes the best ranked candidate.
type GreedySelector struct {
	scorer Scorer
}

// NewGreedySelector returns the default selector.
func NewGreedySelector(scorer Scorer) *GreedySelector {
	return &GreedySelector{scorer: scorer}
}

// SelectAssignment implements Selector.
func (g *GreedySelector) SelectAssignment(c Cell, group StudentGroup, state *RunState) (Assignment, bool) {
	room, ok := state.FirstFreeClassroom(c)
	if !ok {
		return Assignment{}, false
	}
	if t, ok := g.tryContinue(c, state); ok {
		return newAssignment(c, group, t, room, true), true
	}
	ranked := g.scorer.Rank(c, state.teachers, state)
	if len(ranked) == 0 {
		return Assignment{}, false
	}
	return newAssignment(c, group, ranked[0].Teacher, room, false), true
}

func (g *GreedySelector) tryContinue(c Cell, state *RunState) (*Teacher, bool) {
	for i := range state.teachers {
		t := &state.teachers[i]
		if state.load.DailyCount(t.ID, c.day) == 0 {
			continue
		}
		if g.scorer.Eligible(c, t, state) {
			return t, true
		}
	}
	return nil, false
}

func newAssignment(c Cell, group StudentGroup, t *Teacher, room *Classroom, continued bool) Assignment {
	return Assignment{
		Cell:        c,
		GroupID:     group.ID,
		TeacherID:   t.ID,
		SubjectID:   t.SubjectIDs[0],
		ClassroomID: room.ID,
		Continued:   continued,
	}
}

// Assigner runs the select, commit or skip step for each cell.
type Assigner struct {
	selector Selector
	logger   *zap.Logger
}

// NewAssigner wires a selector. A nil logger discards output.
func NewAssigner(selector Selector, logger *zap.Logger) *Assigner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assigner{selector: selector, logger: logger}
}

// Assign fills cell for group, returning false when the cell stays empty.
func (a *Assigner) Assign(c Cell, group StudentGroup, state *RunState) (Assignment, bool) {
	assignment, ok := a.selector.SelectAssignment(c, group, state)
	if !ok {
		state.skip(group.ID)
		a.logger.Debug("cell left unfilled",
			zap.String("student_group_id", group.ID),
			zap.String("day", string(c.Day)),
			zap.String("time_slot", c.Slot),
		)
		return Assignment{}, false
	}
	state.commit(assignment)
	return assignment, true
}
