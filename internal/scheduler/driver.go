// Package scheduler allocates teachers, subjects and classrooms to the weekly
// grid of every student group.
//
// The allocation is a single greedy pass. It never backtracks, so a cell that
// cannot be covered when it is visited stays empty even if a different earlier
// choice would have covered it.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNoTeachers is returned when no teacher is available for allocation.
	ErrNoTeachers = errors.New("no teachers found")
	// ErrNoClassrooms is returned when no classroom is available for allocation.
	ErrNoClassrooms = errors.New("no classrooms found")
)

// CapScope controls whether load caps span the whole run or each group.
type CapScope string

const (
	CapScopeRun   CapScope = "run"
	CapScopeGroup CapScope = "group"
)

// ParseCapScope maps a config value onto a CapScope, defaulting to CapScopeRun.
func ParseCapScope(raw string) CapScope {
	if CapScope(raw) == CapScopeGroup {
		return CapScopeGroup
	}
	return CapScopeRun
}

// Options tunes an Engine. Zero values pick the defaults.
type Options struct {
	Grid      *Grid
	Weights   *Weights
	CapScope  CapScope
	CellOrder CellOrder
	// ScoreOnly ranks purely by score. By default a higher preference level
	// outranks any score difference.
	ScoreOnly bool
	// Selector replaces the greedy selector when set.
	Selector Selector
	Logger   *zap.Logger
}

// Input is the snapshot a run allocates over. Order is significant: it drives
// tie-breaking, continuation and classroom choice.
type Input struct {
	Teachers   []Teacher
	Classrooms []Classroom
	Groups     []StudentGroup
}

// GroupSchedule is one group's placements sorted for presentation.
type GroupSchedule struct {
	Group       StudentGroup
	Assignments []Assignment
	Unfilled    int
}

// Result summarizes a finished run.
type Result struct {
	Groups        []GroupSchedule
	Assigned      int
	Unfilled      int
	Continued     int
	CellsPerGroup int
	Duration      time.Duration
}

// Engine runs the allocation.
type Engine struct {
	grid      *Grid
	weights   Weights
	capScope  CapScope
	cellOrder CellOrder
	selector  Selector
	logger    *zap.Logger
}

// NewEngine builds an engine from opts.
func NewEngine(opts Options) *Engine {
	grid := opts.Grid
	if grid == nil {
		grid = DefaultGrid()
	}
	weights := DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	selector := opts.Selector
	if selector == nil {
		selector = NewGreedySelector(NewScorer(weights, len(grid.Days()), !opts.ScoreOnly))
	}
	capScope := opts.CapScope
	if capScope == "" {
		capScope = CapScopeRun
	}
	cellOrder := opts.CellOrder
	if cellOrder == "" {
		cellOrder = SlotMajor
	}
	return &Engine{
		grid:      grid,
		weights:   weights,
		capScope:  capScope,
		cellOrder: cellOrder,
		selector:  selector,
		logger:    logger,
	}
}

// Grid returns the grid the engine allocates over.
func (e *Engine) Grid() *Grid { return e.grid }

// Weights returns the scoring weights in effect.
func (e *Engine) Weights() Weights { return e.weights }

// CapScope returns the configured cap scope.
func (e *Engine) CapScope() CapScope { return e.capScope }

// CellOrder returns the configured visiting order.
func (e *Engine) CellOrder() CellOrder { return e.cellOrder }

// Generate allocates every group in input order. The context is checked
// between groups; nothing outside the returned Result is mutated.
func (e *Engine) Generate(ctx context.Context, input Input) (*Result, error) {
	if len(input.Teachers) == 0 {
		return nil, ErrNoTeachers
	}
	if len(input.Classrooms) == 0 {
		return nil, ErrNoClassrooms
	}

	started := time.Now()
	state := NewRunState(e.grid, input.Teachers, input.Classrooms)
	assigner := NewAssigner(e.selector, e.logger)
	cells := e.grid.Cells(e.cellOrder)

	result := &Result{CellsPerGroup: len(cells)}
	for _, group := range input.Groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.capScope == CapScopeGroup {
			state.load.Reset()
		}
		placed := make([]Assignment, 0, len(cells))
		for _, cell := range cells {
			if a, ok := assigner.Assign(cell, group, state); ok {
				placed = append(placed, a)
			}
		}
		e.sortSchedule(placed)
		result.Groups = append(result.Groups, GroupSchedule{
			Group:       group,
			Assignments: placed,
			Unfilled:    state.Unfilled(group.ID),
		})
		result.Assigned += len(placed)
		result.Unfilled += state.Unfilled(group.ID)

		e.logger.Debug("student group allocated",
			zap.String("student_group_id", group.ID),
			zap.Int("assigned", len(placed)),
			zap.Int("unfilled", state.Unfilled(group.ID)),
		)
	}
	result.Continued = state.continued
	result.Duration = time.Since(started)
	return result, nil
}

// sortSchedule orders by day position, then by slot label in collation order.
// Readers that need the grid order should use the slot index.
func (e *Engine) sortSchedule(assignments []Assignment) {
	less := SlotLabelLess()
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i].Cell, assignments[j].Cell
		if a.day != b.day {
			return a.day < b.day
		}
		return less(a.Slot, b.Slot)
	})
}
