package scheduler

import (
	"fmt"
	"strings"
)

// Day names a weekday of the teaching grid.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
)

// BreakSlot is never assignable.
const BreakSlot = "12:00 PM"

var (
	defaultDays  = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}
	defaultSlots = []string{
		"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
		"1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM",
	}
)

// CellOrder selects how the driver walks the grid.
type CellOrder string

const (
	// SlotMajor visits every day for slot 0, then every day for slot 1, and so on.
	SlotMajor CellOrder = "slot-major"
	// DayMajor visits every slot of Monday before moving to Tuesday.
	DayMajor CellOrder = "day-major"
)

// ParseCellOrder maps a config value onto a CellOrder, defaulting to SlotMajor.
func ParseCellOrder(raw string) CellOrder {
	if CellOrder(strings.ToLower(strings.TrimSpace(raw))) == DayMajor {
		return DayMajor
	}
	return SlotMajor
}

// Cell is one (day, slot) grid position.
type Cell struct {
	Day  Day
	Slot string
	day  int
	slot int
}

// DayIndex returns the position of the cell's day in the grid.
func (c Cell) DayIndex() int { return c.day }

// SlotIndex returns the position of the cell's slot in the grid.
func (c Cell) SlotIndex() int { return c.slot }

func (c Cell) String() string {
	return fmt.Sprintf("%s %s", c.Day, c.Slot)
}

// Grid is the canonical enumeration of days and time slots for a run.
type Grid struct {
	days      []Day
	slots     []string
	breakSlot string
	dayIndex  map[Day]int
	slotIndex map[string]int
}

// DefaultGrid returns the Monday-Friday, 9 AM-4 PM grid with a noon break.
func DefaultGrid() *Grid {
	g, _ := NewGrid(defaultDays, defaultSlots, BreakSlot)
	return g
}

// NewGrid validates and indexes a custom grid. breakSlot may be empty.
func NewGrid(days []Day, slots []string, breakSlot string) (*Grid, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("grid requires at least one day")
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("grid requires at least one time slot")
	}
	g := &Grid{
		days:      append([]Day(nil), days...),
		slots:     append([]string(nil), slots...),
		breakSlot: breakSlot,
		dayIndex:  make(map[Day]int, len(days)),
		slotIndex: make(map[string]int, len(slots)),
	}
	for i, d := range days {
		if _, dup := g.dayIndex[d]; dup {
			return nil, fmt.Errorf("duplicate day %q", d)
		}
		g.dayIndex[d] = i
	}
	for i, s := range slots {
		if _, dup := g.slotIndex[s]; dup {
			return nil, fmt.Errorf("duplicate time slot %q", s)
		}
		g.slotIndex[s] = i
	}
	if breakSlot != "" {
		if _, ok := g.slotIndex[breakSlot]; !ok {
			return nil, fmt.Errorf("break slot %q is not part of the grid", breakSlot)
		}
	}
	return g, nil
}

// Days returns the ordered days.
func (g *Grid) Days() []Day { return g.days }

// Slots returns the ordered time slots, break included.
func (g *Grid) Slots() []string { return g.slots }

// BreakSlot returns the designated break slot, or "" when there is none.
func (g *Grid) BreakSlot() string { return g.breakSlot }

// IsBreak reports whether slot is the break slot.
func (g *Grid) IsBreak(slot string) bool {
	return g.breakSlot != "" && slot == g.breakSlot
}

// DayOrder returns the position of d, or -1 when d is not on the grid.
func (g *Grid) DayOrder(d Day) int {
	if idx, ok := g.dayIndex[d]; ok {
		return idx
	}
	return -1
}

// Cell resolves a (day, slot) pair. Break slots resolve as well; callers that
// allocate must check IsBreak.
func (g *Grid) Cell(day Day, slot string) (Cell, bool) {
	d, ok := g.dayIndex[day]
	if !ok {
		return Cell{}, false
	}
	s, ok := g.slotIndex[slot]
	if !ok {
		return Cell{}, false
	}
	return Cell{Day: day, Slot: slot, day: d, slot: s}, true
}

// Cells enumerates every assignable cell in the requested visiting order.
func (g *Grid) Cells(order CellOrder) []Cell {
	cells := make([]Cell, 0, len(g.days)*len(g.slots))
	if order == DayMajor {
		for d, day := range g.days {
			for s, slot := range g.slots {
				if g.IsBreak(slot) {
					continue
				}
				cells = append(cells, Cell{Day: day, Slot: slot, day: d, slot: s})
			}
		}
		return cells
	}
	for s, slot := range g.slots {
		if g.IsBreak(slot) {
			continue
		}
		for d, day := range g.days {
			cells = append(cells, Cell{Day: day, Slot: slot, day: d, slot: s})
		}
	}
	return cells
}

// ParseDay matches a day name case-insensitively against the grid.
func (g *Grid) ParseDay(raw string) (Day, bool) {
	raw = strings.TrimSpace(raw)
	for _, d := range g.days {
		if strings.EqualFold(string(d), raw) {
			return d, true
		}
	}
	return "", false
}

// occupancy is a per-resource boolean board indexed by [day][slot].
type occupancy struct {
	busy map[string][][]bool
	days int
	slot int
}

func newOccupancy(g *Grid) *occupancy {
	return &occupancy{busy: make(map[string][][]bool), days: len(g.days), slot: len(g.slots)}
}

func (o *occupancy) board(id string) [][]bool {
	b, ok := o.busy[id]
	if !ok {
		b = make([][]bool, o.days)
		for i := range b {
			b[i] = make([]bool, o.slot)
		}
		o.busy[id] = b
	}
	return b
}

func (o *occupancy) isBusy(id string, c Cell) bool {
	b, ok := o.busy[id]
	if !ok {
		return false
	}
	return b[c.day][c.slot]
}

func (o *occupancy) mark(id string, c Cell) {
	o.board(id)[c.day][c.slot] = true
}
