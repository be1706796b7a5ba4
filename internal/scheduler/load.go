package scheduler

type dayLoad struct {
	count int
	last  int
}

type teacherLoad struct {
	daily  []dayLoad
	weekly int
}

// LoadTracker counts assignments per teacher per day and per week.
type LoadTracker struct {
	numDays int
	loads   map[string]*teacherLoad
}

// NewLoadTracker creates an empty tracker for a grid with numDays days.
func NewLoadTracker(numDays int) *LoadTracker {
	return &LoadTracker{numDays: numDays, loads: make(map[string]*teacherLoad)}
}

func (t *LoadTracker) load(teacherID string) *teacherLoad {
	l, ok := t.loads[teacherID]
	if !ok {
		l = &teacherLoad{daily: make([]dayLoad, t.numDays)}
		for i := range l.daily {
			l.daily[i].last = -1
		}
		t.loads[teacherID] = l
	}
	return l
}

// DailyCount returns the assignments of teacherID on day.
func (t *LoadTracker) DailyCount(teacherID string, day int) int {
	if l, ok := t.loads[teacherID]; ok {
		return l.daily[day].count
	}
	return 0
}

// WeeklyCount returns the assignments of teacherID across the week.
func (t *LoadTracker) WeeklyCount(teacherID string) int {
	if l, ok := t.loads[teacherID]; ok {
		return l.weekly
	}
	return 0
}

// LastSlotIndex returns the index of the last slot assigned on day, or -1.
func (t *LoadTracker) LastSlotIndex(teacherID string, day int) int {
	if l, ok := t.loads[teacherID]; ok {
		return l.daily[day].last
	}
	return -1
}

// Record counts one assignment. Callers check caps first.
func (t *LoadTracker) Record(teacherID string, day, slot int) {
	l := t.load(teacherID)
	l.daily[day].count++
	l.daily[day].last = slot
	l.weekly++
}

// Reset discards every counter.
func (t *LoadTracker) Reset() {
	t.loads = make(map[string]*teacherLoad)
}
