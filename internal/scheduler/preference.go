package scheduler

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level is a teacher's declared preference for a cell.
type Level int

const (
	Unavailable Level = -1
	Available   Level = 0
	Preferred   Level = 1
)

// Default load caps applied when a teacher has no stored preference.
const (
	DefaultMaxSlotsPerDay  = 6
	DefaultMaxSlotsPerWeek = 30
)

// ParseLevel accepts the numeric form (-1, 0, 1) or the names used by the
// preference form ("not-available", "available", "preferred").
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "-1", "unavailable", "not-available", "not_available":
		return Unavailable, nil
	case "0", "available", "":
		return Available, nil
	case "1", "preferred":
		return Preferred, nil
	}
	return Available, fmt.Errorf("unknown preference level %q", raw)
}

func (l Level) String() string {
	switch l {
	case Unavailable:
		return "not-available"
	case Preferred:
		return "preferred"
	default:
		return "available"
	}
}

// UnmarshalJSON decodes either a number or a level name.
func (l *Level) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < int(Unavailable) || n > int(Preferred) {
			return fmt.Errorf("preference level %d out of range", n)
		}
		*l = Level(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("preference level must be a number or string: %w", err)
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Preference is a teacher's resolved availability and load caps.
type Preference struct {
	Levels          map[Day]map[string]Level
	MaxSlotsPerDay  int
	MaxSlotsPerWeek int
}

// LevelAt returns the level for a cell, AVAILABLE when unspecified.
func (p Preference) LevelAt(day Day, slot string) Level {
	if p.Levels == nil {
		return Available
	}
	if level, ok := p.Levels[day][slot]; ok {
		return level
	}
	return Available
}

// ResolvePreference is the single place where missing records and zero caps
// turn into defaults.
func ResolvePreference(p *Preference) Preference {
	if p == nil {
		return Preference{MaxSlotsPerDay: DefaultMaxSlotsPerDay, MaxSlotsPerWeek: DefaultMaxSlotsPerWeek}
	}
	out := *p
	if out.MaxSlotsPerDay <= 0 {
		out.MaxSlotsPerDay = DefaultMaxSlotsPerDay
	}
	if out.MaxSlotsPerWeek <= 0 {
		out.MaxSlotsPerWeek = DefaultMaxSlotsPerWeek
	}
	return out
}

// PreferenceFromLevels builds a Preference from a stored day->slot->level map.
// Day keys are matched case-insensitively; unknown days and slots are dropped.
func PreferenceFromLevels(g *Grid, raw map[string]map[string]Level, maxPerDay, maxPerWeek int) Preference {
	pref := Preference{
		Levels:          make(map[Day]map[string]Level, len(raw)),
		MaxSlotsPerDay:  maxPerDay,
		MaxSlotsPerWeek: maxPerWeek,
	}
	for rawDay, slots := range raw {
		day, ok := g.ParseDay(rawDay)
		if !ok {
			continue
		}
		for slot, level := range slots {
			if _, ok := g.Cell(day, slot); !ok || g.IsBreak(slot) {
				continue
			}
			if pref.Levels[day] == nil {
				pref.Levels[day] = make(map[string]Level)
			}
			pref.Levels[day][slot] = level
		}
	}
	return pref
}

// PreferenceStore memoizes resolved preferences for the teachers of one run.
type PreferenceStore struct {
	prefs map[string]Preference
}

// NewPreferenceStore resolves every teacher's preference once.
func NewPreferenceStore(teachers []Teacher) *PreferenceStore {
	store := &PreferenceStore{prefs: make(map[string]Preference, len(teachers))}
	for _, t := range teachers {
		store.prefs[t.ID] = ResolvePreference(t.Preference)
	}
	return store
}

// PreferenceOf returns the teacher's level for a cell.
func (s *PreferenceStore) PreferenceOf(teacherID string, c Cell) Level {
	return s.get(teacherID).LevelAt(c.Day, c.Slot)
}

// Caps returns the teacher's daily and weekly caps.
func (s *PreferenceStore) Caps(teacherID string) (perDay, perWeek int) {
	p := s.get(teacherID)
	return p.MaxSlotsPerDay, p.MaxSlotsPerWeek
}

func (s *PreferenceStore) get(teacherID string) Preference {
	if p, ok := s.prefs[teacherID]; ok {
		return p
	}
	return ResolvePreference(nil)
}
