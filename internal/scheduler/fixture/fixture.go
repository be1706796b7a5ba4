// Package fixture loads allocation inputs from YAML files so the engine can
// run without a database.
package fixture

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
)

// Teacher is a teacher entry with its optional preference.
type Teacher struct {
	ID              string                       `yaml:"id" validate:"required"`
	Name            string                       `yaml:"name"`
	Subjects        []string                     `yaml:"subjects"`
	MaxSlotsPerDay  int                          `yaml:"maxSlotsPerDay,omitempty" validate:"omitempty,min=1,max=8"`
	MaxSlotsPerWeek int                          `yaml:"maxSlotsPerWeek,omitempty" validate:"omitempty,min=1,max=40"`
	Preferences     map[string]map[string]string `yaml:"preferences,omitempty"`
}

// BlockedCell marks a classroom as unusable in one cell.
type BlockedCell struct {
	Day  string `yaml:"day" validate:"required"`
	Slot string `yaml:"slot" validate:"required"`
}

// Classroom is a classroom entry.
type Classroom struct {
	ID          string        `yaml:"id" validate:"required"`
	Name        string        `yaml:"name"`
	Capacity    int           `yaml:"capacity,omitempty" validate:"omitempty,min=0"`
	Equipment   []string      `yaml:"equipment,omitempty"`
	Unavailable []BlockedCell `yaml:"unavailable,omitempty" validate:"dive"`
}

// Group is a student group entry.
type Group struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name"`
}

// Options mirrors the engine options a fixture may pin.
type Options struct {
	CapScope  string `yaml:"capScope,omitempty" validate:"omitempty,oneof=run group"`
	CellOrder string `yaml:"cellOrder,omitempty" validate:"omitempty,oneof=slot-major day-major"`
	ScoreOnly bool   `yaml:"scoreOnly,omitempty"`
}

// Fixture is the root document.
type Fixture struct {
	Options    Options     `yaml:"options"`
	Teachers   []Teacher   `yaml:"teachers" validate:"dive"`
	Classrooms []Classroom `yaml:"classrooms" validate:"dive"`
	Groups     []Group     `yaml:"groups" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Load reads and validates a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates fixture YAML.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("fixture validation failed: %w", err)
	}
	return &f, nil
}

// Input converts the fixture into engine input over grid.
func (f *Fixture) Input(grid *scheduler.Grid) (scheduler.Input, error) {
	var input scheduler.Input

	for _, t := range f.Teachers {
		levels := make(map[string]map[string]scheduler.Level, len(t.Preferences))
		for day, slots := range t.Preferences {
			levels[day] = make(map[string]scheduler.Level, len(slots))
			for slot, raw := range slots {
				level, err := scheduler.ParseLevel(raw)
				if err != nil {
					return scheduler.Input{}, fmt.Errorf("teacher %s %s %s: %w", t.ID, day, slot, err)
				}
				levels[day][slot] = level
			}
		}
		pref := scheduler.PreferenceFromLevels(grid, levels, t.MaxSlotsPerDay, t.MaxSlotsPerWeek)
		name := t.Name
		if name == "" {
			name = t.ID
		}
		input.Teachers = append(input.Teachers, scheduler.Teacher{
			ID:         t.ID,
			Name:       name,
			SubjectIDs: t.Subjects,
			Preference: &pref,
		})
	}

	for _, c := range f.Classrooms {
		room := scheduler.Classroom{ID: c.ID, Name: c.Name, Capacity: c.Capacity, Equipment: c.Equipment}
		if room.Name == "" {
			room.Name = c.ID
		}
		for _, blocked := range c.Unavailable {
			day, ok := grid.ParseDay(blocked.Day)
			if !ok {
				return scheduler.Input{}, fmt.Errorf("classroom %s: unknown day %q", c.ID, blocked.Day)
			}
			cell, ok := grid.Cell(day, blocked.Slot)
			if !ok {
				return scheduler.Input{}, fmt.Errorf("classroom %s: unknown time slot %q", c.ID, blocked.Slot)
			}
			room.Unavailable = append(room.Unavailable, cell)
		}
		input.Classrooms = append(input.Classrooms, room)
	}

	for _, g := range f.Groups {
		name := g.Name
		if name == "" {
			name = g.ID
		}
		input.Groups = append(input.Groups, scheduler.StudentGroup{ID: g.ID, Name: name})
	}
	return input, nil
}

// EngineOptions returns the engine options pinned by the fixture.
func (f *Fixture) EngineOptions() scheduler.Options {
	opts := scheduler.Options{ScoreOnly: f.Options.ScoreOnly}
	if f.Options.CapScope != "" {
		opts.CapScope = scheduler.ParseCapScope(f.Options.CapScope)
	}
	if f.Options.CellOrder != "" {
		opts.CellOrder = scheduler.ParseCellOrder(f.Options.CellOrder)
	}
	return opts
}
