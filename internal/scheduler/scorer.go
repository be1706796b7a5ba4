package scheduler

import "sort"

// Weights scales each term of the candidate score.
type Weights struct {
	Preference      float64
	RemainingWeekly float64
	Consecutive     float64
	SubjectCount    float64
	DailyUnderfill  float64
}

// DefaultWeights returns the stock weighting.
func DefaultWeights() Weights {
	return Weights{
		Preference:      100,
		RemainingWeekly: 30,
		Consecutive:     50,
		SubjectCount:    20,
		DailyUnderfill:  10,
	}
}

// Candidate is an eligible teacher with its score for one cell.
type Candidate struct {
	Teacher *Teacher
	Level   Level
	Score   float64
}

// Scorer decides eligibility and ranks teachers for a cell.
type Scorer struct {
	weights         Weights
	numDays         int
	preferenceFirst bool
}

// NewScorer builds a scorer. When preferenceFirst is set, a higher preference
// level always outranks a lower one and the score orders teachers within a level.
func NewScorer(weights Weights, numDays int, preferenceFirst bool) Scorer {
	if numDays <= 0 {
		numDays = 1
	}
	return Scorer{weights: weights, numDays: numDays, preferenceFirst: preferenceFirst}
}

// Eligible reports whether teacher may take cell given the run state.
func (s Scorer) Eligible(c Cell, t *Teacher, state *RunState) bool {
	if len(t.SubjectIDs) == 0 {
		return false
	}
	if state.prefs.PreferenceOf(t.ID, c) == Unavailable {
		return false
	}
	if state.teacherBusy.isBusy(t.ID, c) {
		return false
	}
	perDay, perWeek := state.prefs.Caps(t.ID)
	if state.load.DailyCount(t.ID, c.day) >= perDay {
		return false
	}
	return state.load.WeeklyCount(t.ID) < perWeek
}

// Score computes the weighted score of an eligible teacher.
func (s Scorer) Score(c Cell, t *Teacher, state *RunState) float64 {
	level := state.prefs.PreferenceOf(t.ID, c)
	_, perWeek := state.prefs.Caps(t.ID)
	daily := state.load.DailyCount(t.ID, c.day)
	weekly := state.load.WeeklyCount(t.ID)

	consecutive := 0.0
	if daily > 0 {
		consecutive = ConsecutiveBonus(state.load.LastSlotIndex(t.ID, c.day), c.slot)
	}
	targetPerDay := float64(perWeek) / float64(s.numDays)

	return float64(level)*s.weights.Preference +
		float64(perWeek-weekly)*s.weights.RemainingWeekly +
		consecutive*s.weights.Consecutive +
		float64(len(t.SubjectIDs))*s.weights.SubjectCount +
		(targetPerDay-float64(daily))*s.weights.DailyUnderfill
}

// ConsecutiveBonus rewards placing a teacher right after their previous slot
// of the day and decays with the size of the gap.
func ConsecutiveBonus(lastSlot, currentSlot int) float64 {
	if lastSlot < 0 {
		return 0
	}
	gap := currentSlot - lastSlot - 1
	switch {
	case gap < 0:
		return 0
	case gap == 0:
		return 2
	default:
		return 2 / float64(gap+1)
	}
}

// Rank returns the eligible teachers for cell, best first. Equal candidates
// keep their input order.
func (s Scorer) Rank(c Cell, teachers []Teacher, state *RunState) []Candidate {
	candidates := make([]Candidate, 0, len(teachers))
	for i := range teachers {
		t := &teachers[i]
		if !s.Eligible(c, t, state) {
			continue
		}
		candidates = append(candidates, Candidate{
			Teacher: t,
			Level:   state.prefs.PreferenceOf(t.ID, c),
			Score:   s.Score(c, t, state),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if s.preferenceFirst && a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.Score > b.Score
	})
	return candidates
}
