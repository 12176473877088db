package timetable

import (
	"sort"

	"kitaku/models"
)

// Upcoming selects the departures inside the half-open window
// [now, now+horizon) and annotates each with its walk-adjusted leave
// time (departure minus walk minus safety buffer). Candidates whose
// leave time has already passed are retained but flagged infeasible so
// the engine can exclude them from ranking while diagnostics still see
// them.
//
// When the window crosses midnight, entries wrap to the next service
// day: each entry is considered at the single occurrence at or after
// now, so nothing at the seam is dropped or duplicated.
func Upcoming(entries []models.TimetableEntry, nowMinute, horizonMinutes int, cfg *models.Config) []models.DepartureCandidate {
	sorted := make([]models.TimetableEntry, len(entries))
	copy(sorted, entries)
	SortEntries(sorted)

	windowEnd := nowMinute + horizonMinutes
	lead := cfg.WalkMinutes + cfg.SafetyBufferMin

	var candidates []models.DepartureCandidate
	for _, entry := range sorted {
		minute, err := models.ParseClock(entry.DepartureTime)
		if err != nil {
			continue
		}

		nextDay := false
		if minute < nowMinute {
			minute += models.MinutesPerDay
			nextDay = true
		}
		if minute >= windowEnd {
			continue
		}

		leave := minute - lead
		candidates = append(candidates, models.DepartureCandidate{
			Entry:           entry,
			DepartureMinute: minute,
			LeaveMinute:     leave,
			Infeasible:      leave < nowMinute,
			NextDay:         nextDay,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DepartureMinute < candidates[j].DepartureMinute
	})
	return candidates
}
