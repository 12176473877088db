package timetable

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kitaku/models"
)

// CSVSource loads the station timetable from a local CSV file with a
// header row and one train per row: departure time (HH:MM), train type,
// destination.
type CSVSource struct {
	path   string
	logger zerolog.Logger
}

// NewCSVSource creates a timetable source reading from the given file
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: log.With().Str("component", "timetable_csv").Logger(),
	}
}

// LoadEntries reads and validates the timetable. Malformed rows are
// logged and skipped; zero valid rows is an error.
func (s *CSVSource) LoadEntries() ([]models.TimetableEntry, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", models.ErrTimetableUnavailable, s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", models.ErrTimetableUnavailable, s.path, err)
	}

	var entries []models.TimetableEntry
	for i, row := range records {
		if i == 0 {
			// Header row
			continue
		}
		entry, err := parseRow(row)
		if err != nil {
			s.logger.Warn().Int("row", i+1).Err(err).Msg("Skipping timetable row")
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no valid rows in %s", models.ErrTimetableUnavailable, s.path)
	}

	SortEntries(entries)
	s.logger.Info().Int("count", len(entries)).Msg("Loaded timetable")
	return entries, nil
}

func parseRow(row []string) (models.TimetableEntry, error) {
	if len(row) < 3 {
		return models.TimetableEntry{}, fmt.Errorf("expected 3 columns, got %d", len(row))
	}

	departure := strings.TrimSpace(row[0])
	trainType := strings.TrimSpace(row[1])
	destination := strings.TrimSpace(row[2])

	if _, err := models.ParseClock(departure); err != nil {
		return models.TimetableEntry{}, err
	}

	return models.TimetableEntry{
		DepartureTime: departure,
		TrainType:     trainType,
		Destination:   destination,
		TravelMinutes: EstimateTravelMinutes(trainType, destination),
	}, nil
}

// SortEntries orders entries ascending by departure time. Entries with an
// unparseable time sort last; the loader never produces those, but the
// matcher also sorts defensively before windowing.
func SortEntries(entries []models.TimetableEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, errA := models.ParseClock(entries[i].DepartureTime)
		b, errB := models.ParseClock(entries[j].DepartureTime)
		if errA != nil {
			return false
		}
		if errB != nil {
			return true
		}
		return a < b
	})
}

// Station-to-destination base travel minutes on the Keihan main line from
// Neyagawashi, adjusted by a per-service speed factor.
var baseTravelMinutes = map[string]int{
	"淀屋橋": 35,
	"中之島": 45,
	"守口市": 8,
}

var speedFactors = map[string]float64{
	"通勤快急": 0.8,
	"快速急行": 0.85,
	"急行":   0.9,
	"区間急行": 0.95,
	"準急":   1.0,
	"通勤準急": 1.05,
	"普通":   1.2,
	"ライナー": 0.75,
}

// EstimateTravelMinutes estimates the ride duration for a service type
// and destination.
func EstimateTravelMinutes(trainType, destination string) int {
	base, ok := baseTravelMinutes[destination]
	if !ok {
		base = 35
	}
	factor, ok := speedFactors[trainType]
	if !ok {
		factor = 1.0
	}
	return int(float64(base) * factor)
}
