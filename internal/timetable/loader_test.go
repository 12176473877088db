package timetable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitaku/models"
)

func writeTimetable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timetable.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEntries(t *testing.T) {
	path := writeTimetable(t, `departure_time,train_type,destination
19:32,準急,淀屋橋
19:17,急行,淀屋橋
19:45,普通,守口市
`)

	entries, err := NewCSVSource(path).LoadEntries()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Sorted by departure time regardless of file order.
	assert.Equal(t, "19:17", entries[0].DepartureTime)
	assert.Equal(t, "19:32", entries[1].DepartureTime)
	assert.Equal(t, "19:45", entries[2].DepartureTime)

	assert.Equal(t, "急行", entries[0].TrainType)
	assert.Equal(t, EstimateTravelMinutes("急行", "淀屋橋"), entries[0].TravelMinutes)
}

func TestLoadEntriesSkipsMalformedRows(t *testing.T) {
	path := writeTimetable(t, `departure_time,train_type,destination
19:17,急行,淀屋橋
not-a-time,準急,淀屋橋
19:32
19:40,準急,淀屋橋
`)

	entries, err := NewCSVSource(path).LoadEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "19:17", entries[0].DepartureTime)
	assert.Equal(t, "19:40", entries[1].DepartureTime)
}

func TestLoadEntriesNoValidRows(t *testing.T) {
	path := writeTimetable(t, "departure_time,train_type,destination\n")

	_, err := NewCSVSource(path).LoadEntries()
	require.ErrorIs(t, err, models.ErrTimetableUnavailable)
}

func TestLoadEntriesMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv")).LoadEntries()
	require.ErrorIs(t, err, models.ErrTimetableUnavailable)
}

func TestEstimateTravelMinutes(t *testing.T) {
	tests := []struct {
		trainType   string
		destination string
		want        int
	}{
		{"準急", "淀屋橋", 35},
		{"急行", "淀屋橋", 31},
		{"普通", "守口市", 9},
		{"通勤快急", "中之島", 36},
		{"不明", "どこか", 35}, // unknown service and destination fall back to defaults
	}

	for _, tt := range tests {
		t.Run(tt.trainType+"_"+tt.destination, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTravelMinutes(tt.trainType, tt.destination))
		})
	}
}
