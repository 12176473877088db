package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"19:17", 19*60 + 17, false},
		{"23:59", 23*60 + 59, false},
		{"24:00", 0, true},
		{"19:60", 0, true},
		{"7:5", 0, true},
		{"", 0, true},
		{"not-a-time", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "19:17", FormatClock(19*60+17))
	assert.Equal(t, "00:10", FormatClock(MinutesPerDay+10))
	assert.Equal(t, "23:55", FormatClock(-5))
}

func TestForecastSeriesCurrentAndPeak(t *testing.T) {
	s := &ForecastSeries{Points: []ForecastPoint{
		{Rainfall: 0.5}, {Rainfall: 2.0}, {Rainfall: 1.0},
	}}
	assert.Equal(t, 0.5, s.Current())
	assert.Equal(t, 2.0, s.Peak())

	empty := &ForecastSeries{}
	assert.Equal(t, 0.0, empty.Current())
	assert.Equal(t, 0.0, empty.Peak())
}
