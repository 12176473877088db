package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitaku/models"
)

func testConfig() *models.Config {
	return &models.Config{
		MaxOptions:    3,
		MinConfidence: 0.0,
	}
}

func candidate(departure, leave string, infeasible bool) models.DepartureCandidate {
	dep, _ := models.ParseClock(departure)
	lv, _ := models.ParseClock(leave)
	return models.DepartureCandidate{
		Entry: models.TimetableEntry{
			DepartureTime: departure,
			TrainType:     "準急",
			Destination:   "淀屋橋",
			TravelMinutes: 35,
		},
		DepartureMinute: dep,
		LeaveMinute:     lv,
		Infeasible:      infeasible,
	}
}

func TestRecommendRanksByLeaveTime(t *testing.T) {
	candidates := []models.DepartureCandidate{
		candidate("19:32", "19:22", false),
		candidate("19:17", "19:07", false),
	}

	options, err := Recommend(models.PatternClear, models.RiskLow, candidates, false, testConfig())
	require.NoError(t, err)
	require.Len(t, options, 2)

	assert.Equal(t, "19:07", options[0].LeaveTime)
	assert.Equal(t, "19:17", options[0].TrainDeparture)
	assert.Equal(t, 1, options[0].Rank)
	assert.Equal(t, "19:22", options[1].LeaveTime)
	assert.Equal(t, 2, options[1].Rank)
}

func TestRecommendNoFeasibleCandidates(t *testing.T) {
	_, err := Recommend(models.PatternClear, models.RiskLow, nil, false, testConfig())
	require.ErrorIs(t, err, models.ErrNoViableDeparture)

	_, err = Recommend(models.PatternClear, models.RiskLow,
		[]models.DepartureCandidate{candidate("19:05", "18:55", true)}, false, testConfig())
	require.ErrorIs(t, err, models.ErrNoViableDeparture)
}

func TestRecommendExcludesInfeasible(t *testing.T) {
	candidates := []models.DepartureCandidate{
		candidate("19:05", "18:55", true),
		candidate("19:17", "19:07", false),
	}

	options, err := Recommend(models.PatternClear, models.RiskLow, candidates, false, testConfig())
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "19:17", options[0].TrainDeparture)
}

func TestRecommendTruncatesToMaxOptions(t *testing.T) {
	candidates := []models.DepartureCandidate{
		candidate("19:10", "19:00", false),
		candidate("19:20", "19:10", false),
		candidate("19:30", "19:20", false),
		candidate("19:40", "19:30", false),
		candidate("19:50", "19:40", false),
	}

	options, err := Recommend(models.PatternClear, models.RiskLow, candidates, false, testConfig())
	require.NoError(t, err)
	require.Len(t, options, 3)
	for i, opt := range options {
		assert.Equal(t, i+1, opt.Rank)
	}
}

func TestRecommendConfidencePenalties(t *testing.T) {
	tests := []struct {
		name    string
		pattern models.WeatherPattern
		risk    models.RiskLevel
		sparse  bool
		want    float64
	}{
		{"clear low risk", models.PatternClear, models.RiskLow, false, 1.0},
		{"moderate risk", models.PatternRainBuilding, models.RiskModerate, false, 0.85},
		{"high risk", models.PatternRainBuilding, models.RiskHigh, false, 0.65},
		{"volatile adds penalty", models.PatternVolatile, models.RiskHigh, false, 0.55},
		{"sparse adds penalty", models.PatternClear, models.RiskLow, true, 0.90},
		{"everything stacked", models.PatternVolatile, models.RiskHigh, true, 0.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := Recommend(tt.pattern, tt.risk,
				[]models.DepartureCandidate{candidate("19:17", "19:07", false)}, tt.sparse, testConfig())
			require.NoError(t, err)
			require.Len(t, options, 1)
			assert.InDelta(t, tt.want, options[0].Confidence, 1e-9)
		})
	}
}

func TestRecommendConfidenceAlwaysInRange(t *testing.T) {
	patterns := []models.WeatherPattern{
		models.PatternClear, models.PatternRainBuilding,
		models.PatternRainClearing, models.PatternVolatile,
	}
	risks := []models.RiskLevel{models.RiskLow, models.RiskModerate, models.RiskHigh}

	for _, pattern := range patterns {
		for _, risk := range risks {
			for _, sparse := range []bool{false, true} {
				options, err := Recommend(pattern, risk,
					[]models.DepartureCandidate{candidate("19:17", "19:07", false)}, sparse, testConfig())
				require.NoError(t, err)
				for _, opt := range options {
					assert.GreaterOrEqual(t, opt.Confidence, 0.0)
					assert.LessOrEqual(t, opt.Confidence, 1.0)
				}
			}
		}
	}
}

func TestRecommendSparsePenaltyIsExact(t *testing.T) {
	candidates := []models.DepartureCandidate{candidate("19:17", "19:07", false)}

	full, err := Recommend(models.PatternClear, models.RiskLow, candidates, false, testConfig())
	require.NoError(t, err)
	sparse, err := Recommend(models.PatternClear, models.RiskLow, candidates, true, testConfig())
	require.NoError(t, err)

	assert.InDelta(t, penaltySparse, full[0].Confidence-sparse[0].Confidence, 1e-9)
}

func TestRecommendConfidenceFloor(t *testing.T) {
	cfg := testConfig()
	cfg.MinConfidence = 0.7

	// Stacked penalties drop confidence to 0.45, below the floor.
	_, err := Recommend(models.PatternVolatile, models.RiskHigh,
		[]models.DepartureCandidate{candidate("19:17", "19:07", false)}, true, cfg)
	require.ErrorIs(t, err, models.ErrNoViableDeparture)
}

func TestRecommendIdempotent(t *testing.T) {
	candidates := []models.DepartureCandidate{
		candidate("19:32", "19:22", false),
		candidate("19:17", "19:07", false),
	}

	first, err := Recommend(models.PatternVolatile, models.RiskModerate, candidates, true, testConfig())
	require.NoError(t, err)
	second, err := Recommend(models.PatternVolatile, models.RiskModerate, candidates, true, testConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommendDoesNotMutateInput(t *testing.T) {
	candidates := []models.DepartureCandidate{
		candidate("19:32", "19:22", false),
		candidate("19:17", "19:07", false),
	}
	original := make([]models.DepartureCandidate, len(candidates))
	copy(original, candidates)

	_, err := Recommend(models.PatternClear, models.RiskLow, candidates, false, testConfig())
	require.NoError(t, err)
	assert.Equal(t, original, candidates)
}

func TestRecommendArrivalTime(t *testing.T) {
	options, err := Recommend(models.PatternClear, models.RiskLow,
		[]models.DepartureCandidate{candidate("19:17", "19:07", false)}, false, testConfig())
	require.NoError(t, err)
	// 19:17 departure plus 35 minutes of travel.
	assert.Equal(t, "19:52", options[0].ArrivalTime)
}
