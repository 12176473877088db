package recommend

import (
	"sort"

	"kitaku/models"
)

// Confidence penalties. Confidence starts at 1.0 and is reduced for
// forecast risk, volatile patterns and sparse provider data, then
// clamped to [0, 1].
const (
	penaltyRiskModerate = 0.15
	penaltyRiskHigh     = 0.35
	penaltyVolatile     = 0.10
	penaltySparse       = 0.10
)

// Recommend combines the classified weather with the candidate
// departures and returns ranked options, soonest leave time first.
// Leaving earlier is strictly preferable when safety is comparable, so
// confidence is informational and never a sort key. The result is capped
// at cfg.MaxOptions with ranks assigned 1..N.
//
// Recommend is a pure function of its inputs: identical calls yield
// identical output and the inputs are never mutated.
func Recommend(pattern models.WeatherPattern, risk models.RiskLevel, candidates []models.DepartureCandidate, sparse bool, cfg *models.Config) ([]models.RecommendationOption, error) {
	// 1. Drop candidates the user can no longer reach
	var feasible []models.DepartureCandidate
	for _, c := range candidates {
		if !c.Infeasible {
			feasible = append(feasible, c)
		}
	}
	if len(feasible) == 0 {
		return nil, models.ErrNoViableDeparture
	}

	// 2. Score each remaining candidate
	confidence := scoreConfidence(pattern, risk, sparse)

	sort.SliceStable(feasible, func(i, j int) bool {
		return feasible[i].LeaveMinute < feasible[j].LeaveMinute
	})

	var options []models.RecommendationOption
	for _, c := range feasible {
		if confidence < cfg.MinConfidence {
			continue
		}
		options = append(options, models.RecommendationOption{
			LeaveTime:      models.FormatClock(c.LeaveMinute),
			TrainDeparture: models.FormatClock(c.DepartureMinute),
			TrainType:      c.Entry.TrainType,
			Destination:    c.Entry.Destination,
			ArrivalTime:    models.FormatClock(c.DepartureMinute + c.Entry.TravelMinutes),
			Confidence:     confidence,
		})
	}
	if len(options) == 0 {
		return nil, models.ErrNoViableDeparture
	}

	// 3. Cap the list and assign ranks in output order
	if len(options) > cfg.MaxOptions {
		options = options[:cfg.MaxOptions]
	}
	for i := range options {
		options[i].Rank = i + 1
	}

	return options, nil
}

// scoreConfidence computes the shared confidence for this evaluation,
// clamped to [0, 1].
func scoreConfidence(pattern models.WeatherPattern, risk models.RiskLevel, sparse bool) float64 {
	confidence := 1.0

	switch risk {
	case models.RiskModerate:
		confidence -= penaltyRiskModerate
	case models.RiskHigh:
		confidence -= penaltyRiskHigh
	}

	if pattern == models.PatternVolatile {
		confidence -= penaltyVolatile
	}
	if sparse {
		confidence -= penaltySparse
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}
