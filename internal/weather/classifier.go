package weather

import (
	"kitaku/models"
)

// Classify assigns exactly one weather pattern and a risk level to a
// precipitation series. The series must contain at least one point;
// sparse series classify normally and the caller propagates the sparse
// flag to the recommendation engine.
func Classify(series *models.ForecastSeries, cfg *models.Config) (models.WeatherPattern, models.RiskLevel, error) {
	if series == nil || len(series.Points) == 0 {
		return "", "", models.ErrInsufficientData
	}

	current := series.Current()
	peak := series.Peak()
	last := series.Points[len(series.Points)-1].Rainfall

	// 1. No meaningful precipitation anywhere in the window
	if peak < cfg.RainMinMM {
		return models.PatternClear, models.RiskLow, nil
	}

	risk := riskLevel(current, peak, cfg)

	// 2. Trend shape over the window
	nonDecreasing := true
	nonIncreasing := true
	crossings := 0
	for i := 0; i+1 < len(series.Points); i++ {
		a := series.Points[i].Rainfall
		b := series.Points[i+1].Rainfall
		if b < a {
			nonDecreasing = false
		}
		if b > a {
			nonIncreasing = false
		}
		if (a >= cfg.RainMinMM) != (b >= cfg.RainMinMM) {
			crossings++
		}
	}

	switch {
	case nonDecreasing && current < cfg.RainMinMM:
		// Dry now, rain arriving before the window ends
		return models.PatternRainBuilding, risk, nil
	case nonIncreasing && current >= cfg.RainMinMM && last < cfg.RainMinMM:
		// Raining now, ending within the window
		return models.PatternRainClearing, risk, nil
	case crossings > 1:
		// Precipitation flips around the threshold more than once
		return models.PatternVolatile, risk, nil
	}

	// 3. Persistent precipitation with no clear direction. The cautious
	// policy reports it as still building; otherwise a peak already behind
	// us reads as clearing.
	if cfg.FlatPatternCaution || last > current {
		return models.PatternRainBuilding, risk, nil
	}
	return models.PatternRainClearing, risk, nil
}

// riskLevel derives the ordinal risk from current and peak precipitation.
func riskLevel(current, peak float64, cfg *models.Config) models.RiskLevel {
	if peak >= cfg.RainRiskMM || current >= cfg.RainRiskMM {
		return models.RiskHigh
	}
	if peak >= cfg.RainMinMM {
		return models.RiskModerate
	}
	return models.RiskLow
}
