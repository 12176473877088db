package assemble

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"kitaku/models"
)

// Assembler packages the engine output into the advisory payload and
// attaches the rendered narrative. The payload is complete and
// displayable even when the narrative service is unavailable.
type Assembler struct {
	narrative models.NarrativeClient
	logger    zerolog.Logger
}

// New creates an Assembler. narrative may be nil, in which case the
// deterministic fallback text is always used.
func New(narrative models.NarrativeClient) *Assembler {
	return &Assembler{
		narrative: narrative,
		logger:    log.With().Str("component", "assembler").Logger(),
	}
}

// Build constructs the advisory payload from the evaluation results.
func Build(series *models.ForecastSeries, pattern models.WeatherPattern, risk models.RiskLevel, options []models.RecommendationOption) *models.Advisory {
	return &models.Advisory{
		GeneratedAt:     time.Now(),
		Pattern:         pattern,
		Risk:            risk,
		CurrentRainfall: series.Current(),
		PeakRainfall:    series.Peak(),
		SparseData:      series.Sparse,
		Options:         options,
	}
}

// AttachNarrative renders the advisory text and attaches it to the
// payload, falling back to a template message when rendering fails.
func (a *Assembler) AttachNarrative(ctx context.Context, advisory *models.Advisory) {
	if a.narrative != nil {
		n, err := a.narrative.Render(ctx, advisory)
		if err == nil {
			advisory.Narrative = n
			return
		}
		a.logger.Warn().Err(err).Msg("Narrative rendering failed, using fallback text")
	}
	advisory.Narrative = Fallback(advisory)
}

// Fallback builds a deterministic narrative from the pattern and risk
// alone, used when the text-generation service is down or unconfigured.
func Fallback(advisory *models.Advisory) *models.Narrative {
	summaries := map[models.WeatherPattern]string{
		models.PatternClear:        "No meaningful rain expected within the hour.",
		models.PatternRainBuilding: "Rain is expected to build over the next hour.",
		models.PatternRainClearing: "Current rain should clear within the hour.",
		models.PatternVolatile:     "Precipitation is unstable over the next hour.",
	}

	n := &models.Narrative{
		Summary: summaries[advisory.Pattern],
		Reason:  "Recommendation based on the station timetable and the short-term precipitation forecast.",
	}
	if len(advisory.Options) > 0 {
		n.Reason = fmt.Sprintf("Leaving at %s catches the %s %s to %s.",
			advisory.Options[0].LeaveTime,
			advisory.Options[0].TrainDeparture,
			advisory.Options[0].TrainType,
			advisory.Options[0].Destination)
	}

	switch advisory.Risk {
	case models.RiskHigh:
		n.Warning = fmt.Sprintf("Heavy rain risk: up to %.1f mm/h forecast. Take an umbrella.", advisory.PeakRainfall)
	case models.RiskModerate:
		n.Warning = "Some rain is likely on the walk to the station."
	}
	if advisory.SparseData {
		n.Advice = "Forecast data was sparse; confidence is reduced."
	}
	return n
}
