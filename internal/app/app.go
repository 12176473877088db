package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"kitaku/internal/api/gemini"
	"kitaku/internal/api/yahoo"
	"kitaku/internal/assemble"
	"kitaku/internal/database"
	"kitaku/internal/recommend"
	"kitaku/internal/timetable"
	"kitaku/internal/weather"
	"kitaku/models"
)

// Run executes the full pipeline for a single advisory: fetch weather
// and timetable concurrently, classify the forecast, match upcoming
// departures, rank them and assemble the payload with narrative text.
func Run(ctx context.Context, cfg *models.Config, now time.Time) (*models.Advisory, error) {
	weatherClient := yahoo.NewClient(cfg)

	type seriesResult struct {
		series *models.ForecastSeries
		err    error
	}
	type entriesResult struct {
		entries []models.TimetableEntry
		err     error
	}

	// Weather fetch and timetable loading are independent I/O.
	seriesCh := make(chan seriesResult, 1)
	entriesCh := make(chan entriesResult, 1)

	go func() {
		s, err := weatherClient.FetchForecast(ctx, cfg.Latitude, cfg.Longitude)
		seriesCh <- seriesResult{s, err}
	}()
	go func() {
		source, err := TimetableSource(cfg)
		if err != nil {
			entriesCh <- entriesResult{nil, err}
			return
		}
		e, err := source.LoadEntries()
		entriesCh <- entriesResult{e, err}
	}()

	sr := <-seriesCh
	if sr.err != nil {
		return nil, sr.err
	}
	er := <-entriesCh
	if er.err != nil {
		return nil, er.err
	}

	pattern, risk, err := weather.Classify(sr.series, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("pattern", string(pattern)).
		Str("risk", string(risk)).
		Bool("sparse", sr.series.Sparse).
		Msg("Classified forecast")

	candidates := timetable.Upcoming(er.entries, models.ClockMinute(now), cfg.HorizonMinutes, cfg)
	options, err := recommend.Recommend(pattern, risk, candidates, sr.series.Sparse, cfg)
	if err != nil {
		return nil, err
	}

	advisory := assemble.Build(sr.series, pattern, risk, options)

	var narrative models.NarrativeClient
	if cfg.GeminiAPIKey != "" {
		narrative = gemini.NewClient(cfg)
	}
	assemble.New(narrative).AttachNarrative(ctx, advisory)

	return advisory, nil
}

// TimetableSource picks Postgres when a DSN is configured, the CSV file
// otherwise.
func TimetableSource(cfg *models.Config) (models.TimetableSource, error) {
	if cfg.TimetableDSN != "" {
		return database.New(cfg.TimetableDSN)
	}
	return timetable.NewCSVSource(cfg.TimetableFile), nil
}
