package models

import "context"

type WeatherClient interface {
	FetchForecast(ctx context.Context, lat, lon float64) (*ForecastSeries, error)
}

type TimetableSource interface {
	LoadEntries() ([]TimetableEntry, error)
}

type NarrativeClient interface {
	Render(ctx context.Context, advisory *Advisory) (*Narrative, error)
}
