package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	platformhttp "kitaku/internal/platform/http"
	"kitaku/models"
)

const defaultBaseURL = "https://map.yahooapis.jp/weather/V1/place"

// yahooDateLayout is the YDF timestamp format (YYYYMMDDHHMI).
const yahooDateLayout = "200601021504"

// Client fetches short-term precipitation forecasts from the Yahoo
// weather API (10-minute granularity, observation plus one hour ahead).
type Client struct {
	httpClient     *platformhttp.Client
	clientID       string
	baseURL        string
	expectedPoints int
	logger         zerolog.Logger
}

// NewClient creates a new Yahoo weather API client with rate limiting
func NewClient(cfg *models.Config) *Client {
	return &Client{
		httpClient: platformhttp.NewClient(platformhttp.ClientOptions{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		}),
		clientID:       cfg.YahooClientID,
		baseURL:        defaultBaseURL,
		expectedPoints: cfg.ForecastPoints,
		logger:         log.With().Str("component", "yahoo_client").Logger(),
	}
}

// FetchForecast retrieves the precipitation series for the given
// coordinates. Transient failures are retried with backoff; a hard
// failure surfaces as models.ErrWeatherUnavailable.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64) (*models.ForecastSeries, error) {
	coordinates := fmt.Sprintf("%.4f,%.4f", lon, lat)
	url := fmt.Sprintf("%s?coordinates=%s&appid=%s&output=json&interval=10",
		c.baseURL, coordinates, c.clientID)

	c.logger.Debug().Str("coordinates", coordinates).Msg("Fetching precipitation forecast")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Yahoo weather API request failed")
		return nil, fmt.Errorf("%w: %v", models.ErrWeatherUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data models.YahooResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return nil, fmt.Errorf("%w: parsing response: %v", models.ErrWeatherUnavailable, err)
	}

	series, err := BuildSeries(&data, coordinates, c.expectedPoints, time.Now())
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("points", len(series.Points)).
		Bool("sparse", series.Sparse).
		Msg("Fetched precipitation series")
	return series, nil
}

// BuildSeries converts a raw YDF response into a validated ForecastSeries:
// timestamps parsed, duplicates dropped, points sorted ascending, the
// latest observation first and forecast points after it. The series is
// marked sparse when the provider covered the window with fewer forecast
// points than expected.
func BuildSeries(data *models.YahooResponse, coordinates string, expectedPoints int, now time.Time) (*models.ForecastSeries, error) {
	if len(data.Feature) == 0 {
		return nil, fmt.Errorf("%w: empty feature list", models.ErrWeatherUnavailable)
	}

	var observations, forecasts []models.ForecastPoint
	seen := make(map[int64]bool)

	for _, w := range data.Feature[0].Property.WeatherList.Weather {
		ts, err := time.ParseInLocation(yahooDateLayout, w.Date, now.Location())
		if err != nil {
			// Skip records with malformed timestamps rather than failing the fetch.
			continue
		}
		if seen[ts.Unix()] {
			continue
		}
		seen[ts.Unix()] = true

		point := models.ForecastPoint{Timestamp: ts, Rainfall: w.Rainfall}
		switch w.Type {
		case "observation":
			observations = append(observations, point)
		case "forecast":
			forecasts = append(forecasts, point)
		}
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Timestamp.Before(observations[j].Timestamp)
	})
	sort.Slice(forecasts, func(i, j int) bool {
		return forecasts[i].Timestamp.Before(forecasts[j].Timestamp)
	})

	if expectedPoints > 0 && len(forecasts) > expectedPoints {
		forecasts = forecasts[:expectedPoints]
	}

	var points []models.ForecastPoint
	if len(observations) > 0 {
		// The most recent observation is the window's current value.
		points = append(points, observations[len(observations)-1])
	}
	points = append(points, forecasts...)

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no usable weather records", models.ErrWeatherUnavailable)
	}

	return &models.ForecastSeries{
		Points:      points,
		Coordinates: coordinates,
		Sparse:      len(forecasts) < expectedPoints,
	}, nil
}
