package models

import (
	"time"
)

// Config holds all application configuration
type Config struct {
	YahooClientID string `env:"YAHOO_CLIENT_ID" envDefault:"-"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY" envDefault:"-"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash-lite"`

	Latitude  float64 `env:"DEFAULT_LATITUDE" envDefault:"34.7619"`
	Longitude float64 `env:"DEFAULT_LONGITUDE" envDefault:"135.6283"`

	TimetableFile string `env:"TIMETABLE_FILE" envDefault:"keihan_neyagawa.csv"`
	TimetableDSN  string `env:"TIMETABLE_DSN" envDefault:""`

	WalkMinutes     int `env:"WALK_MINUTES" envDefault:"10"`
	SafetyBufferMin int `env:"SAFETY_BUFFER_MINUTES" envDefault:"0"`
	HorizonMinutes  int `env:"HORIZON_MINUTES" envDefault:"60"`
	ForecastPoints  int `env:"FORECAST_POINTS" envDefault:"6"`

	RainMinMM  float64 `env:"RAIN_MIN_MM" envDefault:"0.1"`
	RainRiskMM float64 `env:"RAIN_RISK_MM" envDefault:"1.0"`

	MaxOptions         int     `env:"MAX_OPTIONS" envDefault:"3"`
	MinConfidence      float64 `env:"MIN_CONFIDENCE" envDefault:"0.0"`
	FlatPatternCaution bool    `env:"FLAT_PATTERN_CAUTION" envDefault:"true"`

	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
}

// WeatherPattern classifies the precipitation development over the
// evaluation window. Exactly one pattern is assigned per evaluation.
type WeatherPattern string

const (
	PatternClear        WeatherPattern = "CLEAR"
	PatternRainBuilding WeatherPattern = "RAIN_BUILDING"
	PatternRainClearing WeatherPattern = "RAIN_CLEARING"
	PatternVolatile     WeatherPattern = "VOLATILE"
)

// RiskLevel grades how much the forecast threatens the walk to the station.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// ForecastPoint is a single precipitation reading or prediction
type ForecastPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Rainfall  float64   `json:"rainfall_mm_per_hour"`
}

// ForecastSeries is an ordered precipitation series covering the forecast
// window. Points[0] is the current (observed) value; timestamps are
// strictly increasing. Sparse is set when the provider returned fewer
// forecast points than expected for the window.
type ForecastSeries struct {
	Points      []ForecastPoint `json:"points"`
	Coordinates string          `json:"coordinates"`
	Sparse      bool            `json:"sparse"`
}

// Current returns the precipitation at the start of the window.
func (s *ForecastSeries) Current() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[0].Rainfall
}

// Peak returns the maximum precipitation across the window.
func (s *ForecastSeries) Peak() float64 {
	peak := 0.0
	for _, p := range s.Points {
		if p.Rainfall > peak {
			peak = p.Rainfall
		}
	}
	return peak
}

// YahooResponse represents the YDF response from the Yahoo weather API
type YahooResponse struct {
	Feature []struct {
		Property struct {
			WeatherList struct {
				Weather []struct {
					Type     string  `json:"Type"` // "observation" or "forecast"
					Date     string  `json:"Date"` // YYYYMMDDHHMI
					Rainfall float64 `json:"Rainfall"`
				} `json:"Weather"`
			} `json:"WeatherList"`
		} `json:"Property"`
	} `json:"Feature"`
}

// TimetableEntry is one train in the station timetable
type TimetableEntry struct {
	DepartureTime string `json:"departure_time"` // HH:MM
	TrainType     string `json:"train_type"`
	Destination   string `json:"destination"`
	TravelMinutes int    `json:"travel_minutes,omitempty"`
}

// DepartureCandidate is a timetable entry inside the evaluation window,
// annotated with the walk-adjusted leave time. Minutes count from midnight
// of the service day; a candidate reached across the midnight seam keeps
// counting past 1439 so ordering stays stable.
type DepartureCandidate struct {
	Entry           TimetableEntry `json:"entry"`
	DepartureMinute int            `json:"departure_minute"`
	LeaveMinute     int            `json:"leave_minute"`
	Infeasible      bool           `json:"infeasible"`
	NextDay         bool           `json:"next_day"`
}

// RecommendationOption is one ranked departure option
type RecommendationOption struct {
	LeaveTime      string  `json:"leave_time"`
	TrainDeparture string  `json:"train_departure_time"`
	TrainType      string  `json:"train_type"`
	Destination    string  `json:"destination"`
	ArrivalTime    string  `json:"arrival_time,omitempty"`
	Confidence     float64 `json:"confidence"`
	Rank           int     `json:"rank"`
}

// Narrative holds the rendered advisory text. All fields come from the
// text-generation collaborator or the deterministic fallback.
type Narrative struct {
	Summary string `json:"summary"`
	Reason  string `json:"reason"`
	Warning string `json:"warning,omitempty"`
	Advice  string `json:"advice,omitempty"`
}

// Advisory is the stable payload handed to the narrative renderer and to
// the display layer. It stays complete and displayable without Narrative.
type Advisory struct {
	GeneratedAt     time.Time              `json:"generated_at"`
	Pattern         WeatherPattern         `json:"pattern"`
	Risk            RiskLevel              `json:"risk"`
	CurrentRainfall float64                `json:"current_rainfall_mm"`
	PeakRainfall    float64                `json:"peak_rainfall_mm"`
	SparseData      bool                   `json:"sparse_data"`
	Options         []RecommendationOption `json:"options"`
	Narrative       *Narrative             `json:"narrative,omitempty"`
}
