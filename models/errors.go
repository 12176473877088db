package models

import "errors"

// Sentinel errors for the recommendation core. Callers distinguish the
// user-visible "no options now" outcome from genuine failures with
// errors.Is.
var (
	// ErrInsufficientData means the forecast series was empty.
	ErrInsufficientData = errors.New("insufficient forecast data")

	// ErrNoViableDeparture means no feasible departure exists in the window.
	ErrNoViableDeparture = errors.New("no viable departure in window")

	// ErrWeatherUnavailable means the weather provider failed hard after retries.
	ErrWeatherUnavailable = errors.New("weather data unavailable")

	// ErrTimetableUnavailable means the timetable source yielded no usable entries.
	ErrTimetableUnavailable = errors.New("timetable unavailable")
)
