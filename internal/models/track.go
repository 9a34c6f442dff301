package models

import "time"

// PositionSample is a single timestamped satellite position produced by an ephemeris source.
// Sequences of samples are ordered earliest first.
type PositionSample struct {
	Time       time.Time `json:"time"`
	Position   GeoPoint  `json:"position"`
	AltitudeKm float64   `json:"altitude_km"`
}

// AnimationState is the interpolated position and heading of a moving marker.
type AnimationState struct {
	Position       GeoPoint `json:"position"`
	HeadingDegrees float64  `json:"heading_degrees"` // HeadingDegrees is in [0, 360).
}

// Satellite describes a satellite currently above an observer.
type Satellite struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Position   GeoPoint  `json:"position"`
	AltitudeKm float64   `json:"altitude_km"`
	LaunchDate time.Time `json:"launch_date"`
}
