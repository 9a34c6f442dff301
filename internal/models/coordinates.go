package models

// GeoPoint represents a geographical point defined by its latitude and longitude in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the point, [-90, 90].
	Longitude float64 `json:"longitude"` // Longitude of the point, [-180, 180].
}
