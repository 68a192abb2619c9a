package domain

import "math"

// earthRadiusNM is the mean Earth radius in nautical miles.
const earthRadiusNM = 3440.065

// Immutable geographic coordinates (longitude, latitude) in decimal degrees.
type Coordinates struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// GreatCircleNM returns the haversine distance to other in nautical miles.
// It ignores land masses and canals: two ports either side of a continent
// come out far closer than any real voyage.
func (c Coordinates) GreatCircleNM(other Coordinates) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLon := (other.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusNM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
