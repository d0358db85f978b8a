package calc

import (
	"math"
	"slices"

	"github.com/motolog/motolog/internal/models"
)

// EarthRadiusKm is the mean radius of the spherical earth model.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in km between two coordinates given in degrees.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// TotalDistance sums the haversine distance between consecutive fixes ordered by
// RecordedAt. Fixes with unusable coordinates are skipped. Every jump counts in
// full; there is no noise filtering.
func TotalDistance(fixes []models.GPSFix) float64 {
	if len(fixes) < 2 {
		return 0
	}

	ordered := make([]models.GPSFix, 0, len(fixes))
	for _, f := range fixes {
		if validCoordinate(f.Latitude, f.Longitude) {
			ordered = append(ordered, f)
		}
	}
	slices.SortStableFunc(ordered, func(a, b models.GPSFix) int {
		return a.RecordedAt.Compare(b.RecordedAt)
	})

	total := 0.0
	for i := 1; i < len(ordered); i++ {
		total += Haversine(
			ordered[i-1].Latitude,
			ordered[i-1].Longitude,
			ordered[i].Latitude,
			ordered[i].Longitude,
		)
	}
	return total
}

// MaxSpeed returns the highest reported speed, or 0 for an empty slice.
func MaxSpeed(fixes []models.GPSFix) float64 {
	top := 0.0
	for _, f := range fixes {
		if s := nonNegative(f.Speed); s > top {
			top = s
		}
	}
	return top
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
