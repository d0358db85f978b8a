// Package calc holds the pure aggregations behind the dashboards: trip distance,
// fuel economy, maintenance status and earnings averages.
//
// None of the functions return errors. Missing, NaN, infinite or negative inputs
// are coerced to zero and every division checks its denominator, so a dashboard
// built on partial data shows zeros instead of failing.
package calc

import "math"

// nonNegative coerces NaN, ±Inf and negative values to 0.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// divide returns a/b, or 0 when b is 0.
func divide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func validCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
