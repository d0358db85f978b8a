package calc

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/motolog/motolog/internal/models"
)

func fixAt(lat, lng float64, at time.Time) models.GPSFix {
	return models.GPSFix{Latitude: lat, Longitude: lng, RecordedAt: at}
}

func TestTotalDistance_FewerThanTwoFixes(t *testing.T) {
	assert.Equal(t, 0.0, TotalDistance(nil))
	assert.Equal(t, 0.0, TotalDistance([]models.GPSFix{fixAt(-23.55, -46.63, time.Now())}))
}

func TestTotalDistance_SegmentsAdd(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	fixes := []models.GPSFix{
		fixAt(0, 0, start),
		fixAt(0, 1, start.Add(time.Minute)),
		fixAt(0, 2, start.Add(2*time.Minute)),
	}

	segment := Haversine(0, 0, 0, 1)
	assert.InDelta(t, 2*segment, TotalDistance(fixes), 1e-9)
	// one degree of longitude on the equator
	assert.InDelta(t, 2*math.Pi*EarthRadiusKm/360, segment, 1e-9)
}

func TestTotalDistance_OrdersByTimestamp(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	ordered := []models.GPSFix{
		fixAt(0, 0, start),
		fixAt(0, 1, start.Add(time.Minute)),
		fixAt(0, 2, start.Add(2*time.Minute)),
	}
	shuffled := []models.GPSFix{ordered[2], ordered[0], ordered[1]}

	assert.InDelta(t, TotalDistance(ordered), TotalDistance(shuffled), 1e-9)
}

func TestTotalDistance_CountsJumpsInFull(t *testing.T) {
	start := time.Now()
	fixes := []models.GPSFix{
		fixAt(-23.5505, -46.6333, start),
		fixAt(-22.9068, -43.1729, start.Add(time.Second)), // São Paulo → Rio in a second
	}

	assert.InDelta(t, 360, TotalDistance(fixes), 15)
}

func TestTotalDistance_SkipsInvalidCoordinates(t *testing.T) {
	start := time.Now()
	fixes := []models.GPSFix{
		fixAt(0, 0, start),
		fixAt(math.NaN(), 0, start.Add(time.Second)),
		fixAt(0, 1, start.Add(2*time.Second)),
	}

	assert.InDelta(t, Haversine(0, 0, 0, 1), TotalDistance(fixes), 1e-9)
}

func TestHaversine_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(-23.5, -46.6, -23.5, -46.6))
}

func TestMaxSpeed(t *testing.T) {
	fixes := []models.GPSFix{{Speed: 32}, {Speed: 58.5}, {Speed: -1}}
	assert.Equal(t, 58.5, MaxSpeed(fixes))
	assert.Equal(t, 0.0, MaxSpeed(nil))
}
