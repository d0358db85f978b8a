package calc

import (
	"sort"
	"time"

	"github.com/motolog/motolog/internal/models"
)

// durationHours maps the shift-length buckets offered by the app to hours.
var durationHours = map[string]float64{
	"15 min":          0.25,
	"30 min":          0.5,
	"45 min":          0.75,
	"1 hora":          1,
	"1h 30min":        1.5,
	"2 horas":         2,
	"3 horas ou mais": 3,
}

// DurationHours returns the hours worked for a record. Positive minutes win over the
// label; unknown labels count as zero.
func DurationHours(label string, minutes *float64) float64 {
	if minutes != nil {
		if m := nonNegative(*minutes); m > 0 {
			return m / 60
		}
	}
	return durationHours[label]
}

// PlatformTotals is the share of one platform in a summary.
type PlatformTotals struct {
	Platform   string  `json:"platform"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	DistanceKm float64 `json:"distance_km"`
}

// EarningsSummary reduces a set of earnings.
type EarningsSummary struct {
	Total      float64          `json:"total"`
	Tips       float64          `json:"tips"`
	Hours      float64          `json:"hours"`
	DistanceKm float64          `json:"distance_km"`
	PerHour    float64          `json:"per_hour"`
	PerDay     float64          `json:"per_day"`
	PerKm      float64          `json:"per_km"`
	Days       int              `json:"days"`
	Count      int              `json:"count"`
	ByPlatform []PlatformTotals `json:"by_platform"`
}

// SummarizeEarnings totals amount plus tip and derives the hourly and daily averages.
// Days are distinct calendar dates in loc; records with a zero date are not counted
// as a day. A nil loc uses each record's own location.
func SummarizeEarnings(records []models.Earning, loc *time.Location) EarningsSummary {
	var s EarningsSummary
	days := make(map[string]struct{})
	platforms := make(map[string]*PlatformTotals)

	for _, r := range records {
		amount := nonNegative(r.Amount)
		tip := nonNegative(r.Tip)
		distance := nonNegative(r.DistanceKm)

		s.Total += amount + tip
		s.Tips += tip
		s.DistanceKm += distance
		s.Hours += DurationHours(r.DurationLabel, r.DurationMinutes)
		s.Count++

		if !r.Date.IsZero() {
			d := r.Date
			if loc != nil {
				d = d.In(loc)
			}
			days[d.Format(time.DateOnly)] = struct{}{}
		}

		p, ok := platforms[r.Platform]
		if !ok {
			p = &PlatformTotals{Platform: r.Platform}
			platforms[r.Platform] = p
		}
		p.Total += amount + tip
		p.Count++
		p.DistanceKm += distance
	}

	s.Days = len(days)
	s.PerHour = divide(s.Total, s.Hours)
	s.PerDay = divide(s.Total, float64(s.Days))
	s.PerKm = divide(s.Total, s.DistanceKm)

	s.ByPlatform = make([]PlatformTotals, 0, len(platforms))
	for _, p := range platforms {
		s.ByPlatform = append(s.ByPlatform, *p)
	}
	sort.Slice(s.ByPlatform, func(i, j int) bool {
		if s.ByPlatform[i].Total != s.ByPlatform[j].Total {
			return s.ByPlatform[i].Total > s.ByPlatform[j].Total
		}
		return s.ByPlatform[i].Platform < s.ByPlatform[j].Platform
	})

	return s
}
