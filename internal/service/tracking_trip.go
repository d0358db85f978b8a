package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/calc"
	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/pkg/ws"
)

// completeTrip recomputes the trip from its stored fixes and closes it.
// A zero endTime ends the trip at its last fix.
func (s *TrackingService) completeTrip(ctx context.Context, trip *models.Trip, endTime time.Time) error {
	fixes, err := s.fixes.ListByTrip(ctx, trip.RiderID, trip.ID)
	if err != nil {
		return err
	}

	trip.DistanceKm = calc.TotalDistance(fixes)
	trip.FixCount = len(fixes)
	if top := calc.MaxSpeed(fixes); top > 0 {
		trip.SpeedMax = &top
	}

	if len(fixes) > 0 {
		first, last := fixes[0], fixes[0]
		for _, f := range fixes[1:] {
			if f.RecordedAt.Before(first.RecordedAt) {
				first = f
			}
			if !f.RecordedAt.Before(last.RecordedAt) {
				last = f
			}
		}
		trip.StartLatitude, trip.StartLongitude = &first.Latitude, &first.Longitude
		trip.EndLatitude, trip.EndLongitude = &last.Latitude, &last.Longitude
		if endTime.IsZero() {
			endTime = last.RecordedAt
		}
	}
	if endTime.IsZero() || endTime.Before(trip.StartTime) {
		endTime = trip.StartTime
	}
	trip.EndTime = &endTime
	trip.DurationMin = endTime.Sub(trip.StartTime).Minutes()

	if err := s.trips.Complete(ctx, trip); err != nil {
		return err
	}

	s.logger.Info("Completed trip",
		zap.Int64("trip_id", trip.ID),
		zap.String("rider_id", trip.RiderID),
		zap.Float64("duration_min", trip.DurationMin),
		zap.Float64("distance_km", trip.DistanceKm),
		zap.Int("fix_count", trip.FixCount))
	return nil
}

// afterTrip resolves the endpoint addresses of a completed trip and tells the rider.
// It must not run under the rider's machine lock: geocoding is rate limited.
func (s *TrackingService) afterTrip(ctx context.Context, trip *models.Trip) {
	if s.geocodeEndpoints(ctx, trip) {
		if err := s.trips.UpdateAddresses(ctx, trip); err != nil {
			s.logger.Warn("Failed to store trip addresses", zap.Int64("trip_id", trip.ID), zap.Error(err))
		} else {
			logFields := []zap.Field{zap.Int64("trip_id", trip.ID)}
			if trip.StartAddress != nil {
				logFields = append(logFields, zap.String("start_address", trip.StartAddress.Short()))
			}
			if trip.EndAddress != nil {
				logFields = append(logFields, zap.String("end_address", trip.EndAddress.Short()))
			}
			s.logger.Debug("Geocoded trip", logFields...)
		}
	}

	if s.notifier != nil {
		s.notifier.SendToRider(trip.RiderID, ws.MsgTypeTripCompleted, trip)
	}
}

// geocodeEndpoints fills the addresses it can and reports whether any was added.
// Failures only cost the address.
func (s *TrackingService) geocodeEndpoints(ctx context.Context, trip *models.Trip) bool {
	if s.geocoder == nil {
		return false
	}

	resolved := false

	if trip.StartAddress == nil && trip.StartLatitude != nil && trip.StartLongitude != nil {
		addr, err := s.geocoder.ReverseGeocode(ctx, *trip.StartLatitude, *trip.StartLongitude)
		if err != nil {
			s.logger.Warn("Failed to geocode start address", zap.Int64("trip_id", trip.ID), zap.Error(err))
		} else {
			trip.StartAddress = addr
			resolved = true
		}
	}

	if trip.EndAddress == nil && trip.EndLatitude != nil && trip.EndLongitude != nil {
		addr, err := s.geocoder.ReverseGeocode(ctx, *trip.EndLatitude, *trip.EndLongitude)
		if err != nil {
			s.logger.Warn("Failed to geocode end address", zap.Int64("trip_id", trip.ID), zap.Error(err))
		} else {
			trip.EndAddress = addr
			resolved = true
		}
	}
	return resolved
}
