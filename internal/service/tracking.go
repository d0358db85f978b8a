package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/calc"
	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/state"
	"github.com/motolog/motolog/pkg/ws"
)

type TrackingConfig struct {
	// A session without fixes or commands for this long is stopped by the sweeper.
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// IngestResult tells the client whether its fix was stored.
type IngestResult struct {
	Accepted bool          `json:"accepted"`
	Session  state.Session `json:"session"`
}

// TrackingService turns the GPS fixes sent by riders into trips.
type TrackingService struct {
	cfg          TrackingConfig
	logger       *zap.Logger
	trips        TripStore
	fixes        FixStore
	geocoder     Geocoder
	notifier     Notifier
	stateManager *state.Manager
	now          func() time.Time

	mu          sync.RWMutex
	stopCh      chan struct{}
	wg          sync.WaitGroup
	subscribers map[*Subscription]struct{}
	running     bool
}

// NewTrackingService builds the tracker. geocoder and notifier may be nil.
func NewTrackingService(
	cfg TrackingConfig,
	logger *zap.Logger,
	trips TripStore,
	fixes FixStore,
	geocoder Geocoder,
	notifier Notifier,
) *TrackingService {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 15 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}

	svc := &TrackingService{
		cfg:         cfg,
		logger:      logger,
		trips:       trips,
		fixes:       fixes,
		geocoder:    geocoder,
		notifier:    notifier,
		now:         time.Now,
		stopCh:      make(chan struct{}),
		subscribers: make(map[*Subscription]struct{}),
	}
	svc.stateManager = state.NewManager(svc.onStateChange)

	return svc
}

// Start completes trips left open by a previous run and starts the idle sweeper.
func (s *TrackingService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.stopCh = make(chan struct{})
	s.running = true
	s.mu.Unlock()

	s.recoverOpenTrips(ctx)

	s.wg.Add(1)
	go s.sweepLoop(ctx)

	s.logger.Info("Tracking service started",
		zap.Duration("idle_timeout", s.cfg.IdleTimeout),
		zap.Duration("sweep_interval", s.cfg.SweepInterval))
	return nil
}

func (s *TrackingService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("Tracking service stopped")
}

// Session returns the rider's live session, idle when none was ever started.
func (s *TrackingService) Session(riderID string) state.Session {
	machine, ok := s.stateManager.Get(riderID)
	if !ok {
		return state.Session{RiderID: riderID, State: state.StateIdle}
	}
	return machine.Snapshot()
}

// Ingest records a fix. An idle rider gets a new session and trip; a paused session drops the fix.
func (s *TrackingService) Ingest(ctx context.Context, riderID string, fix models.GPSFix) (IngestResult, error) {
	if !validFix(fix) {
		return IngestResult{}, ErrInvalidFix
	}
	if fix.RecordedAt.IsZero() {
		fix.RecordedAt = s.now()
	}
	fix.RiderID = riderID

	machine := s.stateManager.GetOrCreate(riderID)
	accepted := false
	err := machine.Exclusive(func() error {
		switch machine.CurrentState() {
		case state.StatePaused:
			return nil
		case state.StateIdle:
			if err := s.startTrip(ctx, machine, fix); err != nil {
				return err
			}
		}

		tripID := machine.Snapshot().TripID
		fix.TripID = &tripID
		if err := s.fixes.Create(ctx, &fix); err != nil {
			return err
		}

		now := s.now()
		machine.Update(func(sess *state.Session) {
			if sess.FixCount == 0 {
				sess.Latitude, sess.Longitude, sess.LastFixAt = fix.Latitude, fix.Longitude, fix.RecordedAt
			} else if fix.RecordedAt.After(sess.LastFixAt) {
				// out of order fixes are only counted when the trip is completed
				sess.DistanceKm += calc.Haversine(sess.Latitude, sess.Longitude, fix.Latitude, fix.Longitude)
				sess.Latitude, sess.Longitude, sess.LastFixAt = fix.Latitude, fix.Longitude, fix.RecordedAt
			}
			sess.Speed = fix.Speed
			sess.FixCount++
			sess.LastActivity = now
		})
		accepted = true
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to ingest fix", zap.String("rider_id", riderID), zap.Error(err))
		return IngestResult{}, err
	}

	snap := machine.Snapshot()
	if accepted {
		s.publish(snap)
	}
	return IngestResult{Accepted: accepted, Session: snap}, nil
}

func (s *TrackingService) PauseSession(riderID string) (state.Session, error) {
	return s.transition(riderID, state.EventPause)
}

func (s *TrackingService) ResumeSession(riderID string) (state.Session, error) {
	return s.transition(riderID, state.EventResume)
}

func (s *TrackingService) transition(riderID, event string) (state.Session, error) {
	machine, ok := s.stateManager.Get(riderID)
	if !ok {
		return state.Session{}, ErrNotTracking
	}

	err := machine.Exclusive(func() error {
		switch current := machine.CurrentState(); {
		case current == state.StateIdle:
			return ErrNotTracking
		case event == state.EventPause && current == state.StatePaused:
			return ErrAlreadyPaused
		case event == state.EventResume && current == state.StateTracking:
			return ErrAlreadyTracking
		}
		return machine.Trigger(event)
	})
	if err != nil {
		return state.Session{}, err
	}

	snap := machine.Snapshot()
	s.publish(snap)
	return snap, nil
}

// StopSession completes the rider's trip and returns it.
func (s *TrackingService) StopSession(ctx context.Context, riderID string) (*models.Trip, error) {
	machine, ok := s.stateManager.Get(riderID)
	if !ok {
		return nil, ErrNotTracking
	}

	var trip *models.Trip
	err := machine.Exclusive(func() error {
		if !machine.Snapshot().Active() {
			return ErrNotTracking
		}
		var err error
		trip, err = s.finishSession(ctx, machine, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterTrip(ctx, trip)
	return trip, nil
}

// finishSession must run inside machine.Exclusive. The caller runs afterTrip once the lock is released.
func (s *TrackingService) finishSession(ctx context.Context, machine *state.Machine, endTime time.Time) (*models.Trip, error) {
	snap := machine.Snapshot()

	trip, err := s.trips.GetByID(ctx, snap.RiderID, snap.TripID)
	if err != nil {
		return nil, err
	}
	if err := s.completeTrip(ctx, trip, endTime); err != nil {
		return nil, err
	}
	if err := machine.Trigger(state.EventStop); err != nil {
		return nil, err
	}

	s.publish(machine.Snapshot())
	return trip, nil
}

func (s *TrackingService) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep stops every session that has been quiet for longer than the idle timeout.
// The trip ends at its last fix, not at the sweep time.
func (s *TrackingService) sweep(ctx context.Context) {
	for _, machine := range s.stateManager.Active() {
		var trip *models.Trip
		err := machine.Exclusive(func() error {
			snap := machine.Snapshot()
			if !snap.Active() || s.now().Sub(snap.LastActivity) < s.cfg.IdleTimeout {
				return nil
			}

			end := snap.LastFixAt
			if end.IsZero() {
				end = snap.LastActivity
			}
			var err error
			trip, err = s.finishSession(ctx, machine, end)
			return err
		})
		if err != nil {
			s.logger.Error("Failed to stop idle session", zap.Error(err))
			continue
		}
		if trip != nil {
			s.logger.Info("Stopped idle tracking session",
				zap.String("rider_id", trip.RiderID),
				zap.Int64("trip_id", trip.ID))
			s.afterTrip(ctx, trip)
		}
	}
}

func (s *TrackingService) recoverOpenTrips(ctx context.Context) {
	open, err := s.trips.ListOpen(ctx)
	if err != nil {
		s.logger.Error("Failed to list open trips", zap.Error(err))
		return
	}

	for _, trip := range open {
		if err := s.completeTrip(ctx, trip, time.Time{}); err != nil {
			s.logger.Error("Failed to recover open trip", zap.Int64("trip_id", trip.ID), zap.Error(err))
			continue
		}
		s.logger.Info("Recovered open trip", zap.Int64("trip_id", trip.ID), zap.String("rider_id", trip.RiderID))
		s.afterTrip(ctx, trip)
	}
}

func (s *TrackingService) startTrip(ctx context.Context, machine *state.Machine, fix models.GPSFix) error {
	lat, lng := fix.Latitude, fix.Longitude
	trip := &models.Trip{
		RiderID:        fix.RiderID,
		SessionID:      uuid.NewString(),
		StartTime:      fix.RecordedAt,
		StartLatitude:  &lat,
		StartLongitude: &lng,
	}
	if err := s.trips.Create(ctx, trip); err != nil {
		return err
	}
	if err := machine.Trigger(state.EventStart); err != nil {
		return err
	}

	machine.Update(func(sess *state.Session) {
		sess.SessionID = trip.SessionID
		sess.TripID = trip.ID
		sess.StartedAt = trip.StartTime
	})

	s.logger.Info("Started trip",
		zap.String("rider_id", fix.RiderID),
		zap.Int64("trip_id", trip.ID),
		zap.String("session_id", trip.SessionID))
	return nil
}

func (s *TrackingService) onStateChange(riderID, from, to string) {
	s.logger.Info("Tracking state changed", zap.String("rider_id", riderID), zap.String("from", from), zap.String("to", to))
}

func (s *TrackingService) publish(sess state.Session) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.subscribers {
		select {
		case sub.ch <- sess:
		default:
			// slow subscriber
		}
	}
}

// Subscription receives every published session until Close is called.
type Subscription struct {
	C <-chan state.Session

	ch   chan state.Session
	svc  *TrackingService
	once sync.Once
}

// Subscribe returns a buffered feed of session updates.
func (s *TrackingService) Subscribe() *Subscription {
	ch := make(chan state.Session, 256)
	sub := &Subscription{C: ch, ch: ch, svc: s}

	s.mu.Lock()
	s.subscribers[sub] = struct{}{}
	s.mu.Unlock()
	return sub
}

// Close detaches the subscription and closes C. It is safe to call more than once.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.svc.mu.Lock()
		delete(sub.svc.subscribers, sub)
		close(sub.ch)
		sub.svc.mu.Unlock()
	})
}

// RelaySessions pushes every update of sub to the rider's connections until sub is closed.
func RelaySessions(sub *Subscription, notifier Notifier) {
	for sess := range sub.C {
		notifier.SendToRider(sess.RiderID, ws.MsgTypeSessionUpdate, sess)
	}
}

func validFix(f models.GPSFix) bool {
	for _, v := range []float64{f.Latitude, f.Longitude, f.Speed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return f.Latitude >= -90 && f.Latitude <= 90 &&
		f.Longitude >= -180 && f.Longitude <= 180 &&
		f.Speed >= 0
}
