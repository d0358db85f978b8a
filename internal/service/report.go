package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/motolog/motolog/internal/calc"
	"github.com/motolog/motolog/internal/models"
	"github.com/motolog/motolog/internal/repository"
)

type ReportConfig struct {
	FuelWindow             int
	MaintenanceThresholdKm float64
	TargetEarningPerKm     float64
	Location               *time.Location
}

// FuelReport is the fuel page: consumption, cost per km and autonomy.
type FuelReport struct {
	Economy     calc.FuelEconomy `json:"economy"`
	FullTankKmL float64          `json:"full_tank_km_l"`
	Costs       calc.CostProfile `json:"costs"`
	Records     int              `json:"records"`
}

type RatedEarning struct {
	models.Earning
	Performance calc.Performance `json:"performance"`
}

type EarningsReport struct {
	From     time.Time            `json:"from"`
	To       time.Time            `json:"to"`
	Summary  calc.EarningsSummary `json:"summary"`
	Earnings []RatedEarning       `json:"earnings"`
}

// ServiceItem is the status of one maintenance type for the rider's motorcycle.
type ServiceItem struct {
	Type            string             `json:"type"`
	LastOdometer    float64            `json:"last_odometer"`
	DueOdometer     float64            `json:"due_odometer"`
	CurrentOdometer float64            `json:"current_odometer"`
	IntervalKm      float64            `json:"interval_km"`
	Status          calc.ServiceStatus `json:"status"`
	Tip             string             `json:"tip,omitempty"`
}

type Dashboard struct {
	Earnings    EarningsReport `json:"earnings"`
	Fuel        FuelReport     `json:"fuel"`
	Maintenance []ServiceItem  `json:"maintenance"`
	// earnings per km minus running cost per km
	NetPerKm float64 `json:"net_per_km"`
}

// ReportService derives every read-only figure shown to the rider.
type ReportService struct {
	cfg          ReportConfig
	logger       *zap.Logger
	fuelings     FuelingLister
	earnings     EarningLister
	maintenances OpenMaintenanceLister
	categories   CategoryLister
	motorcycles  MotorcycleReader
}

func NewReportService(
	cfg ReportConfig,
	logger *zap.Logger,
	fuelings FuelingLister,
	earnings EarningLister,
	maintenances OpenMaintenanceLister,
	categories CategoryLister,
	motorcycles MotorcycleReader,
) *ReportService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ReportService{
		cfg:          cfg,
		logger:       logger,
		fuelings:     fuelings,
		earnings:     earnings,
		maintenances: maintenances,
		categories:   categories,
		motorcycles:  motorcycles,
	}
}

// motorcycle returns the rider's profile, or an empty one when it was never saved.
func (s *ReportService) motorcycle(ctx context.Context, riderID string) (models.Motorcycle, error) {
	m, err := s.motorcycles.GetByRider(ctx, riderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Motorcycle{RiderID: riderID}, nil
		}
		return models.Motorcycle{}, err
	}
	return *m, nil
}

// Fuel builds the fuel report over the last window fill-ups. window <= 0 uses the configured one.
func (s *ReportService) Fuel(ctx context.Context, riderID string, window int) (FuelReport, error) {
	if window <= 0 {
		window = s.cfg.FuelWindow
	}

	records, err := s.fuelings.ListByRider(ctx, riderID, 0, 0)
	if err != nil {
		return FuelReport{}, fmt.Errorf("fuel report: %w", err)
	}
	bike, err := s.motorcycle(ctx, riderID)
	if err != nil {
		return FuelReport{}, fmt.Errorf("fuel report: %w", err)
	}

	economy := calc.CalculateFuelEconomy(records, window)
	return FuelReport{
		Economy:     economy,
		FullTankKmL: calc.FullTankEconomy(records),
		Costs:       calc.BuildCostProfile(economy, bike),
		Records:     len(records),
	}, nil
}

// Earnings summarizes [from, to). Zero bounds default to the current month in the configured zone.
func (s *ReportService) Earnings(ctx context.Context, riderID string, from, to time.Time) (EarningsReport, error) {
	if from.IsZero() && to.IsZero() {
		from, to = s.currentMonth()
	}

	records, err := s.earnings.ListBetween(ctx, riderID, from, to)
	if err != nil {
		return EarningsReport{}, fmt.Errorf("earnings report: %w", err)
	}

	rated := make([]RatedEarning, 0, len(records))
	for _, e := range records {
		rated = append(rated, RatedEarning{
			Earning:     e,
			Performance: calc.EarningPerformance(e.Amount, e.DistanceKm, s.cfg.TargetEarningPerKm),
		})
	}

	return EarningsReport{
		From:     from,
		To:       to,
		Summary:  calc.SummarizeEarnings(records, s.cfg.Location),
		Earnings: rated,
	}, nil
}

// Maintenance evaluates every service type that has been logged at least once.
// Types with no known interval are left out.
func (s *ReportService) Maintenance(ctx context.Context, riderID string) ([]ServiceItem, error) {
	open, err := s.maintenances.ListOpen(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("maintenance status: %w", err)
	}
	categories, err := s.categories.ListMaintenanceCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("maintenance status: %w", err)
	}
	bike, err := s.motorcycle(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("maintenance status: %w", err)
	}
	current, err := s.motorcycles.LatestOdometer(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("maintenance status: %w", err)
	}

	byName := make(map[string]models.MaintenanceCategory, len(categories))
	for _, c := range categories {
		byName[calc.NormalizeType(c.Name)] = c
	}

	items := []ServiceItem{}
	for _, event := range open {
		key := calc.NormalizeType(event.Type)
		category := byName[key]
		interval := category.IntervalKm
		if key == "oil" && bike.OilChangeIntervalKm > 0 {
			interval = bike.OilChangeIntervalKm
		}
		if interval <= 0 {
			continue
		}

		items = append(items, ServiceItem{
			Type:            event.Type,
			LastOdometer:    event.Odometer,
			DueOdometer:     event.Odometer + interval,
			CurrentOdometer: current,
			IntervalKm:      interval,
			Status:          calc.EvaluateService(event.Odometer, current, interval, s.cfg.MaintenanceThresholdKm),
			Tip:             category.Tip,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DueOdometer < items[j].DueOdometer
	})
	return items, nil
}

// Dashboard combines the month's earnings with fuel, running costs and maintenance.
func (s *ReportService) Dashboard(ctx context.Context, riderID string) (Dashboard, error) {
	earnings, err := s.Earnings(ctx, riderID, time.Time{}, time.Time{})
	if err != nil {
		return Dashboard{}, err
	}
	fuel, err := s.Fuel(ctx, riderID, 0)
	if err != nil {
		return Dashboard{}, err
	}
	maintenance, err := s.Maintenance(ctx, riderID)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Earnings:    earnings,
		Fuel:        fuel,
		Maintenance: maintenance,
	}
	if earnings.Summary.PerKm > 0 {
		d.NetPerKm = earnings.Summary.PerKm - fuel.Costs.TotalPerKm
	}
	return d, nil
}

func (s *ReportService) currentMonth() (time.Time, time.Time) {
	now := time.Now().In(s.cfg.Location)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.cfg.Location)
	return from, from.AddDate(0, 1, 0)
}
