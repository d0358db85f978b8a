package calc

import (
	"slices"

	"github.com/motolog/motolog/internal/models"
)

// DefaultFuelWindow is how many recent fill-ups with an odometer reading feed the average.
const DefaultFuelWindow = 3

// FuelEconomy is the consumption derived from a window of fill-ups.
// Zero values mean there was not enough data.
type FuelEconomy struct {
	ConsumptionKmL float64 `json:"consumption_km_l"`
	CostPerKm      float64 `json:"cost_per_km"`
	DistanceKm     float64 `json:"distance_km"`
	VolumeL        float64 `json:"volume_l"`
	AvgLiterPrice  float64 `json:"avg_liter_price"`
	Records        int     `json:"records"`
}

// CalculateFuelEconomy averages consumption over the most recent window fill-ups that
// carry an odometer reading. The liters of the last fill-up in the window are left out:
// that fuel has not been burned over the distance before it.
func CalculateFuelEconomy(records []models.Fueling, window int) FuelEconomy {
	if window <= 0 {
		window = DefaultFuelWindow
	}

	known := withOdometer(records)
	selected := known
	if len(known) > window {
		selected = known[len(known)-window:]
	}
	if len(selected) < 2 {
		selected = known
	}
	if len(selected) < 2 {
		return FuelEconomy{}
	}

	first := selected[0]
	last := selected[len(selected)-1]
	distance := nonNegative(last.Odometer - first.Odometer)

	volume := 0.0
	for _, r := range selected[:len(selected)-1] {
		volume += nonNegative(r.Liters)
	}

	priceSum := 0.0
	for _, r := range selected {
		priceSum += nonNegative(r.LiterPrice)
	}
	avgPrice := priceSum / float64(len(selected))

	consumption := divide(distance, volume)

	return FuelEconomy{
		ConsumptionKmL: consumption,
		CostPerKm:      CostPerKm(avgPrice, consumption),
		DistanceKm:     distance,
		VolumeL:        volume,
		AvgLiterPrice:  avgPrice,
		Records:        len(selected),
	}
}

// FullTankEconomy uses the full-to-full method: between the two most recent full
// fill-ups with an odometer reading, consumption is the distance over every liter
// bought after the earlier one up to and including the later one.
func FullTankEconomy(records []models.Fueling) float64 {
	ordered := byDate(records)

	last, prev := -1, -1
	for i := len(ordered) - 1; i >= 0; i-- {
		if !ordered[i].FullTank || nonNegative(ordered[i].Odometer) == 0 {
			continue
		}
		if last < 0 {
			last = i
			continue
		}
		prev = i
		break
	}
	if prev < 0 {
		return 0
	}

	liters := 0.0
	for _, r := range ordered[prev+1 : last+1] {
		liters += nonNegative(r.Liters)
	}
	distance := nonNegative(ordered[last].Odometer - ordered[prev].Odometer)
	return divide(distance, liters)
}

// CostPerKm is the fuel cost of one kilometre.
func CostPerKm(literPrice, consumptionKmL float64) float64 {
	return divide(nonNegative(literPrice), nonNegative(consumptionKmL))
}

// TripCost is the cost of riding distanceKm at costPerKm.
func TripCost(distanceKm, costPerKm float64) float64 {
	return nonNegative(distanceKm) * nonNegative(costPerKm)
}

// TankAutonomy is how far a full tank goes.
func TankAutonomy(consumptionKmL, tankCapacityL float64) float64 {
	return nonNegative(consumptionKmL) * nonNegative(tankCapacityL)
}

// OilChangeCostPerKm spreads the price of an oil change over its interval.
func OilChangeCostPerKm(oilChangeCost, intervalKm float64) float64 {
	return divide(nonNegative(oilChangeCost), nonNegative(intervalKm))
}

// MonthlyMaintenanceCostPerKm spreads a monthly maintenance budget over the km ridden in a month.
func MonthlyMaintenanceCostPerKm(monthlyCost, monthlyKm float64) float64 {
	return divide(nonNegative(monthlyCost), nonNegative(monthlyKm))
}

// TotalCostPerKm adds up independent per-km contributions.
func TotalCostPerKm(parts ...float64) float64 {
	total := 0.0
	for _, p := range parts {
		total += nonNegative(p)
	}
	return total
}

// CostProfile breaks the running cost of the motorcycle down per km.
type CostProfile struct {
	FuelPerKm        float64 `json:"fuel_per_km"`
	OilChangePerKm   float64 `json:"oil_change_per_km"`
	MaintenancePerKm float64 `json:"maintenance_per_km"`
	TotalPerKm       float64 `json:"total_per_km"`
	TankAutonomyKm   float64 `json:"tank_autonomy_km"`
}

// BuildCostProfile combines fuel economy with the amortized costs of the bike profile.
func BuildCostProfile(economy FuelEconomy, bike models.Motorcycle) CostProfile {
	p := CostProfile{
		FuelPerKm:        economy.CostPerKm,
		OilChangePerKm:   OilChangeCostPerKm(bike.OilChangeCost, bike.OilChangeIntervalKm),
		MaintenancePerKm: MonthlyMaintenanceCostPerKm(bike.MonthlyMaintenanceCost, bike.MonthlyKmEstimate),
		TankAutonomyKm:   TankAutonomy(economy.ConsumptionKmL, bike.TankCapacityL),
	}
	p.TotalPerKm = TotalCostPerKm(p.FuelPerKm, p.OilChangePerKm, p.MaintenancePerKm)
	return p
}

func byDate(records []models.Fueling) []models.Fueling {
	ordered := slices.Clone(records)
	slices.SortStableFunc(ordered, func(a, b models.Fueling) int {
		return a.Date.Compare(b.Date)
	})
	return ordered
}

func withOdometer(records []models.Fueling) []models.Fueling {
	var known []models.Fueling
	for _, r := range byDate(records) {
		if nonNegative(r.Odometer) > 0 {
			known = append(known, r)
		}
	}
	return known
}
