package calc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/motolog/motolog/internal/models"
)

// DefaultMaintenanceThresholdKm is how close to the due mileage a service counts as "due soon".
const DefaultMaintenanceThresholdKm = 500.0

// StatusKind classifies a service against its due mileage.
type StatusKind string

const (
	StatusOnSchedule StatusKind = "on_schedule"
	StatusDueSoon    StatusKind = "due_soon"
	StatusOverdue    StatusKind = "overdue"
)

// Severity is the colour hint shown next to a status.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// ServiceStatus is the evaluated state of one maintenance type.
type ServiceStatus struct {
	Kind       StatusKind `json:"kind"`
	Severity   Severity   `json:"severity"`
	DistanceKm float64    `json:"distance_km"` // km left (due soon) or km past due (overdue)
	Text       string     `json:"text"`
}

// MaintenanceStatus compares lastServiceMileage against nextServiceMileage.
// Reaching the due mileage exactly is still on schedule; only going past it is overdue.
// A non-positive threshold falls back to DefaultMaintenanceThresholdKm.
func MaintenanceStatus(lastServiceMileage, nextServiceMileage, threshold float64) ServiceStatus {
	if threshold <= 0 || math.IsNaN(threshold) {
		threshold = DefaultMaintenanceThresholdKm
	}

	diff := nonNegative(nextServiceMileage) - nonNegative(lastServiceMileage)
	switch {
	case diff < 0:
		over := math.Abs(diff)
		return ServiceStatus{
			Kind:       StatusOverdue,
			Severity:   SeverityDanger,
			DistanceKm: over,
			Text:       fmt.Sprintf("overdue by %.0f km", over),
		}
	case diff > 0 && diff <= threshold:
		return ServiceStatus{
			Kind:       StatusDueSoon,
			Severity:   SeverityWarning,
			DistanceKm: diff,
			Text:       fmt.Sprintf("due soon, in %.0f km", diff),
		}
	default:
		return ServiceStatus{
			Kind:       StatusOnSchedule,
			Severity:   SeverityOK,
			DistanceKm: diff,
			Text:       "on schedule",
		}
	}
}

// EvaluateService derives the due mileage from the last service and the interval, then
// classifies the current odometer against it.
func EvaluateService(lastServiceOdometer, currentOdometer, intervalKm, threshold float64) ServiceStatus {
	due := nonNegative(lastServiceOdometer) + nonNegative(intervalKm)
	return MaintenanceStatus(currentOdometer, due, threshold)
}

// FinalizePrevious closes the open event of serviceType with the highest odometer.
// It returns the index of the closed event, or -1 when there was nothing open,
// which is the normal case for the first service of a type.
func FinalizePrevious(events []models.Maintenance, serviceType string, at time.Time) int {
	idx := -1
	for i, e := range events {
		if e.Completed || !sameType(e.Type, serviceType) {
			continue
		}
		if idx < 0 || e.Odometer > events[idx].Odometer {
			idx = i
		}
	}
	if idx < 0 {
		return -1
	}

	events[idx].Completed = true
	events[idx].CompletedAt = &at
	return idx
}

// NormalizeType is the canonical form used to compare maintenance types.
func NormalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func sameType(a, b string) bool {
	return NormalizeType(a) == NormalizeType(b)
}
