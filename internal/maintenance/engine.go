// Package maintenance classifies the urgency of maintenance tasks and applies
// the state transitions driven by user actions (complete, request replacement,
// cancel replacement). All evaluation is pure: the engine never touches a
// data store.
package maintenance

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/autotrackhq/autotrack/internal/models"
	"github.com/autotrackhq/autotrack/internal/validation"
)

const (
	defaultDueSoonMiles = 500
	defaultDueSoonDays  = 14
)

// Engine computes task status from mileage and date intervals. The due-soon
// windows are read from the environment once at construction and never
// mutated, so a single Engine is safe for concurrent use.
type Engine struct {
	dueSoonMiles int
	dueSoonDays  int
}

// NewEngine creates an engine with thresholds from DUE_SOON_MILES_THRESHOLD
// and DUE_SOON_DAYS_THRESHOLD, falling back to 500 miles and 14 days.
func NewEngine() *Engine {
	miles := defaultDueSoonMiles
	if v := os.Getenv("DUE_SOON_MILES_THRESHOLD"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			miles = parsed
		}
	}

	days := defaultDueSoonDays
	if v := os.Getenv("DUE_SOON_DAYS_THRESHOLD"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}

	return &Engine{
		dueSoonMiles: miles,
		dueSoonDays:  days,
	}
}

// Input holds everything Evaluate needs to classify a task.
type Input struct {
	LastPerformedMileage int
	LastPerformedDate    time.Time
	IntervalMiles        int
	IntervalMonths       int
	CurrentMileage       int
	Today                time.Time
	ReplacementRequested bool
}

// Result is the derived schedule for a task.
type Result struct {
	NextDueMileage int
	NextDueDate    time.Time
	Status         models.TaskStatus
}

// Evaluate computes the next service point and status for a task.
//
// The mileage and date dimensions are independent: crossing either threshold
// is enough to make a task due soon or overdue. A replacement request
// overrides both.
func (e *Engine) Evaluate(in Input) (Result, error) {
	if in.IntervalMiles <= 0 {
		return Result{}, validation.Errorf("interval_miles", "must be positive, got %d", in.IntervalMiles)
	}
	if in.IntervalMonths <= 0 {
		return Result{}, validation.Errorf("interval_months", "must be positive, got %d", in.IntervalMonths)
	}
	if in.LastPerformedMileage < 0 {
		return Result{}, validation.Errorf("last_performed_mileage", "must not be negative, got %d", in.LastPerformedMileage)
	}
	if in.CurrentMileage < 0 {
		return Result{}, validation.Errorf("current_mileage", "must not be negative, got %d", in.CurrentMileage)
	}

	res := Result{
		NextDueMileage: in.LastPerformedMileage + in.IntervalMiles,
		NextDueDate:    AddMonths(in.LastPerformedDate, in.IntervalMonths),
	}

	if in.ReplacementRequested {
		res.Status = models.StatusReplacementRequested
		return res, nil
	}

	milesRemaining := res.NextDueMileage - in.CurrentMileage
	daysRemaining := daysBetween(in.Today, res.NextDueDate)

	switch {
	case milesRemaining <= 0 || daysRemaining <= 0:
		res.Status = models.StatusOverdue
	case milesRemaining <= e.dueSoonMiles || daysRemaining <= e.dueSoonDays:
		res.Status = models.StatusDueSoon
	default:
		res.Status = models.StatusGood
	}

	return res, nil
}

// Complete records that a task was performed at the given mileage. The
// mileage must not regress below the task's previous reading; on success the
// last-performed fields are reset and any replacement request is cleared.
func (e *Engine) Complete(task *models.MaintenanceTask, mileage int, now time.Time) error {
	if mileage < 0 {
		return validation.Errorf("mileage", "must not be negative, got %d", mileage)
	}
	if mileage < task.LastPerformedMileage {
		return validation.Errorf("mileage", "must not be lower than last recorded mileage %d, got %d", task.LastPerformedMileage, mileage)
	}

	task.LastPerformedMileage = mileage
	task.LastPerformedDate = now
	task.ReplacementRequested = false
	task.ReplacementReason = ""
	return nil
}

// RequestReplacement flags a task for early replacement. The reason is
// required; mileage and interval fields are left untouched.
func RequestReplacement(task *models.MaintenanceTask, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return validation.Errorf("reason", "must not be empty")
	}

	task.ReplacementRequested = true
	task.ReplacementReason = reason
	return nil
}

// CancelReplacement clears a task's replacement request.
func CancelReplacement(task *models.MaintenanceTask) {
	task.ReplacementRequested = false
	task.ReplacementReason = ""
}

// AddMonths adds calendar months to a date, clamping the day of month to the
// last valid day of the target month (Jan 31 + 1 month is Feb 28 or 29).
func AddMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if last := daysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// daysBetween counts whole calendar days from one date to another, ignoring
// the time of day. Negative when "to" is in the past.
func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay) / (24 * time.Hour))
}
