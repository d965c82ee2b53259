// Package ledger converts a leave request's date/time range into the exact
// quantity it consumes from a user's balance, and applies or reverses that
// quantity against the stored counter. All arithmetic uses decimals so that
// half-day and fractional-hour values stay exact.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vacaplanner/vacaplanner/internal/core/domain"
)

// Unit identifies which balance counter a quantity applies to.
type Unit string

const (
	// UnitDays targets the user's vacationDaysUsed counter.
	UnitDays Unit = "DAYS"
	// UnitHours targets the user's personalHoursUsed counter.
	UnitHours Unit = "HOURS"
)

// Quantity is a non-negative consumption amount expressed in days or hours.
type Quantity struct {
	Amount decimal.Decimal
	Unit   Unit
}

var (
	// ErrInvalidClockTime is returned for start/end times not in HH:mm form.
	ErrInvalidClockTime = errors.New("clock time must be in HH:mm format")
	// ErrEndBeforeStart is returned when the request's end date precedes its start date.
	ErrEndBeforeStart = errors.New("end date precedes start date")

	halfDay         = decimal.New(5, -1) // 0.5
	hoursPerWorkday = decimal.NewFromInt(8)
	minutesPerHour  = decimal.NewFromInt(60)
	minutesPerDay   = 24 * 60
)

// DaysInclusive counts calendar days covered by the inclusive [start, end]
// date range: 1 for start == end, 2 for adjacent days, and so on. Time-of-day
// components are ignored.
func DaysInclusive(start, end time.Time) int64 {
	s := truncateToDate(start)
	e := truncateToDate(end)
	return int64(e.Sub(s).Hours()/24) + 1
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseClock parses an HH:mm clock time into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// minutesBetween returns the minutes from startClock to endClock, wrapping
// past midnight when the end precedes the start. The wrap is deliberate: an
// overnight shift recorded as 22:00-06:00 counts 8 hours, not -16.
func minutesBetween(startClock, endClock string) (int, error) {
	start, err := ParseClock(startClock)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(endClock)
	if err != nil {
		return 0, err
	}
	diff := end - start
	if diff < 0 {
		diff += minutesPerDay
	}
	return diff, nil
}

// Compute derives the consumption quantity for a leave request:
//
//   - VACATION spanning whole days consumes the inclusive day count.
//   - VACATION with both clock times set is a half-day request and consumes a
//     fixed 0.5 days; the times only label the morning or afternoon.
//   - SICK/PERSONAL with both clock times set consumes the clock span in
//     hours, wrapping past midnight.
//   - SICK/PERSONAL spanning whole days consumes 8 hours per inclusive day.
func Compute(req domain.LeaveRequest) (Quantity, error) {
	days := DaysInclusive(req.StartDate, req.EndDate)
	if days < 1 {
		return Quantity{}, ErrEndBeforeStart
	}

	if req.Type == domain.LeaveTypeVacation {
		if req.IsPartialDay() {
			// Validate the times even though the quantity ignores them.
			if _, err := minutesBetween(*req.StartTime, *req.EndTime); err != nil {
				return Quantity{}, err
			}
			return Quantity{Amount: halfDay, Unit: UnitDays}, nil
		}
		return Quantity{Amount: decimal.NewFromInt(days), Unit: UnitDays}, nil
	}

	if req.IsPartialDay() {
		minutes, err := minutesBetween(*req.StartTime, *req.EndTime)
		if err != nil {
			return Quantity{}, err
		}
		hours := decimal.NewFromInt(int64(minutes)).Div(minutesPerHour)
		return Quantity{Amount: hours, Unit: UnitHours}, nil
	}

	hours := decimal.NewFromInt(days).Mul(hoursPerWorkday)
	return Quantity{Amount: hours, Unit: UnitHours}, nil
}

// Apply adds the quantity to a used counter. There is intentionally no upper
// clamp: approvals may push a counter past the user's total allowance, and
// the surplus stays visible.
func Apply(used decimal.Decimal, q Quantity) decimal.Decimal {
	return used.Add(q.Amount)
}

// Reverse subtracts the quantity from a used counter, flooring at zero.
func Reverse(used decimal.Decimal, q Quantity) decimal.Decimal {
	result := used.Sub(q.Amount)
	if result.IsNegative() {
		return decimal.Zero
	}
	return result
}

// DayPartLabel returns the display label for a half-day vacation request:
// "Mattina" for a 09:00 start, "Pomeriggio" otherwise. It returns an empty
// string for whole-day requests.
func DayPartLabel(req domain.LeaveRequest) string {
	if req.Type != domain.LeaveTypeVacation || !req.IsPartialDay() {
		return ""
	}
	if *req.StartTime == "09:00" {
		return "Mattina"
	}
	return "Pomeriggio"
}
