package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacaplanner/vacaplanner/internal/core/domain"
	"github.com/vacaplanner/vacaplanner/internal/core/ledger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func TestDaysInclusive(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int64
	}{
		{"single day", date(2024, 6, 3), date(2024, 6, 3), 1},
		{"two days", date(2024, 6, 3), date(2024, 6, 4), 2},
		{"full week", date(2024, 6, 3), date(2024, 6, 9), 7},
		{"across month boundary", date(2024, 6, 28), date(2024, 7, 2), 5},
		{"across year boundary", date(2024, 12, 30), date(2025, 1, 2), 4},
		{"time of day ignored", time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC), time.Date(2024, 6, 4, 1, 0, 0, 0, time.UTC), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ledger.DaysInclusive(tt.start, tt.end))
		})
	}
}

func TestCompute_VacationWholeDays(t *testing.T) {
	req := domain.LeaveRequest{
		Type:      domain.LeaveTypeVacation,
		StartDate: date(2024, 6, 3),
		EndDate:   date(2024, 6, 7),
	}
	q, err := ledger.Compute(req)
	require.NoError(t, err)
	assert.Equal(t, ledger.UnitDays, q.Unit)
	assert.True(t, q.Amount.Equal(decimal.NewFromInt(5)), "got %s", q.Amount)
}

func TestCompute_VacationHalfDay(t *testing.T) {
	// Quantity is fixed at 0.5 regardless of the actual time span.
	tests := []struct {
		name       string
		start, end string
	}{
		{"morning", "09:00", "13:00"},
		{"afternoon", "14:00", "18:00"},
		{"tiny span", "10:00", "10:30"},
		{"long span", "08:00", "19:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.LeaveRequest{
				Type:      domain.LeaveTypeVacation,
				StartDate: date(2024, 6, 10),
				EndDate:   date(2024, 6, 10),
				StartTime: strPtr(tt.start),
				EndTime:   strPtr(tt.end),
			}
			q, err := ledger.Compute(req)
			require.NoError(t, err)
			assert.Equal(t, ledger.UnitDays, q.Unit)
			assert.True(t, q.Amount.Equal(decimal.New(5, -1)), "got %s", q.Amount)
		})
	}
}

func TestCompute_HourlyLeave(t *testing.T) {
	tests := []struct {
		name       string
		typ        domain.LeaveType
		start, end string
		wantHours  string
	}{
		{"three hours personal", domain.LeaveTypePersonal, "14:00", "17:00", "3"},
		{"half hour sick", domain.LeaveTypeSick, "09:00", "09:30", "0.5"},
		{"full workday", domain.LeaveTypePersonal, "09:00", "17:00", "8"},
		{"overnight wraps past midnight", domain.LeaveTypeSick, "22:00", "06:00", "8"},
		{"zero span", domain.LeaveTypePersonal, "12:00", "12:00", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.LeaveRequest{
				Type:      tt.typ,
				StartDate: date(2024, 6, 10),
				EndDate:   date(2024, 6, 10),
				StartTime: strPtr(tt.start),
				EndTime:   strPtr(tt.end),
			}
			q, err := ledger.Compute(req)
			require.NoError(t, err)
			assert.Equal(t, ledger.UnitHours, q.Unit)
			want, err := decimal.NewFromString(tt.wantHours)
			require.NoError(t, err)
			assert.True(t, q.Amount.Equal(want), "want %s, got %s", want, q.Amount)
		})
	}
}

func TestCompute_HourlyLeaveWholeDays(t *testing.T) {
	// Without clock times, SICK/PERSONAL consume 8 hours per inclusive day.
	req := domain.LeaveRequest{
		Type:      domain.LeaveTypeSick,
		StartDate: date(2024, 6, 3),
		EndDate:   date(2024, 6, 5),
	}
	q, err := ledger.Compute(req)
	require.NoError(t, err)
	assert.Equal(t, ledger.UnitHours, q.Unit)
	assert.True(t, q.Amount.Equal(decimal.NewFromInt(24)), "got %s", q.Amount)
}

func TestCompute_Errors(t *testing.T) {
	t.Run("end before start", func(t *testing.T) {
		req := domain.LeaveRequest{
			Type:      domain.LeaveTypeVacation,
			StartDate: date(2024, 6, 10),
			EndDate:   date(2024, 6, 3),
		}
		_, err := ledger.Compute(req)
		assert.ErrorIs(t, err, ledger.ErrEndBeforeStart)
	})

	t.Run("malformed clock time", func(t *testing.T) {
		req := domain.LeaveRequest{
			Type:      domain.LeaveTypePersonal,
			StartDate: date(2024, 6, 10),
			EndDate:   date(2024, 6, 10),
			StartTime: strPtr("9am"),
			EndTime:   strPtr("17:00"),
		}
		_, err := ledger.Compute(req)
		assert.ErrorIs(t, err, ledger.ErrInvalidClockTime)
	})

	t.Run("malformed time on half-day vacation", func(t *testing.T) {
		req := domain.LeaveRequest{
			Type:      domain.LeaveTypeVacation,
			StartDate: date(2024, 6, 10),
			EndDate:   date(2024, 6, 10),
			StartTime: strPtr("09:00"),
			EndTime:   strPtr("25:99"),
		}
		_, err := ledger.Compute(req)
		assert.ErrorIs(t, err, ledger.ErrInvalidClockTime)
	})
}

func TestApplyReverse_RoundTrip(t *testing.T) {
	// apply(q); reverse(q) must return the counter to its starting value.
	quantities := []ledger.Quantity{
		{Amount: decimal.NewFromInt(1), Unit: ledger.UnitDays},
		{Amount: decimal.New(5, -1), Unit: ledger.UnitDays},
		{Amount: decimal.NewFromInt(3), Unit: ledger.UnitHours},
		{Amount: decimal.RequireFromString("2.5"), Unit: ledger.UnitHours},
	}
	used := decimal.RequireFromString("4.5")
	for _, q := range quantities {
		after := ledger.Reverse(ledger.Apply(used, q), q)
		assert.True(t, after.Equal(used), "quantity %s: want %s, got %s", q.Amount, used, after)
	}
}

func TestReverse_ClampsAtZero(t *testing.T) {
	q := ledger.Quantity{Amount: decimal.NewFromInt(3), Unit: ledger.UnitDays}
	got := ledger.Reverse(decimal.NewFromInt(1), q)
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestApply_NoUpperClamp(t *testing.T) {
	// Approvals may exceed the total allowance; the counter keeps the surplus.
	q := ledger.Quantity{Amount: decimal.NewFromInt(30), Unit: ledger.UnitDays}
	got := ledger.Apply(decimal.NewFromInt(20), q)
	assert.True(t, got.Equal(decimal.NewFromInt(50)), "got %s", got)
}

func TestDayPartLabel(t *testing.T) {
	half := func(start string) domain.LeaveRequest {
		return domain.LeaveRequest{
			Type:      domain.LeaveTypeVacation,
			StartDate: date(2024, 6, 10),
			EndDate:   date(2024, 6, 10),
			StartTime: strPtr(start),
			EndTime:   strPtr("13:00"),
		}
	}
	assert.Equal(t, "Mattina", ledger.DayPartLabel(half("09:00")))
	assert.Equal(t, "Pomeriggio", ledger.DayPartLabel(half("14:00")))

	wholeDay := domain.LeaveRequest{Type: domain.LeaveTypeVacation, StartDate: date(2024, 6, 10), EndDate: date(2024, 6, 10)}
	assert.Equal(t, "", ledger.DayPartLabel(wholeDay))

	hourly := half("09:00")
	hourly.Type = domain.LeaveTypePersonal
	assert.Equal(t, "", ledger.DayPartLabel(hourly))
}
