package holidays_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacaplanner/vacaplanner/internal/core/holidays"
)

func TestEaster(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2024, time.March, 31},
		{2025, time.April, 20},
		{2026, time.April, 5},
		{2038, time.April, 25}, // latest possible Easter in this century
	}
	for _, tt := range tests {
		got := holidays.Easter(tt.year)
		assert.Equal(t, tt.month, got.Month(), "year %d", tt.year)
		assert.Equal(t, tt.day, got.Day(), "year %d", tt.year)
	}
}

func TestForYear(t *testing.T) {
	hs := holidays.ForYear(2025)
	require.Len(t, hs, 12) // 10 fixed + Easter + Easter Monday

	// Sorted by date.
	for i := 1; i < len(hs); i++ {
		assert.True(t, hs[i-1].Date.Before(hs[i].Date), "%s before %s", hs[i-1].LocalName, hs[i].LocalName)
	}

	byLocalName := map[string]holidays.Holiday{}
	for _, h := range hs {
		byLocalName[h.LocalName] = h
	}
	assert.Equal(t, time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC), byLocalName["Ferragosto"].Date)
	assert.Equal(t, time.Date(2025, time.April, 21, 0, 0, 0, 0, time.UTC), byLocalName["Pasquetta"].Date)
}

func TestIsHoliday(t *testing.T) {
	assert.True(t, holidays.IsHoliday(time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)))
	assert.True(t, holidays.IsHoliday(time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC))) // Easter
	assert.False(t, holidays.IsHoliday(time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)))
}
