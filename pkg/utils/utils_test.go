package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2025, time.June, 10, 17, 42, 3, 999, time.UTC)
	assert.Equal(t, day(2025, time.June, 10), DateOnly(ts))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 10, DaysBetween(day(2025, time.June, 10), day(2025, time.June, 20)))
	assert.Equal(t, -10, DaysBetween(day(2025, time.June, 20), day(2025, time.June, 10)))
	assert.Equal(t, 0, DaysBetween(day(2025, time.June, 10), day(2025, time.June, 10)))
	// Across a month boundary
	assert.Equal(t, 61, DaysBetween(day(2025, time.June, 10), day(2025, time.August, 10)))
}

func TestFirstDayOfNextMonth(t *testing.T) {
	assert.Equal(t, day(2025, time.April, 1), FirstDayOfNextMonth(day(2025, time.March, 15)))
	assert.Equal(t, day(2025, time.April, 1), FirstDayOfNextMonth(day(2025, time.March, 1)))
	// December rolls into January of the next year
	assert.Equal(t, day(2026, time.January, 1), FirstDayOfNextMonth(day(2025, time.December, 31)))
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "plain add",
			start:    day(2025, time.June, 10),
			months:   3,
			expected: day(2025, time.September, 10),
		},
		{
			name:     "clamps to end of February",
			start:    day(2025, time.January, 31),
			months:   1,
			expected: day(2025, time.February, 28),
		},
		{
			name:     "clamps to leap-year February",
			start:    day(2024, time.January, 31),
			months:   1,
			expected: day(2024, time.February, 29),
		},
		{
			name:     "Nov 30 three months out clamps to Feb 28",
			start:    day(2025, time.November, 30),
			months:   3,
			expected: day(2026, time.February, 28),
		},
		{
			name:     "crosses year boundary",
			start:    day(2025, time.November, 15),
			months:   3,
			expected: day(2026, time.February, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonthsClamped(tt.start, tt.months))
		})
	}
}

func TestCalculateTotalPayable(t *testing.T) {
	total := CalculateTotalPayable(decimal.NewFromInt(10000), decimal.RequireFromString("0.2"))
	assert.True(t, total.Equal(decimal.NewFromInt(12000)))

	// Half a cent rounds up: 10 * 1.1005 = 11.005 -> 11.01
	total = CalculateTotalPayable(decimal.NewFromInt(10), decimal.RequireFromString("0.1005"))
	assert.True(t, total.Equal(decimal.RequireFromString("11.01")), "got %s", total)
}

func TestCalculateInstallmentAmount(t *testing.T) {
	// 11000 / 9 = 1222.222... -> 1222.22
	amount := CalculateInstallmentAmount(decimal.NewFromInt(11000), 9)
	assert.True(t, amount.Equal(decimal.RequireFromString("1222.22")), "got %s", amount)

	// 100 / 6 = 16.666... -> 16.67
	amount = CalculateInstallmentAmount(decimal.NewFromInt(100), 6)
	assert.True(t, amount.Equal(decimal.RequireFromString("16.67")), "got %s", amount)

	amount = CalculateInstallmentAmount(decimal.NewFromInt(12000), 12)
	assert.True(t, amount.Equal(decimal.NewFromInt(1000)))
}

func TestDecimalFromString(t *testing.T) {
	d, err := DecimalFromString("1234.56")
	assert.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1234.56")))

	_, err = DecimalFromString("not-a-number")
	assert.Error(t, err)
}
