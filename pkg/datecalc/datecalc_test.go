package datecalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"1-1-2025", Date{2025, time.January, 1}, true},
		{"01/02/2024", Date{2024, time.February, 1}, true},
		{"29.2.2024", Date{2024, time.February, 29}, true},
		{" 31-12-1999 ", Date{1999, time.December, 31}, true},
		{"29-2-2023", Date{}, false},
		{"31-4-2025", Date{}, false},
		{"1-13-2025", Date{}, false},
		{"0-1-2025", Date{}, false},
		{"1-1", Date{}, false},
		{"a-b-c", Date{}, false},
		{"", Date{}, false},
	}

	for _, tc := range tests {
		got, ok := ParseDate(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestDateFormatting(t *testing.T) {
	d := Date{2025, time.January, 2}
	assert.Equal(t, "2-1-2025", d.String())
	assert.Equal(t, "2-Jan-2025", d.Friendly())
}

func TestParseClock(t *testing.T) {
	assert.Equal(t, Clock{9, 30, 0}, ParseClock("9:30"))
	assert.Equal(t, Clock{23, 59, 59}, ParseClock("23:59:59"))
	assert.Equal(t, Clock{7, 0, 0}, ParseClock("7"))
	assert.Equal(t, Clock{}, ParseClock(""))
	assert.Equal(t, Clock{}, ParseClock("25:00"))
	assert.Equal(t, Clock{}, ParseClock("ab:cd"))
	assert.Equal(t, "09:30:00", ParseClock("9:30").String())
}

func TestBetween(t *testing.T) {
	a := Date{2024, time.January, 31}
	b := Date{2025, time.March, 1}

	assert.Equal(t, Span{Years: 1, Months: 0, Days: 29}, Between(a, b))
	assert.Equal(t, Span{Years: 1, Months: 1, Days: 23}, Between(Date{2024, time.January, 15}, Date{2025, time.March, 10}))
	assert.Equal(t, Between(a, b), Between(b, a))
	assert.Equal(t, Span{}, Between(a, a))
}

func TestDiff(t *testing.T) {
	a := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 11, 8, 30, 0, 0, time.UTC)

	d := Diff(a, b, DateTime)
	assert.Equal(t, int64(434), d.Days)
	assert.Equal(t, "1y 2m 1w 2d  22h 30m", d.Breakdown)

	d = Diff(b, a, DateOnly)
	assert.Equal(t, "1y 2m 1w 3d", d.Breakdown)
	assert.Equal(t, int64(434*24+22), d.Hours)
}

func TestDiffTimeOnly(t *testing.T) {
	day := Date{2025, time.June, 1}
	a := day.At(Clock{8, 15, 0}, time.UTC)
	b := day.At(Clock{17, 40, 30}, time.UTC)

	d := Diff(a, b, TimeOnly)
	assert.Equal(t, "9h 25m 30s", d.Breakdown)
	assert.Equal(t, int64(9*3600+25*60+30), d.Seconds)
	assert.Equal(t, int64(0), d.Days)
}

func TestAddDays(t *testing.T) {
	d, wd := AddDays(Date{2024, time.February, 28}, 1)
	assert.Equal(t, Date{2024, time.February, 29}, d)
	assert.Equal(t, time.Thursday, wd)

	d, wd = AddDays(Date{2025, time.January, 1}, -1)
	assert.Equal(t, Date{2024, time.December, 31}, d)
	assert.Equal(t, time.Tuesday, wd)
}

func TestAge(t *testing.T) {
	birth := time.Date(1990, time.May, 20, 14, 45, 0, 0, time.UTC)
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	r := Age(birth, now)
	assert.Equal(t, 34, r.Years)
	assert.Equal(t, 9, r.Months)
	// 10-20-1 for the hour borrow, plus the 28 days of February.
	assert.Equal(t, 17, r.Days)
	assert.Equal(t, 18, r.Hours)
	assert.Equal(t, 45, r.Minutes)
	assert.Equal(t, 34*12+9, r.TotalMonths)

	elapsed := now.Sub(birth)
	assert.Equal(t, int64(elapsed/time.Hour), r.TotalHours)
	assert.Equal(t, r.TotalDays/7, r.TotalWeeks)
}

func TestAgeInFuture(t *testing.T) {
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	r := Age(now.Add(48*time.Hour), now)
	require.Equal(t, int64(0), r.TotalSeconds)
	assert.Equal(t, int64(0), r.TotalDays)
}
