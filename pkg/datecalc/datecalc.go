// Package datecalc implements the calendar helpers behind the converter:
// date differences, adding days to a date and age.
package datecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

var dateSeparators = strings.NewReplacer("/", "-", ".", "-")

// ParseDate reads a day-month-year date such as "1-1-2025", "01/01/2025" or
// "1.1.2025". Dates that do not exist on the calendar are rejected.
func ParseDate(s string) (Date, bool) {
	parts := strings.Split(dateSeparators.Replace(strings.TrimSpace(s)), "-")
	if len(parts) != 3 {
		return Date{}, false
	}

	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Date{}, false
		}
		n[i] = v
	}

	d := Date{Year: n[2], Month: time.Month(n[1]), Day: n[0]}
	if d.Year < 1 || d.Month < time.January || d.Month > time.December {
		return Date{}, false
	}
	if t := d.In(time.UTC); t.Day() != d.Day || t.Month() != d.Month {
		return Date{}, false
	}
	return d, true
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// At returns the date at the given clock time in loc.
func (d Date) At(c Clock, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, c.Second, 0, loc)
}

// String renders the date the way it is typed, as in "2-1-2025".
func (d Date) String() string {
	return fmt.Sprintf("%d-%d-%d", d.Day, int(d.Month), d.Year)
}

// Friendly renders the date as "2-Jan-2025".
func (d Date) Friendly() string {
	return fmt.Sprintf("%d-%s-%d", d.Day, d.Month.String()[:3], d.Year)
}

// Clock is a time of day.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// ParseClock reads "h", "h:m" or "h:m:s". Missing parts are zero; anything
// unparsable or out of range yields midnight.
func ParseClock(s string) Clock {
	s = strings.TrimSpace(s)
	if s == "" {
		return Clock{}
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Clock{}
	}

	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return Clock{}
		}
		n[i] = v
	}

	c := Clock{Hour: n[0], Minute: n[1], Second: n[2]}
	if c.Hour > 23 || c.Minute > 59 || c.Second > 59 {
		return Clock{}
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Span is a calendar breakdown of a duration.
type Span struct {
	Years  int
	Months int
	Days   int
}

// Between returns the calendar span between two dates regardless of their
// order. A negative day count borrows the months preceding the later date.
func Between(a, b Date) Span {
	if b.In(time.UTC).Before(a.In(time.UTC)) {
		a, b = b, a
	}

	s := Span{
		Years:  b.Year - a.Year,
		Months: int(b.Month) - int(a.Month),
		Days:   b.Day - a.Day,
	}
	s.Days, s.Months = borrowDays(s.Days, s.Months, b.Year, b.Month)
	if s.Months < 0 {
		s.Years--
		s.Months += 12
	}
	return s
}

// borrowDays moves whole months into a negative day count, walking back
// from the month before year-month.
func borrowDays(days, months, year int, month time.Month) (int, int) {
	for days < 0 {
		months--
		days += time.Date(year, month, 0, 0, 0, 0, 0, time.UTC).Day()
		month--
	}
	return days, months
}

// Kind selects which parts of two instants a difference looks at.
type Kind int

const (
	DateTime Kind = iota
	DateOnly
	TimeOnly
)

// Difference is the distance between two instants.
type Difference struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
	// Breakdown is "1y 2m 3w 4d", followed by "  5h 6m" for DateTime, or
	// "5h 6m 7s" for TimeOnly.
	Breakdown string
}

// Diff measures the distance between a and b. The order of the arguments
// does not matter.
func Diff(a, b time.Time, kind Kind) Difference {
	if b.Before(a) {
		a, b = b, a
	}

	d := b.Sub(a)
	res := Difference{
		Days:    int64(d / (24 * time.Hour)),
		Hours:   int64(d / time.Hour),
		Minutes: int64(d / time.Minute),
		Seconds: int64(d / time.Second),
	}

	if kind == TimeOnly {
		res.Breakdown = fmt.Sprintf("%dh %dm %ds", res.Hours, res.Minutes%60, res.Seconds%60)
		return res
	}

	from, to := DateOf(a), DateOf(b)
	clock := secondsOfDay(b) - secondsOfDay(a)
	if kind == DateTime && clock < 0 {
		to = DateOf(to.In(time.UTC).AddDate(0, 0, -1))
		clock += 24 * 60 * 60
	}

	s := Between(from, to)
	res.Breakdown = fmt.Sprintf("%dy %dm %dw %dd", s.Years, s.Months, s.Days/7, s.Days%7)
	if kind == DateTime {
		res.Breakdown += fmt.Sprintf("  %dh %dm", clock/3600, clock%3600/60)
	}
	return res
}

func secondsOfDay(t time.Time) int {
	h, m, s := t.Clock()
	return h*3600 + m*60 + s
}

// AddDays moves d by n days, backwards for negative n, and reports the
// weekday it lands on.
func AddDays(d Date, n int) (Date, time.Weekday) {
	t := d.In(time.UTC).AddDate(0, 0, n)
	return DateOf(t), t.Weekday()
}

// AgeResult is an age broken down into calendar units, with the elapsed
// time also expressed as totals of each unit.
type AgeResult struct {
	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int

	TotalMonths  int
	TotalWeeks   int64
	TotalDays    int64
	TotalHours   int64
	TotalMinutes int64
	TotalSeconds int64
}

// Age computes the age at now of someone born at birth. A birth after now
// yields zero totals.
func Age(birth, now time.Time) AgeResult {
	birth = birth.In(now.Location())

	r := AgeResult{
		Years:   now.Year() - birth.Year(),
		Months:  int(now.Month()) - int(birth.Month()),
		Days:    now.Day() - birth.Day(),
		Hours:   now.Hour() - birth.Hour(),
		Minutes: now.Minute() - birth.Minute(),
	}
	if r.Minutes < 0 {
		r.Hours--
		r.Minutes += 60
	}
	if r.Hours < 0 {
		r.Days--
		r.Hours += 24
	}
	r.Days, r.Months = borrowDays(r.Days, r.Months, now.Year(), now.Month())
	if r.Months < 0 {
		r.Years--
		r.Months += 12
	}

	elapsed := max(now.Sub(birth), 0)
	r.TotalSeconds = int64(elapsed / time.Second)
	r.TotalMinutes = int64(elapsed / time.Minute)
	r.TotalHours = int64(elapsed / time.Hour)
	r.TotalDays = int64(elapsed / (24 * time.Hour))
	r.TotalWeeks = r.TotalDays / 7
	r.TotalMonths = r.Years*12 + r.Months
	return r
}
