package finance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/turbekoff/tabcalc/pkg/datecalc"
)

// RateUnit is the period an interest rate is quoted for.
type RateUnit int

const (
	Yearly RateUnit = iota
	Monthly
	Weekly
	Daily
)

var rateUnitNames = []string{"Yearly", "Monthly", "Weekly", "Daily"}

func (u RateUnit) String() string {
	if u < Yearly || u > Daily {
		return fmt.Sprintf("RateUnit(%d)", int(u))
	}
	return rateUnitNames[u]
}

// ParseRateUnit accepts the unit names in any case.
func ParseRateUnit(s string) (RateUnit, bool) {
	for i, name := range rateUnitNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return RateUnit(i), true
		}
	}
	return Yearly, false
}

// perYear returns how many of the unit make a year. A banker's year has
// 360 days, a calendar year 365.
func (u RateUnit) perYear(bankerYear bool) float64 {
	switch u {
	case Monthly:
		return 12
	case Weekly:
		return 52
	case Daily:
		if bankerYear {
			return 360
		}
		return 365
	}
	return 1
}

// PeriodUnit is the unit of a compounding period.
type PeriodUnit int

const (
	Years PeriodUnit = iota
	Months
	Weeks
	Days
)

var periodUnitNames = []string{"Years", "Months", "Weeks", "Days"}

func (u PeriodUnit) String() string {
	if u < Years || u > Days {
		return fmt.Sprintf("PeriodUnit(%d)", int(u))
	}
	return periodUnitNames[u]
}

// ParsePeriodUnit accepts the unit names in any case.
func ParsePeriodUnit(s string) (PeriodUnit, bool) {
	for i, name := range periodUnitNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return PeriodUnit(i), true
		}
	}
	return Years, false
}

// years converts n periods to years under the day count convention.
func (u PeriodUnit) years(n float64, dc DayCount) float64 {
	if dc == Mode30360 {
		switch u {
		case Months:
			return n * 30 / 360
		case Weeks:
			return n * 7 / 360
		case Days:
			return n / 360
		}
		return n
	}
	switch u {
	case Months:
		return n / 12
	case Weeks:
		return n / 52
	case Days:
		return n / 365
	}
	return n
}

// DayCount is the convention used to count the days between two dates.
type DayCount int

const (
	// Mode30360 treats every month as 30 days and the year as 360.
	Mode30360 DayCount = iota
	// ModeActual365 counts calendar days against a 365 day year.
	ModeActual365
)

func (dc DayCount) String() string {
	if dc == ModeActual365 {
		return "Actual/365"
	}
	return "30/360"
}

func (dc DayCount) tag() string {
	if dc == ModeActual365 {
		return "Cal"
	}
	return "30"
}

// RegularInput is a deposit between two dates.
type RegularInput struct {
	Principal float64
	Rate      float64
	RateUnit  RateUnit
	// Start and End are day-month-year dates as typed.
	Start    string
	End      string
	DayCount DayCount
	// NthValue and NthUnit request an extra compounding column, as in every
	// 6 Months. A zero NthValue disables it.
	NthValue float64
	NthUnit  PeriodUnit
	// Today decides whether the deposit ends today. The zero value means
	// time.Now.
	Today time.Time
}

// RegularResult holds the outcome of a regular interest calculation. The
// compounded amounts are nil when the deposit is shorter than their
// period.
type RegularResult struct {
	Days      int
	Breakdown datecalc.Span
	Start     string
	End       string
	EndsToday bool
	// MonthlyRate is the annual rate over twelve, rounded to two decimals.
	MonthlyRate float64
	DayCount    DayCount

	Simple      Amount
	Every3Years *Amount
	Every2Years *Amount
	EveryYear   *Amount
	Nth         *Amount
	NthLabel    string
}

// RegularInterest computes simple interest over the deposit and the amount
// it would reach when compounded every three years, two years, year and
// every nth period. It reports false for missing figures or dates that do
// not parse.
func RegularInterest(in RegularInput) (RegularResult, bool) {
	if in.Principal <= 0 || in.Rate < 0 {
		return RegularResult{}, false
	}
	start, ok := datecalc.ParseDate(in.Start)
	if !ok {
		return RegularResult{}, false
	}
	end, ok := datecalc.ParseDate(in.End)
	if !ok {
		return RegularResult{}, false
	}

	banker := in.DayCount == Mode30360
	annual := in.Rate * in.RateUnit.perYear(banker)

	var (
		span  datecalc.Span
		days  int
		years float64
	)
	if banker {
		span = span30360(start, end)
		days = span.Years*360 + span.Months*30 + span.Days
		years = float64(days) / 360
	} else {
		span = datecalc.Between(start, end)
		elapsed := end.In(time.UTC).Sub(start.In(time.UTC))
		days = int(math.Ceil(math.Abs(elapsed.Hours()) / 24))
		years = float64(days) / 365
	}

	today := in.Today
	if today.IsZero() {
		today = time.Now()
	}

	p := in.Principal
	compounded := func(every float64) *Amount {
		if every <= 0 || years < every {
			return nil
		}
		a := amountOf(p, p*math.Pow(1+annual*every/100, years/every))
		return &a
	}

	res := RegularResult{
		Days:        days,
		Breakdown:   span,
		Start:       start.Friendly(),
		End:         end.Friendly(),
		EndsToday:   datecalc.DateOf(today) == end,
		MonthlyRate: money(annual / 12).InexactFloat64(),
		DayCount:    in.DayCount,
		Simple:      amountOf(p, p+p*annual*years/100),
		Every3Years: compounded(3),
		Every2Years: compounded(2),
		EveryYear:   compounded(1),
	}
	if in.NthValue > 0 {
		if res.Nth = compounded(in.NthUnit.years(in.NthValue, in.DayCount)); res.Nth != nil {
			res.NthLabel = fmt.Sprintf("%s %s", num(in.NthValue), in.NthUnit)
		}
	}
	return res, true
}

// span30360 counts whole years, 30 day months and days between two dates,
// earliest first.
func span30360(a, b datecalc.Date) datecalc.Span {
	if b.In(time.UTC).Before(a.In(time.UTC)) {
		a, b = b, a
	}

	s := datecalc.Span{
		Years:  b.Year - a.Year,
		Months: int(b.Month) - int(a.Month),
		Days:   b.Day - a.Day,
	}
	if s.Days < 0 {
		s.Months--
		s.Days += 30
	}
	if s.Months < 0 {
		s.Years--
		s.Months += 12
	}
	return s
}

func (in RegularInput) Entry() (Entry, bool) {
	res, ok := RegularInterest(in)
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Category: CategoryInterest,
		Expression: fmt.Sprintf("Reg Int: %s @ %s%% %s | %s to %s | %s",
			num(in.Principal), num(in.Rate), in.RateUnit, in.Start, in.End, in.DayCount.tag()),
		Result: fmt.Sprintf("Days: %d, Simp: %s", res.Days, res.Simple.Total.StringFixed(2)),
	}, true
}
