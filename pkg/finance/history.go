package finance

import (
	"strconv"
	"strings"
	"time"

	"github.com/turbekoff/tabcalc/pkg/datecalc"
)

// ParseHistory rebuilds the calculation behind a history expression such as
// "EMI: 500000 @ 8.5% for 20y". It reports false for expressions no
// calculator produces or that are cut short.
func ParseHistory(expression string) (Calculation, bool) {
	switch {
	case strings.HasPrefix(expression, "EMI: "):
		return parseEMI(strings.TrimPrefix(expression, "EMI: "))
	case strings.HasPrefix(expression, "Stock Avg: "):
		return parseStock(strings.TrimPrefix(expression, "Stock Avg: "))
	case strings.HasPrefix(expression, "Reg Int: "):
		return parseRegular(strings.TrimPrefix(expression, "Reg Int: "))
	case strings.HasPrefix(expression, "Simple Int: "):
		return parseInterest(Simple, strings.TrimPrefix(expression, "Simple Int: "))
	case strings.HasPrefix(expression, "Compound Int: "):
		return parseInterest(Compound, strings.TrimPrefix(expression, "Compound Int: "))
	case strings.HasPrefix(expression, "SIP: "):
		return parseSIP(strings.TrimPrefix(expression, "SIP: "))
	case strings.HasPrefix(expression, "GST: "):
		return parseGST(strings.TrimPrefix(expression, "GST: "))
	}
	return nil, false
}

// amountRate splits "P @ rest" and "r% sep tail" into their figures.
func amountRate(s, sep string) (amount, rate float64, tail string, ok bool) {
	p, rest, found := strings.Cut(s, " @ ")
	if !found {
		return 0, 0, "", false
	}
	r, tail, found := strings.Cut(rest, "%"+sep)
	if !found {
		return 0, 0, "", false
	}

	if amount, ok = parseFloat(p); !ok {
		return 0, 0, "", false
	}
	if rate, ok = parseFloat(r); !ok {
		return 0, 0, "", false
	}
	return amount, rate, tail, true
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

func parseEMI(s string) (Calculation, bool) {
	amount, rate, tenure, ok := amountRate(s, " for ")
	if !ok {
		return nil, false
	}

	months := strings.HasSuffix(tenure, "m")
	n, ok := parseFloat(strings.TrimRight(tenure, "ym"))
	if !ok {
		return nil, false
	}
	return EMIInput{Amount: amount, Rate: rate, Tenure: n, Months: months}, true
}

func parseInterest(kind InterestKind, s string) (Calculation, bool) {
	principal, rate, years, ok := amountRate(s, " for ")
	if !ok {
		return nil, false
	}
	t, ok := parseFloat(strings.TrimSuffix(years, "y"))
	if !ok {
		return nil, false
	}
	return InterestInput{Kind: kind, Principal: principal, Rate: rate, Years: t}, true
}

func parseSIP(s string) (Calculation, bool) {
	monthly, rate, years, ok := amountRate(s, " for ")
	if !ok {
		return nil, false
	}
	t, ok := parseFloat(strings.TrimSuffix(years, "y"))
	if !ok {
		return nil, false
	}
	return SIPInput{Monthly: monthly, Rate: rate, Years: t}, true
}

func parseGST(s string) (Calculation, bool) {
	amount, rate, kind, ok := amountRate(s, " (")
	if !ok {
		return nil, false
	}
	return GSTInput{Amount: amount, Rate: rate, Inclusive: strings.TrimSuffix(kind, ")") == "Inclusive"}, true
}

func parseStock(s string) (Calculation, bool) {
	left, right, found := strings.Cut(s, " + ")
	if !found {
		return nil, false
	}

	var figures [4]float64
	for i, lot := range []string{left, right} {
		q, p, found := strings.Cut(lot, "x")
		if !found {
			return nil, false
		}
		var ok bool
		if figures[2*i], ok = parseFloat(q); !ok {
			return nil, false
		}
		if figures[2*i+1], ok = parseFloat(p); !ok {
			return nil, false
		}
	}
	return StockInput{
		Quantity1: figures[0],
		Price1:    figures[1],
		Quantity2: figures[2],
		Price2:    figures[3],
	}, true
}

// parseRegular reads "P @ r% Unit | start to end | 30". Missing trailing
// parts keep their defaults: a monthly rate, today's date and 30/360.
func parseRegular(s string) (Calculation, bool) {
	principal, rate, tail, ok := amountRate(s, " ")
	if !ok {
		return nil, false
	}

	today := datecalc.DateOf(time.Now()).String()
	in := RegularInput{Principal: principal, Rate: rate, RateUnit: Monthly, Start: today, End: today}
	parts := strings.Split(tail, " | ")
	if u, ok := ParseRateUnit(parts[0]); ok {
		in.RateUnit = u
	}
	if len(parts) >= 2 {
		if start, end, found := strings.Cut(parts[1], " to "); found {
			in.Start, in.End = strings.TrimSpace(start), strings.TrimSpace(end)
		}
	}
	if len(parts) >= 3 && strings.TrimSpace(parts[2]) == "Cal" {
		in.DayCount = ModeActual365
	}
	return in, true
}
