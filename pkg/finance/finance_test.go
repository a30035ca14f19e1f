package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbekoff/tabcalc/pkg/datecalc"
)

func TestEMI(t *testing.T) {
	res, ok := EMIInput{Amount: 100000, Rate: 12, Tenure: 1}.Calculate()
	require.True(t, ok)
	assert.Equal(t, "8884.88", res.EMI.StringFixed(2))
	assert.Equal(t, "106618.55", res.Total.StringFixed(2))
	assert.Equal(t, "6618.55", res.Interest.StringFixed(2))
	assert.InDelta(t, 1.0, res.PrincipalShare+res.InterestShare, 1e-12)

	months, ok := EMIInput{Amount: 100000, Rate: 12, Tenure: 12, Months: true}.Calculate()
	require.True(t, ok)
	assert.Equal(t, res, months)
}

func TestEMIZeroRate(t *testing.T) {
	res, ok := EMIInput{Amount: 12000, Tenure: 1}.Calculate()
	require.True(t, ok)
	assert.Equal(t, "1000.00", res.EMI.StringFixed(2))
	assert.True(t, res.Interest.IsZero())
}

func TestEMIIncomplete(t *testing.T) {
	for _, in := range []EMIInput{
		{Rate: 10, Tenure: 5},
		{Amount: 1000, Rate: 10},
		{Amount: 1000, Rate: -1, Tenure: 5},
	} {
		_, ok := in.Calculate()
		assert.False(t, ok, "%+v", in)
		_, ok = in.Entry()
		assert.False(t, ok, "%+v", in)
	}
}

func TestInterest(t *testing.T) {
	tests := []struct {
		name      string
		in        InterestInput
		wantTotal string
		wantInt   string
	}{
		{"simple", InterestInput{Kind: Simple, Principal: 10000, Rate: 10, Years: 2}, "12000.00", "2000.00"},
		{"compound yearly", InterestInput{Kind: Compound, Principal: 10000, Rate: 10, Years: 2}, "12100.00", "2100.00"},
		{"compound quarterly", InterestInput{Kind: Compound, Principal: 10000, Rate: 10, Years: 2,
			CompoundEvery: 3, CompoundUnit: Monthly}, "12184.03", "2184.03"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, ok := tc.in.Calculate()
			require.True(t, ok)
			assert.Equal(t, tc.wantTotal, res.Total.StringFixed(2))
			assert.Equal(t, tc.wantInt, res.Interest.StringFixed(2))
		})
	}
}

func TestStockAverage(t *testing.T) {
	res, ok := StockInput{Quantity1: 10, Price1: 100, Quantity2: 30, Price2: 80}.Calculate()
	require.True(t, ok)
	assert.Equal(t, 40.0, res.Quantity)
	assert.Equal(t, "85.00", res.Average.StringFixed(2))
	assert.Equal(t, "3400.00", res.Cost.StringFixed(2))

	_, ok = StockInput{Price1: 100, Price2: 80}.Calculate()
	assert.False(t, ok)
}

func TestSIP(t *testing.T) {
	res, ok := SIPInput{Monthly: 5000, Rate: 12, Years: 10}.Calculate()
	require.True(t, ok)
	assert.Equal(t, "600000", res.Invested.StringFixed(0))
	assert.Equal(t, "1161695", res.Total.StringFixed(0))
	assert.Equal(t, "561695", res.Returns.StringFixed(0))
	assert.Greater(t, res.ReturnShare, 0.48)
}

func TestGST(t *testing.T) {
	exclusive, ok := GSTInput{Amount: 1000, Rate: 18}.Calculate()
	require.True(t, ok)
	assert.Equal(t, "180.00", exclusive.Tax.StringFixed(2))
	assert.Equal(t, "1180.00", exclusive.Total.StringFixed(2))

	inclusive, ok := GSTInput{Amount: 1180, Rate: 18, Inclusive: true}.Calculate()
	require.True(t, ok)
	assert.Equal(t, "1000.00", inclusive.Net.StringFixed(2))
	assert.Equal(t, "180.00", inclusive.Tax.StringFixed(2))
	assert.Equal(t, "1180.00", inclusive.Total.StringFixed(2))
}

func TestRegularInterest30360(t *testing.T) {
	res, ok := RegularInterest(RegularInput{
		Principal: 100000,
		Rate:      1,
		RateUnit:  Monthly,
		Start:     "1-1-2024",
		End:       "1/1/2027",
		DayCount:  Mode30360,
		NthValue:  6,
		NthUnit:   Months,
		Today:     time.Date(2027, time.January, 1, 12, 0, 0, 0, time.UTC),
	})
	require.True(t, ok)

	assert.Equal(t, 1080, res.Days)
	assert.Equal(t, datecalc.Span{Years: 3}, res.Breakdown)
	assert.Equal(t, "1-Jan-2024", res.Start)
	assert.Equal(t, "1-Jan-2027", res.End)
	assert.True(t, res.EndsToday)
	assert.Equal(t, 1.0, res.MonthlyRate)
	assert.Equal(t, "136000.00", res.Simple.Total.StringFixed(2))
	assert.Equal(t, "36000.00", res.Simple.Interest.StringFixed(2))

	require.NotNil(t, res.Every3Years)
	assert.Equal(t, "136000.00", res.Every3Years.Total.StringFixed(2))
	require.NotNil(t, res.Every2Years)
	assert.Equal(t, "138080.56", res.Every2Years.Total.StringFixed(2))
	require.NotNil(t, res.EveryYear)
	assert.Equal(t, "140492.80", res.EveryYear.Total.StringFixed(2))
	require.NotNil(t, res.Nth)
	assert.Equal(t, "141851.91", res.Nth.Total.StringFixed(2))
	assert.Equal(t, "6 Months", res.NthLabel)
}

func TestRegularInterestActual365(t *testing.T) {
	res, ok := RegularInterest(RegularInput{
		Principal: 100000,
		Rate:      12,
		RateUnit:  Yearly,
		Start:     "1-1-2024",
		End:       "1-1-2025",
		DayCount:  ModeActual365,
		NthValue:  5,
		NthUnit:   Years,
		Today:     time.Date(2030, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	require.True(t, ok)

	assert.Equal(t, 366, res.Days)
	assert.Equal(t, datecalc.Span{Years: 1}, res.Breakdown)
	assert.False(t, res.EndsToday)
	assert.Equal(t, "112032.88", res.Simple.Total.StringFixed(2))
	require.NotNil(t, res.EveryYear)
	assert.Equal(t, "112034.78", res.EveryYear.Total.StringFixed(2))
	assert.Nil(t, res.Every2Years)
	assert.Nil(t, res.Every3Years)
	assert.Nil(t, res.Nth)
	assert.Empty(t, res.NthLabel)
}

func TestRegularInterestOrderIndependent(t *testing.T) {
	in := RegularInput{Principal: 5000, Rate: 2, RateUnit: Monthly, Start: "15-3-2024", End: "10-8-2025"}
	forward, ok := RegularInterest(in)
	require.True(t, ok)

	in.Start, in.End = in.End, in.Start
	backward, ok := RegularInterest(in)
	require.True(t, ok)
	assert.Equal(t, forward.Days, backward.Days)
	assert.Equal(t, forward.Simple, backward.Simple)
}

func TestRegularInterestInvalid(t *testing.T) {
	for _, in := range []RegularInput{
		{Rate: 1, Start: "1-1-2024", End: "1-1-2025"},
		{Principal: 100, Rate: 1, Start: "31-2-2024", End: "1-1-2025"},
		{Principal: 100, Rate: 1, Start: "1-1-2024", End: ""},
	} {
		_, ok := RegularInterest(in)
		assert.False(t, ok, "%+v", in)
	}
}

func TestEntries(t *testing.T) {
	tests := []struct {
		calc Calculation
		want Entry
	}{
		{
			EMIInput{Amount: 100000, Rate: 12, Tenure: 1},
			Entry{CategoryEMI, "EMI: 100000 @ 12% for 1y", "EMI: 8884.88, Total: 106618.55"},
		},
		{
			EMIInput{Amount: 250000, Rate: 8.5, Tenure: 18, Months: true},
			Entry{CategoryEMI, "EMI: 250000 @ 8.5% for 18m", "EMI: 14842.18, Total: 267159.26"},
		},
		{
			InterestInput{Kind: Compound, Principal: 10000, Rate: 10, Years: 2},
			Entry{CategoryInterest, "Compound Int: 10000 @ 10% for 2y", "Int: 2100.00, Total: 12100.00"},
		},
		{
			StockInput{Quantity1: 10, Price1: 100, Quantity2: 30, Price2: 80},
			Entry{CategoryStocks, "Stock Avg: 10x100 + 30x80", "Avg: 85.00, Qty: 40"},
		},
		{
			SIPInput{Monthly: 5000, Rate: 12, Years: 10},
			Entry{CategorySIP, "SIP: 5000 @ 12% for 10y", "Total: 1161695, Ret: 561695"},
		},
		{
			GSTInput{Amount: 1180, Rate: 18, Inclusive: true},
			Entry{CategoryGST, "GST: 1180 @ 18% (Inclusive)", "Total: 1180.00, GST: 180.00"},
		},
		{
			RegularInput{Principal: 100000, Rate: 1, RateUnit: Monthly, Start: "1-1-2024", End: "1-1-2027"},
			Entry{CategoryInterest, "Reg Int: 100000 @ 1% Monthly | 1-1-2024 to 1-1-2027 | 30", "Days: 1080, Simp: 136000.00"},
		},
	}

	for _, tc := range tests {
		got, ok := tc.calc.Entry()
		require.True(t, ok, "%+v", tc.calc)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseHistoryRoundTrip(t *testing.T) {
	calcs := []Calculation{
		EMIInput{Amount: 500000, Rate: 8.5, Tenure: 20},
		EMIInput{Amount: 250000, Rate: 8.5, Tenure: 18, Months: true},
		InterestInput{Kind: Simple, Principal: 10000, Rate: 7.25, Years: 3},
		InterestInput{Kind: Compound, Principal: 10000, Rate: 10, Years: 2},
		StockInput{Quantity1: 10, Price1: 100.5, Quantity2: 30, Price2: 80},
		SIPInput{Monthly: 5000, Rate: 12, Years: 10},
		GSTInput{Amount: 1000, Rate: 18},
		GSTInput{Amount: 1180, Rate: 18, Inclusive: true},
		RegularInput{Principal: 1000, Rate: 2, RateUnit: Weekly, Start: "1-1-2024", End: "5-6-2025", DayCount: ModeActual365},
	}

	for _, c := range calcs {
		entry, ok := c.Entry()
		require.True(t, ok)

		parsed, ok := ParseHistory(entry.Expression)
		require.True(t, ok, entry.Expression)
		assert.Equal(t, c, parsed, entry.Expression)
	}
}

func TestParseHistoryRejects(t *testing.T) {
	for _, expr := range []string{
		"",
		"2+2",
		"EMI: 1000",
		"EMI: abc @ 5% for 2y",
		"Stock Avg: 10x100",
		"SIP: 5000 @ 12%",
		"GST: 100 @ 18",
	} {
		_, ok := ParseHistory(expr)
		assert.False(t, ok, expr)
	}
}

func TestParseHistoryRegularDefaults(t *testing.T) {
	c, ok := ParseHistory("Reg Int: 1000 @ 2% Fortnightly")
	require.True(t, ok)

	in, ok := c.(RegularInput)
	require.True(t, ok)
	assert.Equal(t, Monthly, in.RateUnit)
	assert.Equal(t, Mode30360, in.DayCount)
	assert.Equal(t, in.Start, in.End)
	_, ok = datecalc.ParseDate(in.Start)
	assert.True(t, ok)
}

func TestUnits(t *testing.T) {
	u, ok := ParseRateUnit("weekly")
	require.True(t, ok)
	assert.Equal(t, Weekly, u)
	assert.Equal(t, "Weekly", u.String())

	p, ok := ParsePeriodUnit("Days")
	require.True(t, ok)
	assert.Equal(t, Days, p)

	_, ok = ParsePeriodUnit("Decades")
	assert.False(t, ok)
}
