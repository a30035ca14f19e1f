// Package finance holds the money calculators offered next to the keypad:
// loan EMI, simple, compound and regular interest, stock averaging, SIP
// and GST.
//
// Every calculator takes a plain input struct and reports false instead of
// a result when the input is incomplete. Each one can also describe itself
// as a history Entry, and ParseHistory turns such an entry back into the
// calculation that produced it.
package finance

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Category groups calculations in the history.
type Category string

const (
	CategoryEMI      Category = "EMI"
	CategoryInterest Category = "Interest"
	CategoryStocks   Category = "Stocks"
	CategorySIP      Category = "SIP"
	CategoryGST      Category = "GST"
)

// Entry is the history line of a calculation.
type Entry struct {
	Category   Category
	Expression string
	Result     string
}

// Calculation is any calculator input that can be recorded in the history.
type Calculation interface {
	Entry() (Entry, bool)
}

// Amount is a money figure split into the interest earned and the total.
type Amount struct {
	Interest decimal.Decimal
	Total    decimal.Decimal
}

func amountOf(principal, total float64) Amount {
	return Amount{Interest: money(total - principal), Total: money(total)}
}

// money rounds half away from zero to paise.
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// num renders an input figure the way it was typed: no exponent, no
// trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// EMIInput describes a loan repaid in equal monthly instalments.
type EMIInput struct {
	Amount float64
	// Rate is the annual interest rate in percent.
	Rate   float64
	Tenure float64
	// Months marks the tenure as a number of months instead of years.
	Months bool
}

// EMIResult is the instalment and what the loan costs in total.
type EMIResult struct {
	EMI      decimal.Decimal
	Total    decimal.Decimal
	Interest decimal.Decimal
	// PrincipalShare and InterestShare split the total payment, each in
	// the range [0, 1].
	PrincipalShare float64
	InterestShare  float64
}

func (in EMIInput) instalments() float64 {
	if in.Months {
		return in.Tenure
	}
	return in.Tenure * 12
}

// Calculate returns the monthly instalment. A zero rate spreads the amount
// evenly over the instalments.
func (in EMIInput) Calculate() (EMIResult, bool) {
	n := in.instalments()
	if in.Amount <= 0 || in.Rate < 0 || n <= 0 {
		return EMIResult{}, false
	}

	r := in.Rate / 12 / 100
	emi := in.Amount / n
	if r > 0 {
		growth := math.Pow(1+r, n)
		emi = in.Amount * r * growth / (growth - 1)
	}
	total := emi * n
	if !finite(emi, total) {
		return EMIResult{}, false
	}

	res := EMIResult{
		EMI:      money(emi),
		Total:    money(total),
		Interest: money(total - in.Amount),
	}
	if total > 0 {
		res.PrincipalShare = in.Amount / total
		res.InterestShare = (total - in.Amount) / total
	}
	return res, true
}

func (in EMIInput) Entry() (Entry, bool) {
	res, ok := in.Calculate()
	if !ok {
		return Entry{}, false
	}
	unit := "y"
	if in.Months {
		unit = "m"
	}
	return Entry{
		Category:   CategoryEMI,
		Expression: fmt.Sprintf("EMI: %s @ %s%% for %s%s", num(in.Amount), num(in.Rate), num(in.Tenure), unit),
		Result:     fmt.Sprintf("EMI: %s, Total: %s", res.EMI.StringFixed(2), res.Total.StringFixed(2)),
	}, true
}

// InterestKind selects between simple and compound interest.
type InterestKind int

const (
	Simple InterestKind = iota
	Compound
)

func (k InterestKind) String() string {
	if k == Compound {
		return "Compound"
	}
	return "Simple"
}

// InterestInput is a principal invested for a whole number of years.
type InterestInput struct {
	Kind      InterestKind
	Principal float64
	// Rate is the annual interest rate in percent.
	Rate  float64
	Years float64
	// CompoundEvery and CompoundUnit set the compounding period of compound
	// interest, as in every 3 Months. Zero means once per unit.
	CompoundEvery float64
	CompoundUnit  RateUnit
}

// Calculate applies simple interest, P*R*T/100, or compounds n times a
// year where n is the number of compounding periods in a year.
func (in InterestInput) Calculate() (Amount, bool) {
	if in.Principal <= 0 || in.Rate < 0 || in.Years <= 0 {
		return Amount{}, false
	}

	if in.Kind == Simple {
		return amountOf(in.Principal, in.Principal+in.Principal*in.Rate*in.Years/100), true
	}

	every := in.CompoundEvery
	if every <= 0 {
		every = 1
	}
	n := in.CompoundUnit.perYear(false) / every
	total := in.Principal * math.Pow(1+in.Rate/100/n, n*in.Years)
	if !finite(total) {
		return Amount{}, false
	}
	return amountOf(in.Principal, total), true
}

func (in InterestInput) Entry() (Entry, bool) {
	res, ok := in.Calculate()
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Category:   CategoryInterest,
		Expression: fmt.Sprintf("%s Int: %s @ %s%% for %sy", in.Kind, num(in.Principal), num(in.Rate), num(in.Years)),
		Result:     fmt.Sprintf("Int: %s, Total: %s", res.Interest.StringFixed(2), res.Total.StringFixed(2)),
	}, true
}

// StockInput averages a holding with a second purchase.
type StockInput struct {
	Quantity1 float64
	Price1    float64
	Quantity2 float64
	Price2    float64
}

// StockResult is the combined position.
type StockResult struct {
	Quantity float64
	Cost     decimal.Decimal
	Average  decimal.Decimal
	Cost1    decimal.Decimal
	Cost2    decimal.Decimal
}

func (in StockInput) Calculate() (StockResult, bool) {
	qty := in.Quantity1 + in.Quantity2
	if qty <= 0 || in.Quantity1 < 0 || in.Quantity2 < 0 {
		return StockResult{}, false
	}

	cost1 := in.Quantity1 * in.Price1
	cost2 := in.Quantity2 * in.Price2
	return StockResult{
		Quantity: qty,
		Cost:     money(cost1 + cost2),
		Average:  money((cost1 + cost2) / qty),
		Cost1:    money(cost1),
		Cost2:    money(cost2),
	}, true
}

func (in StockInput) Entry() (Entry, bool) {
	res, ok := in.Calculate()
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Category: CategoryStocks,
		Expression: fmt.Sprintf("Stock Avg: %sx%s + %sx%s",
			num(in.Quantity1), num(in.Price1), num(in.Quantity2), num(in.Price2)),
		Result: fmt.Sprintf("Avg: %s, Qty: %s", res.Average.StringFixed(2), num(res.Quantity)),
	}, true
}

// SIPInput is a fixed monthly investment.
type SIPInput struct {
	Monthly float64
	// Rate is the expected annual return in percent.
	Rate  float64
	Years float64
}

// SIPResult values are rounded to whole rupees.
type SIPResult struct {
	Invested decimal.Decimal
	Returns  decimal.Decimal
	Total    decimal.Decimal
	// ReturnShare is the part of the final value made of returns.
	ReturnShare float64
}

// Calculate returns the future value of instalments paid at the start of
// every month.
func (in SIPInput) Calculate() (SIPResult, bool) {
	if in.Monthly <= 0 || in.Rate < 0 || in.Years <= 0 {
		return SIPResult{}, false
	}

	n := in.Years * 12
	i := in.Rate / 100 / 12
	invested := in.Monthly * n
	total := invested
	if i > 0 {
		total = in.Monthly * ((math.Pow(1+i, n) - 1) / i) * (1 + i)
	}
	if !finite(total) {
		return SIPResult{}, false
	}

	returns := total - invested
	res := SIPResult{
		Invested: decimal.NewFromFloat(invested).Round(0),
		Returns:  decimal.NewFromFloat(returns).Round(0),
		Total:    decimal.NewFromFloat(total).Round(0),
	}
	if total > 0 {
		res.ReturnShare = returns / total
	}
	return res, true
}

func (in SIPInput) Entry() (Entry, bool) {
	res, ok := in.Calculate()
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Category:   CategorySIP,
		Expression: fmt.Sprintf("SIP: %s @ %s%% for %sy", num(in.Monthly), num(in.Rate), num(in.Years)),
		Result:     fmt.Sprintf("Total: %s, Ret: %s", res.Total.StringFixed(0), res.Returns.StringFixed(0)),
	}, true
}

// GSTInput is an amount and a tax rate. Inclusive marks the amount as
// already containing the tax.
type GSTInput struct {
	Amount    float64
	Rate      float64
	Inclusive bool
}

// GSTResult splits a price into its net part and the tax.
type GSTResult struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Total decimal.Decimal
}

func (in GSTInput) Calculate() (GSTResult, bool) {
	if in.Amount <= 0 || in.Rate < 0 {
		return GSTResult{}, false
	}

	if in.Inclusive {
		net := in.Amount / (1 + in.Rate/100)
		return GSTResult{Net: money(net), Tax: money(in.Amount - net), Total: money(in.Amount)}, true
	}
	tax := in.Amount * in.Rate / 100
	return GSTResult{Net: money(in.Amount), Tax: money(tax), Total: money(in.Amount + tax)}, true
}

func (in GSTInput) kind() string {
	if in.Inclusive {
		return "Inclusive"
	}
	return "Exclusive"
}

func (in GSTInput) Entry() (Entry, bool) {
	res, ok := in.Calculate()
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Category:   CategoryGST,
		Expression: fmt.Sprintf("GST: %s @ %s%% (%s)", num(in.Amount), num(in.Rate), in.kind()),
		Result:     fmt.Sprintf("Total: %s, GST: %s", res.Total.StringFixed(2), res.Tax.StringFixed(2)),
	}, true
}
