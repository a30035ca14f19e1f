package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/turbekoff/tabcalc/pkg/datecalc"
	"github.com/turbekoff/tabcalc/pkg/finance"
	"github.com/turbekoff/tabcalc/pkg/history"
	"github.com/turbekoff/tabcalc/pkg/numfmt"
)

var errInvalidInput = errors.New("missing or invalid figures")

func rupees(d decimal.Decimal) string {
	return "₹" + numfmt.Format(d.StringFixed(2), 2)
}

func percent(share float64) string {
	return numfmt.FormatFloat(share*100, 1) + "%"
}

// saveEntry records a finance calculation under its history line.
func (a *app) saveEntry(cmd *cobra.Command, c finance.Calculation) error {
	entry, ok := c.Entry()
	if !ok {
		return errInvalidInput
	}
	return a.save(cmd.Context(), cmd.ErrOrStderr(), history.Record{
		Expression: entry.Expression,
		Result:     entry.Result,
		Mode:       history.ModeFinance,
		Category:   string(entry.Category),
	})
}

func newEMICommand(a *app) *cobra.Command {
	var (
		in   finance.EMIInput
		save bool
	)

	cmd := &cobra.Command{
		Use:     "emi",
		Short:   "Monthly instalment of a loan",
		Example: `  tabcalc emi --amount 100000 --rate 12 --tenure 1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, ok := in.Calculate()
			if !ok {
				return errInvalidInput
			}
			printFields(cmd.OutOrStdout(),
				field{"EMI", rupees(res.EMI)},
				field{"Interest", rupees(res.Interest)},
				field{"Total", rupees(res.Total)},
				field{"Split", fmt.Sprintf("principal %s, interest %s", percent(res.PrincipalShare), percent(res.InterestShare))},
			)
			if save {
				return a.saveEntry(cmd, in)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&in.Amount, "amount", "a", 0, "loan amount")
	cmd.Flags().Float64VarP(&in.Rate, "rate", "r", 0, "annual interest rate in percent")
	cmd.Flags().Float64VarP(&in.Tenure, "tenure", "t", 0, "loan tenure, in years unless --months")
	cmd.Flags().BoolVar(&in.Months, "months", false, "tenure is given in months")
	return withSave(cmd, &save)
}

func newInterestCommand(a *app) *cobra.Command {
	var (
		in       finance.InterestInput
		compound bool
		unit     string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "interest",
		Short: "Simple or compound interest over whole years",
		Example: `  tabcalc interest -p 10000 -r 10 -y 2
  tabcalc interest -p 10000 -r 10 -y 2 --compound --every 3 --unit monthly`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if compound {
				in.Kind = finance.Compound
			}
			u, ok := finance.ParseRateUnit(unit)
			if !ok {
				return errors.Errorf("unknown compounding unit %q", unit)
			}
			in.CompoundUnit = u

			res, ok := in.Calculate()
			if !ok {
				return errInvalidInput
			}
			printFields(cmd.OutOrStdout(),
				field{in.Kind.String(), rupees(res.Interest)},
				field{"Total", rupees(res.Total)},
			)
			if save {
				return a.saveEntry(cmd, in)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&in.Principal, "principal", "p", 0, "amount invested")
	cmd.Flags().Float64VarP(&in.Rate, "rate", "r", 0, "annual interest rate in percent")
	cmd.Flags().Float64VarP(&in.Years, "years", "y", 0, "duration in years")
	cmd.Flags().BoolVar(&compound, "compound", false, "compound instead of simple interest")
	cmd.Flags().Float64Var(&in.CompoundEvery, "every", 1, "compound every n units")
	cmd.Flags().StringVar(&unit, "unit", "yearly", "compounding unit: yearly, monthly, weekly or daily")
	return withSave(cmd, &save)
}

func parseDayCount(s string) (finance.DayCount, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "30", "30/360", "banker":
		return finance.Mode30360, true
	case "actual", "actual/365", "365", "cal":
		return finance.ModeActual365, true
	}
	return finance.Mode30360, false
}

func newRegularCommand(a *app) *cobra.Command {
	var (
		in       finance.RegularInput
		unit     string
		dayCount string
		nthUnit  string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "regular",
		Short: "Interest on a deposit between two dates",
		Long: `Simple interest on a deposit between two dates, with the amounts it
would reach when compounded every three years, two years, every year and
every nth period. Days are counted 30/360 or actual/365.`,
		Example: `  tabcalc regular -p 100000 -r 1 --start 1-1-2022 --end 1-1-2025
  tabcalc regular -p 100000 -r 12 --unit yearly --day-count actual --start 1-1-2024 --end 1-1-2025`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ok bool
			if in.RateUnit, ok = finance.ParseRateUnit(unit); !ok {
				return errors.Errorf("unknown rate unit %q", unit)
			}
			if in.DayCount, ok = parseDayCount(dayCount); !ok {
				return errors.Errorf("unknown day count %q", dayCount)
			}
			if in.NthUnit, ok = finance.ParsePeriodUnit(nthUnit); !ok {
				return errors.Errorf("unknown period unit %q", nthUnit)
			}
			in.Today = time.Now().In(a.config.Timezone)
			if in.End == "" {
				in.End = datecalc.DateOf(in.Today).String()
			}

			res, ok := finance.RegularInterest(in)
			if !ok {
				return errInvalidInput
			}

			end := res.End
			if res.EndsToday {
				end += " (today)"
			}
			b := res.Breakdown
			fields := []field{
				{"Period", fmt.Sprintf("%s to %s", res.Start, end)},
				{"Days", fmt.Sprintf("%d (%dy %dm %dd, %s)", res.Days, b.Years, b.Months, b.Days, res.DayCount)},
				{"Monthly rate", numfmt.FormatFloat(res.MonthlyRate, 2) + "%"},
				{"Simple", fmt.Sprintf("%s, total %s", rupees(res.Simple.Interest), rupees(res.Simple.Total))},
			}
			for _, c := range []struct {
				label  string
				amount *finance.Amount
			}{
				{"Every 3 years", res.Every3Years},
				{"Every 2 years", res.Every2Years},
				{"Every year", res.EveryYear},
				{"Every " + res.NthLabel, res.Nth},
			} {
				if c.amount != nil {
					fields = append(fields, field{c.label, fmt.Sprintf("%s, total %s", rupees(c.amount.Interest), rupees(c.amount.Total))})
				}
			}
			printFields(cmd.OutOrStdout(), fields...)

			if save {
				return a.saveEntry(cmd, in)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&in.Principal, "principal", "p", 0, "amount deposited")
	cmd.Flags().Float64VarP(&in.Rate, "rate", "r", 0, "interest rate in percent per --unit")
	cmd.Flags().StringVar(&unit, "unit", "monthly", "rate unit: yearly, monthly, weekly or daily")
	cmd.Flags().StringVar(&in.Start, "start", "", "deposit date, d-m-yyyy")
	cmd.Flags().StringVar(&in.End, "end", "", "closing date, d-m-yyyy (default today)")
	cmd.Flags().StringVar(&dayCount, "day-count", "30", "day count convention: 30 (30/360) or actual (actual/365)")
	cmd.Flags().Float64Var(&in.NthValue, "nth", 0, "also compound every n --nth-unit")
	cmd.Flags().StringVar(&nthUnit, "nth-unit", "months", "period of --nth: years, months, weeks or days")
	return withSave(cmd, &save)
}

func newStockCommand(a *app) *cobra.Command {
	var (
		in   finance.StockInput
		save bool
	)

	cmd := &cobra.Command{
		Use:     "stock",
		Short:   "Average price of a holding after a second purchase",
		Example: `  tabcalc stock --qty1 10 --price1 100 --qty2 30 --price2 80`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, ok := in.Calculate()
			if !ok {
				return errInvalidInput
			}
			printFields(cmd.OutOrStdout(),
				field{"Average", rupees(res.Average)},
				field{"Quantity", numfmt.FormatFloat(res.Quantity, 4)},
				field{"Cost", fmt.Sprintf("%s + %s = %s", rupees(res.Cost1), rupees(res.Cost2), rupees(res.Cost))},
			)
			if save {
				return a.saveEntry(cmd, in)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.Quantity1, "qty1", 0, "quantity held")
	cmd.Flags().Float64Var(&in.Price1, "price1", 0, "price paid for the holding")
	cmd.Flags().Float64Var(&in.Quantity2, "qty2", 0, "quantity bought")
	cmd.Flags().Float64Var(&in.Price2, "price2", 0, "price of the new purchase")
	return withSave(cmd, &save)
}

func newSIPCommand(a *app) *cobra.Command {
	var (
		in   finance.SIPInput
		save bool
	)

	cmd := &cobra.Command{
		Use:     "sip",
		Short:   "Future value of a monthly investment plan",
		Example: `  tabcalc sip --monthly 5000 --rate 12 --years 10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, ok := in.Calculate()
			if !ok {
				return errInvalidInput
			}
			printFields(cmd.OutOrStdout(),
				field{"Invested", "₹" + numfmt.Format(res.Invested.String(), 0)},
				field{"Returns", "₹" + numfmt.Format(res.Returns.String(), 0)},
				field{"Total", "₹" + numfmt.Format(res.Total.String(), 0)},
				field{"Return share", percent(res.ReturnShare)},
			)
			if save {
				return a.saveEntry(cmd, in)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&in.Monthly, "monthly", "m", 0, "monthly instalment")
	cmd.Flags().Float64VarP(&in.Rate, "rate", "r", 0, "expected annual return in percent")
	cmd.Flags().Float64VarP(&in.Years, "years", "y", 0, "duration in years")
	return withSave(cmd, &save)
}

func newGSTCommand(a *app) *cobra.Command {
	var (
		in   finance.GSTInput
		save bool
	)

	cmd := &cobra.Command{
		Use:   "gst",
		Short: "Add or extract goods and services tax",
		Example: `  tabcalc gst --amount 1000 --rate 18
  tabcalc gst --amount 1180 --rate 18 --inclusive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, ok := in.Calculate()
			if !ok {
				return errInvalidInput
			}
			printFields(cmd.OutOrStdout(),
				field{"Net", rupees(res.Net)},
				field{"GST", rupees(res.Tax)},
				field{"Total", rupees(res.Total)},
			)
			if save {
				return a.saveEntry(cmd, in)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&in.Amount, "amount", "a", 0, "price")
	cmd.Flags().Float64VarP(&in.Rate, "rate", "r", 18, "tax rate in percent")
	cmd.Flags().BoolVar(&in.Inclusive, "inclusive", false, "the amount already contains the tax")
	return withSave(cmd, &save)
}
