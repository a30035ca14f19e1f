package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/turbekoff/tabcalc/pkg/datecalc"
	"github.com/turbekoff/tabcalc/pkg/history"
	"github.com/turbekoff/tabcalc/pkg/numfmt"
)

var errInvalidDate = errors.New("invalid date, expected d-m-yyyy")

func parseDate(s string) (datecalc.Date, error) {
	d, ok := datecalc.ParseDate(s)
	if !ok {
		return datecalc.Date{}, errors.Wrapf(errInvalidDate, "%q", s)
	}
	return d, nil
}

func parseKind(s string) (datecalc.Kind, error) {
	switch strings.ToLower(s) {
	case "datetime", "":
		return datecalc.DateTime, nil
	case "date":
		return datecalc.DateOnly, nil
	case "time":
		return datecalc.TimeOnly, nil
	}
	return datecalc.DateTime, errors.Errorf("unknown difference kind %q", s)
}

func newDateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "date",
		Short: "Date differences, date arithmetic and age",
	}
	cmd.AddCommand(
		newDateDiffCommand(a),
		newDateAddCommand(),
		newAgeCommand(a),
	)
	return cmd
}

func newDateDiffCommand(a *app) *cobra.Command {
	var (
		fromTime, toTime string
		kind             string
		save             bool
	)

	cmd := &cobra.Command{
		Use:   "diff FROM TO",
		Short: "Distance between two dates",
		Example: `  tabcalc date diff 1-1-2024 5-3-2025
  tabcalc date diff 1-1-2024 5-3-2025 --from-time 9:30 --to-time 8:00`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKind(kind)
			if err != nil {
				return err
			}
			from, err := parseDate(args[0])
			if err != nil {
				return err
			}
			to, err := parseDate(args[1])
			if err != nil {
				return err
			}

			loc := a.config.Timezone
			d := datecalc.Diff(
				from.At(datecalc.ParseClock(fromTime), loc),
				to.At(datecalc.ParseClock(toTime), loc),
				k,
			)
			printFields(cmd.OutOrStdout(),
				field{"Difference", d.Breakdown},
				field{"Days", numfmt.FormatFloat(float64(d.Days), 0)},
				field{"Hours", numfmt.FormatFloat(float64(d.Hours), 0)},
				field{"Minutes", numfmt.FormatFloat(float64(d.Minutes), 0)},
				field{"Seconds", numfmt.FormatFloat(float64(d.Seconds), 0)},
			)

			if !save {
				return nil
			}
			return a.save(cmd.Context(), cmd.ErrOrStderr(), history.Record{
				Expression: fmt.Sprintf("Date Diff: %s to %s", from, to),
				Result:     d.Breakdown,
				Mode:       history.ModeConv,
				Category:   "Date",
			})
		},
	}

	cmd.Flags().StringVar(&fromTime, "from-time", "", "time of day of FROM, h:m[:s]")
	cmd.Flags().StringVar(&toTime, "to-time", "", "time of day of TO, h:m[:s]")
	cmd.Flags().StringVar(&kind, "kind", "datetime", "what to compare: datetime, date or time")
	return withSave(cmd, &save)
}

func newDateAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add DATE DAYS",
		Short: "Move a date by a number of days",
		Example: `  tabcalc date add 1-1-2025 100
  tabcalc date add 1-1-2025 -- -30`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(err, "parse days %q", args[1])
			}

			res, weekday := datecalc.AddDays(d, n)
			fmt.Fprintf(cmd.OutOrStdout(), "%s, %s\n", res.Friendly(), weekday)
			return nil
		},
	}
}

func newAgeCommand(a *app) *cobra.Command {
	var (
		birthTime string
		at        string
		save      bool
	)

	cmd := &cobra.Command{
		Use:     "age BIRTHDATE",
		Short:   "Age at a date, by default now",
		Example: `  tabcalc date age 15-3-1990 --time 6:30`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.config.Timezone
			birth, err := parseDate(args[0])
			if err != nil {
				return err
			}

			now := time.Now().In(loc)
			if at != "" {
				d, err := parseDate(at)
				if err != nil {
					return err
				}
				now = d.In(loc)
			}

			age := datecalc.Age(birth.At(datecalc.ParseClock(birthTime), loc), now)
			summary := fmt.Sprintf("%dy %dm %dd", age.Years, age.Months, age.Days)
			printFields(cmd.OutOrStdout(),
				field{"Age", fmt.Sprintf("%s %dh %dm", summary, age.Hours, age.Minutes)},
				field{"Months", numfmt.FormatFloat(float64(age.TotalMonths), 0)},
				field{"Weeks", numfmt.FormatFloat(float64(age.TotalWeeks), 0)},
				field{"Days", numfmt.FormatFloat(float64(age.TotalDays), 0)},
				field{"Hours", numfmt.FormatFloat(float64(age.TotalHours), 0)},
				field{"Minutes", numfmt.FormatFloat(float64(age.TotalMinutes), 0)},
				field{"Seconds", numfmt.FormatFloat(float64(age.TotalSeconds), 0)},
			)

			if !save {
				return nil
			}
			return a.save(cmd.Context(), cmd.ErrOrStderr(), history.Record{
				Expression: "Age: " + birth.String(),
				Result:     summary,
				Mode:       history.ModeConv,
				Category:   "Age",
			})
		},
	}

	cmd.Flags().StringVar(&birthTime, "time", "", "time of birth, h:m")
	cmd.Flags().StringVar(&at, "at", "", "compute the age at this date instead of now")
	return withSave(cmd, &save)
}
