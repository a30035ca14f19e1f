package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/turbekoff/tabcalc/pkg/convert"
	"github.com/turbekoff/tabcalc/pkg/datecalc"
	"github.com/turbekoff/tabcalc/pkg/history"
	"github.com/turbekoff/tabcalc/pkg/timezone"
)

var highlightStyle = lipgloss.NewStyle().Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// convertValue dispatches to the factor tables, the temperature scales or
// the number systems.
func convertValue(category, value, from, to string) (string, error) {
	switch strings.ToLower(category) {
	case "temperature", "temp":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", errors.Wrapf(convert.ErrInvalidNumber, "%q", value)
		}
		f, ok := convert.ParseScale(from)
		if !ok {
			return "", errors.Wrapf(convert.ErrUnknownUnit, "temperature unit %q", from)
		}
		t, ok := convert.ParseScale(to)
		if !ok {
			return "", errors.Wrapf(convert.ErrUnknownUnit, "temperature unit %q", to)
		}
		return convert.Temperature(v, f, t), nil

	case "number", "numsys", "base":
		f, err := strconv.Atoi(from)
		if err != nil {
			return "", errors.Wrapf(convert.ErrInvalidNumber, "base %q", from)
		}
		t, err := strconv.Atoi(to)
		if err != nil {
			return "", errors.Wrapf(convert.ErrInvalidNumber, "base %q", to)
		}
		return convert.NumberSystem(value, f, t)
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", errors.Wrapf(convert.ErrInvalidNumber, "%q", value)
	}
	return convert.Convert(category, v, from, to)
}

// unitNames lists the units a category offers, temperature included.
func unitNames(category string) []string {
	if strings.EqualFold(category, "temperature") {
		return []string{convert.Celsius.String(), convert.Fahrenheit.String(), convert.Kelvin.String()}
	}
	t, ok := convert.Lookup(category)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(t.Units))
	for _, u := range t.Units {
		names = append(names, u.Name)
	}
	return names
}

// pickConversion asks for the arguments of convert one at a time.
func pickConversion() ([]string, error) {
	categories := make([]string, 0, len(convert.Tables())+1)
	for _, t := range convert.Tables() {
		categories = append(categories, t.Category)
	}
	categories = append(categories, "Temperature")

	categorySelect := promptui.Select{Label: "Category", Items: categories, Size: len(categories)}
	_, category, err := categorySelect.Run()
	if err != nil {
		return nil, err
	}

	valuePrompt := promptui.Prompt{
		Label: "Value",
		Validate: func(s string) error {
			_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			return err
		},
	}
	value, err := valuePrompt.Run()
	if err != nil {
		return nil, err
	}

	units := unitNames(category)
	fromSelect := promptui.Select{Label: "From", Items: units, Size: 10}
	_, from, err := fromSelect.Run()
	if err != nil {
		return nil, err
	}
	toSelect := promptui.Select{Label: "To", Items: units, Size: 10}
	_, to, err := toSelect.Run()
	if err != nil {
		return nil, err
	}
	return []string{category, strings.TrimSpace(value), from, to}, nil
}

func newConvertCommand(a *app) *cobra.Command {
	var (
		list bool
		save bool
	)

	cmd := &cobra.Command{
		Use:   "convert CATEGORY VALUE FROM TO",
		Short: "Convert between units",
		Long: `Convert a value between two units of a category. Units are matched by
their full name, the name without the abbreviation or the abbreviation
alone, in any case. Besides the unit tables, the categories temperature
(C, F, K) and number (bases 2 to 36) are available. Without arguments the
category, value and units are asked for interactively.`,
		Example: `  tabcalc convert length 5 km mi
  tabcalc convert area 1 acre cent
  tabcalc convert temperature 100 F C
  tabcalc convert number ff 16 2
  tabcalc convert --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list || len(args) == 0 {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(4)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				t := newTable("Category", "Unit", "In base unit")
				for _, tab := range convert.Tables() {
					for _, u := range tab.Units {
						t.Row(tab.Category, u.Name, strconv.FormatFloat(u.Factor, 'g', -1, 64)+" "+tab.Base)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			}

			if len(args) == 0 {
				picked, err := pickConversion()
				if err != nil {
					return err
				}
				args = picked
			}

			category, value, from, to := args[0], args[1], args[2], args[3]
			res, err := convertValue(category, value, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)

			if !save {
				return nil
			}
			return a.save(cmd.Context(), cmd.ErrOrStderr(), history.Record{
				Expression: fmt.Sprintf("%s %s to %s", value, from, to),
				Result:     fmt.Sprintf("%s %s", res, to),
				Mode:       history.ModeConv,
				Category:   category,
			})
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list the unit tables")
	return withSave(cmd, &save)
}

func newBMICommand(a *app) *cobra.Command {
	var (
		weight, height float64
		feet, inches   float64
		save           bool
	)

	cmd := &cobra.Command{
		Use:   "bmi",
		Short: "Body mass index",
		Example: `  tabcalc bmi --weight 70 --height 175
  tabcalc bmi --weight 70 --feet 5 --inches 9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if height == 0 {
				height = convert.Centimetres(feet, inches)
			}
			res, ok := convert.BMI(weight, height)
			if !ok {
				return errInvalidInput
			}
			printFields(cmd.OutOrStdout(),
				field{"BMI", res.Value.StringFixed(1)},
				field{"Category", res.Category},
				field{"Height", fmt.Sprintf("%d cm, %s", res.HeightCm, res.HeightFeet)},
			)

			if !save {
				return nil
			}
			return a.save(cmd.Context(), cmd.ErrOrStderr(), history.Record{
				Expression: fmt.Sprintf("BMI: %skg, %dcm", strconv.FormatFloat(weight, 'f', -1, 64), res.HeightCm),
				Result:     fmt.Sprintf("%s (%s)", res.Value.StringFixed(1), res.Category),
				Mode:       history.ModeConv,
				Category:   "BMI",
			})
		},
	}

	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "weight in kilograms")
	cmd.Flags().Float64Var(&height, "height", 0, "height in centimetres")
	cmd.Flags().Float64Var(&feet, "feet", 0, "height in feet, with --inches")
	cmd.Flags().Float64Var(&inches, "inches", 0, "remaining inches of the height")
	return withSave(cmd, &save)
}

func newTimezoneCommand(a *app) *cobra.Command {
	var (
		from, to string
		zones    bool
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "tz [DATE] TIME",
		Short: "Show a wall-clock time in every time zone",
		Long: `Read a date and time in the source zone and list the same instant in
every zone of the table, with its offset to the source. The date defaults
to today in the home zone.`,
		Example: `  tabcalc tz 14:30 --to America/New_York
  tabcalc tz 5-1-2025 14:30 --from Asia/Kolkata --to Asia/Tokyo`,
		Args: func(cmd *cobra.Command, args []string) error {
			if zones {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if zones {
				t := newTable("Zone", "ID")
				for _, z := range timezone.Zones() {
					t.Row(z.Label, z.ID)
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			}

			if from == "" {
				from = a.config.Timezone.String()
			}
			if to == "" {
				to = from
			}
			date := datecalc.DateOf(time.Now().In(a.config.Timezone)).String()
			clock := args[0]
			if len(args) == 2 {
				date, clock = args[0], args[1]
			}

			rows, err := timezone.Convert(date, clock, from, to)
			if err != nil {
				return err
			}

			t := newTable("Zone", "Time", "Offset").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row >= 0 && row < len(rows) && (rows[row].Input || rows[row].Target) {
						return highlightStyle
					}
					return lipgloss.NewStyle()
				})
			var target timezone.Row
			for _, r := range rows {
				t.Row(r.Label, r.Time, r.Offset)
				if r.Target {
					target = r
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())

			if !save || target.ID == "" {
				return nil
			}
			return a.save(cmd.Context(), cmd.ErrOrStderr(), history.Record{
				Expression: fmt.Sprintf("Time Zone: %s %s %s to %s", from, date, datecalc.ParseClock(clock), to),
				Result:     target.Time,
				Mode:       history.ModeConv,
				Category:   "Time Zone",
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source zone id (default the home zone)")
	cmd.Flags().StringVar(&to, "to", "", "target zone id, listed second")
	cmd.Flags().BoolVar(&zones, "zones", false, "list the zones of the table")
	return withSave(cmd, &save)
}
