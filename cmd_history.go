package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/turbekoff/tabcalc/pkg/calc"
	"github.com/turbekoff/tabcalc/pkg/env"
	"github.com/turbekoff/tabcalc/pkg/finance"
	"github.com/turbekoff/tabcalc/pkg/history"
	"github.com/turbekoff/tabcalc/pkg/numfmt"
)

// recalculate evaluates a history expression again, as reopening it in
// its tool would. Conversions depend on the clock or on tables and are
// reported as is.
func recalculate(r history.Record, angle calc.AngleMode) (string, bool) {
	switch r.Mode {
	case history.ModeCalc:
		res := calc.Evaluate(r.Expression, angle)
		return res.Text, res.OK()
	case history.ModeFinance:
		c, ok := finance.ParseHistory(r.Expression)
		if !ok {
			return "", false
		}
		entry, ok := c.Entry()
		return entry.Result, ok
	}
	return r.Result, true
}

func newHistoryCommand(a *app) *cobra.Command {
	var (
		asYAML   bool
		clearAll bool
		remove   string
		recalc   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, export or clear the saved calculations",
		Example: `  tabcalc history
  tabcalc history --yaml > history.yaml
  tabcalc history --remove 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if clearAll {
				return store.Clear(ctx, "")
			}

			records, err := store.List(ctx, "")
			if err != nil {
				return err
			}

			if remove != "" {
				id := remove
				if n, err := strconv.Atoi(remove); err == nil && n >= 1 && n <= len(records) {
					id = records[n-1].ID
				}
				return store.Remove(ctx, id)
			}

			out := cmd.OutOrStdout()
			if asYAML {
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				return enc.Encode(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No calculations yet.")
				return nil
			}

			headers := []string{"#", "When", "Expression", "Result"}
			if recalc {
				headers = append(headers, "Now")
			}
			t := newTable(headers...)
			for i, r := range records {
				result := r.Result
				if r.Mode == history.ModeCalc {
					result = numfmt.Format(result, a.config.HistoryDecimals)
				}
				row := []string{
					strconv.Itoa(i + 1),
					r.Timestamp.In(a.config.Timezone).Format("02-01-2006 15:04"),
					r.Expression,
					result,
				}
				if recalc {
					now, ok := recalculate(r, a.config.AngleMode)
					if !ok {
						now = "error"
					}
					row = append(row, now)
				}
				t.Row(row...)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the records as YAML")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every record")
	cmd.Flags().StringVar(&remove, "remove", "", "delete the record at this position of the listing, or with this id")
	cmd.Flags().BoolVar(&recalc, "recalc", false, "evaluate every record again")
	return cmd
}

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables tabcalc reads",
		Args:  cobra.NoArgs,
		// The listing must work even when the environment is invalid.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "All commands:")
			fmt.Fprint(out, env.Usage(&Config{}))
			fmt.Fprintln(out, "\ntabcalc bot:")
			fmt.Fprint(out, env.Usage(&BotConfig{}))
		},
	}
}
