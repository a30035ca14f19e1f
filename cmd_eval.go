package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/turbekoff/tabcalc/pkg/calc"
	"github.com/turbekoff/tabcalc/pkg/history"
	"github.com/turbekoff/tabcalc/pkg/numfmt"
)

var labelStyle = lipgloss.NewStyle().Bold(true).Width(14)

// field is one labelled line of command output.
type field struct {
	label string
	value string
}

func printFields(w io.Writer, fields ...field) {
	for _, f := range fields {
		fmt.Fprintln(w, labelStyle.Render(f.label)+f.value)
	}
}

// save records a calculation when the user asked for it. History that is
// not persisted is pointless for a one-shot command, so it is skipped with
// a hint.
func (a *app) save(ctx context.Context, w io.Writer, r history.Record) error {
	if a.config.HistoryPath == "" {
		fmt.Fprintln(w, "not saved: set TABCALC_HISTORY_PATH to keep history")
		return nil
	}

	store, err := a.openHistory(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Add(ctx, r)
	return errors.Wrap(err, "save history")
}

func withSave(cmd *cobra.Command, save *bool) *cobra.Command {
	cmd.Flags().BoolVarP(save, "save", "s", false, "add the result to the history")
	return cmd
}

func (a *app) angleMode(flag string) (calc.AngleMode, error) {
	mode := a.config.AngleMode
	if flag == "" {
		return mode, nil
	}
	err := mode.UnmarshalText([]byte(flag))
	return mode, err
}

func newEvalCommand(a *app) *cobra.Command {
	var (
		angle    string
		decimals int
		compiled bool
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "eval EXPRESSION...",
		Short: "Evaluate a calculator expression",
		Long: `Evaluate an expression as the keypad would. Half-typed input is repaired:
trailing operators are dropped, missing closing parens are added and
multiplication is implied between adjacent terms.`,
		Example: `  tabcalc eval "5+10%"
  tabcalc eval 2π
  tabcalc eval --angle rad "sin(π÷2"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := a.angleMode(angle)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("decimals") {
				decimals = a.config.PreviewDecimals
			}

			expression := strings.Join(args, "")
			if compiled {
				rewritten, err := calc.Compile(expression, mode)
				if err != nil {
					return errors.Wrapf(err, "compile %q", expression)
				}
				fmt.Fprintln(cmd.OutOrStdout(), rewritten)
				return nil
			}

			res := calc.Evaluate(expression, mode)
			if !res.OK() {
				return errors.Wrapf(res.Err, "evaluate %q", expression)
			}
			fmt.Fprintln(cmd.OutOrStdout(), numfmt.Format(res.Text, decimals))

			if !save {
				return nil
			}
			return a.save(cmd.Context(), cmd.ErrOrStderr(), history.Record{
				Expression: expression,
				Result:     res.Text,
				Mode:       history.ModeCalc,
			})
		},
	}

	cmd.Flags().StringVar(&angle, "angle", "", "angle unit of trigonometric functions, deg or rad")
	cmd.Flags().IntVarP(&decimals, "decimals", "d", 10, "maximum fraction digits shown")
	cmd.Flags().BoolVar(&compiled, "compile", false, "print the rewritten expression instead of its value")
	return withSave(cmd, &save)
}
