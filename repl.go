package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/turbekoff/tabcalc/pkg/calc"
	"github.com/turbekoff/tabcalc/pkg/history"
	"github.com/turbekoff/tabcalc/pkg/numfmt"
)

const replHelp = `Type an expression to evaluate it, for example 5+10%, 2π or sin(30.
A line that starts with an operator continues from the last result,
and "ans" stands for it.

Commands:
  help     show this help
  history  list the saved calculations
  deg      trigonometry in degrees
  rad      trigonometry in radians
  clear    clear the screen
  exit     quit`

var replCompleter = readline.NewPrefixCompleter(
	readline.PcItem("help"),
	readline.PcItem("history"),
	readline.PcItem("deg"),
	readline.PcItem("rad"),
	readline.PcItem("clear"),
	readline.PcItem("exit"),
)

// keyboardOperators lets a line use the glyphs the keypad shows.
var keyboardOperators = strings.NewReplacer("*", "×", "/", "÷")

// continuing are the leading characters that extend the last result.
// A leading minus starts a negative number instead.
const continuing = "+*/×÷^%!R"

// repl is a line-oriented calculator session.
type repl struct {
	ctx      context.Context
	store    history.Store
	out      io.Writer
	angle    calc.AngleMode
	decimals int
	ans      string
}

func newREPL(ctx context.Context, a *app, store history.Store, out io.Writer) *repl {
	return &repl{
		ctx:      ctx,
		store:    store,
		out:      out,
		angle:    a.config.AngleMode,
		decimals: a.config.PreviewDecimals,
	}
}

func (r *repl) prompt() string {
	return fmt.Sprintf("tabcalc [%s] › ", r.angle)
}

// exec handles one input line and reports whether the session is over.
func (r *repl) exec(line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false, nil
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(r.out, replHelp)
		return false, nil
	case "clear":
		fmt.Fprint(r.out, "\033[2J\033[H")
		return false, nil
	case "deg":
		r.angle = calc.Degree
		return false, nil
	case "rad":
		r.angle = calc.Radian
		return false, nil
	case "history":
		return false, r.showHistory()
	}

	expr := r.expand(line)
	res := calc.Evaluate(expr, r.angle)
	if !res.OK() {
		return false, res.Err
	}

	r.ans = res.Text
	fmt.Fprintln(r.out, "= "+numfmt.Format(res.Text, r.decimals))

	_, err := r.store.Add(r.ctx, history.Record{
		Expression: expr,
		Result:     res.Text,
		Mode:       history.ModeCalc,
	})
	return false, errors.Wrap(err, "save history")
}

// expand substitutes the last result and maps keyboard operators to the
// keypad glyphs the history stores.
func (r *repl) expand(line string) string {
	if r.ans != "" {
		line = strings.ReplaceAll(line, "ans", r.ans)
		if strings.ContainsRune(continuing, []rune(line)[0]) {
			line = r.ans + line
		}
	}
	return keyboardOperators.Replace(line)
}

func (r *repl) showHistory() error {
	records, err := r.store.List(r.ctx, "")
	if err != nil {
		return err
	}

	var calcs int
	for _, rec := range records {
		if rec.Mode != history.ModeCalc {
			continue
		}
		calcs++
		fmt.Fprintf(r.out, "%3d. %s = %s\n", calcs, rec.Expression, numfmt.Format(rec.Result, r.decimals))
	}
	if calcs == 0 {
		fmt.Fprintln(r.out, "No calculations yet.")
	}
	return nil
}

func newREPLCommand(a *app) *cobra.Command {
	var historyFile string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Line-by-line calculator prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openHistory(ctx)
			if err != nil {
				a.logger.Printf("failed to open history, error: %v", err)
				return err
			}
			defer store.Close()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:            "",
				HistoryFile:       historyFile,
				AutoComplete:      replCompleter,
				InterruptPrompt:   "^C",
				EOFPrompt:         "exit",
				HistorySearchFold: true,
			})
			if err != nil {
				return errors.Wrap(err, "start prompt")
			}
			defer rl.Close()

			r := newREPL(ctx, a, store, rl.Stdout())
			fmt.Fprintln(r.out, `tabcalc, type "help" for the commands`)
			for {
				rl.SetPrompt(r.prompt())
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}

				done, err := r.exec(line)
				if err != nil {
					fmt.Fprintf(r.out, "error: %v\n", err)
				}
				if done {
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&historyFile, "history-file", "", "keep the typed lines in this file across sessions")
	return cmd
}
