// Package calc evaluates the free-form expressions typed on the calculator
// keypad.
//
// Input goes through a fixed sequence of text rewrites before it reaches a
// small recursive-descent evaluator:
//
//	normalize -> insert implicit multiplication -> substitute functions
//	  -> percent, power and constants -> angle mode -> balance parens
//	  -> expand factorials -> evaluate
//
// Every stage accepts any string, so half-typed input such as "sin(30" or
// "5+" still produces a result or a well defined error.
package calc

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedInput reports input that cannot be repaired into an
	// expression: a trailing open paren, unbalanced closing parens, unknown
	// symbols or an unsupported factorial.
	ErrMalformedInput = errors.New("malformed input")
	// ErrDomain reports a result that is not a finite number.
	ErrDomain = errors.New("result is not a finite number")
	// ErrNotANumber reports rewritten text the evaluator could not parse.
	ErrNotANumber = errors.New("not a number")
)

// resultDecimals is the number of fraction digits kept in a result. It hides
// binary floating point noise such as 0.1+0.2 = 0.30000000000000004.
const resultDecimals = 8

// AngleMode selects the unit consumed and produced by trigonometric functions.
type AngleMode int

const (
	Degree AngleMode = iota
	Radian
)

func (m AngleMode) String() string {
	if m == Radian {
		return "rad"
	}
	return "deg"
}

// Toggle returns the other angle mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Radian {
		return Degree
	}
	return Radian
}

func (m AngleMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *AngleMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "deg", "degree", "degrees":
		*m = Degree
	case "rad", "radian", "radians":
		*m = Radian
	default:
		return fmt.Errorf("unknown angle mode %q", text)
	}
	return nil
}

// Result is the outcome of an evaluation: a number when Err is nil, an error
// otherwise.
type Result struct {
	Value float64
	Text  string
	Err   error
}

// OK reports whether the result holds a number.
func (r Result) OK() bool {
	return r.Err == nil
}

func (r Result) String() string {
	if r.Err != nil {
		return "Error"
	}
	return r.Text
}

// Evaluate runs the full pipeline over the text of a calculator buffer.
func Evaluate(buffer string, mode AngleMode) Result {
	compiled, err := Compile(buffer, mode)
	if err != nil {
		return Result{Err: err}
	}

	v, err := eval(compiled)
	if err != nil {
		return Result{Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{Err: errors.Wrapf(ErrDomain, "evaluating %q", compiled)}
	}

	d := decimal.NewFromFloat(v).Round(resultDecimals)
	value, _ := d.Float64()
	return Result{Value: value, Text: d.String()}
}

// PreviewEvaluate is Evaluate for live display while the user is typing.
// Callers are expected to show nothing rather than an error.
func PreviewEvaluate(buffer string, mode AngleMode) Result {
	return Evaluate(buffer, mode)
}

// Compile applies every rewrite stage and returns the arithmetic text handed
// to the evaluator.
func Compile(buffer string, mode AngleMode) (string, error) {
	s, err := normalize(buffer)
	if err != nil {
		return "", err
	}

	s = insertImplicit(s)
	s = substituteFunctions(s)
	s = rewritePercentPower(s)
	s = applyAngleMode(s, mode)

	if s, err = balanceParens(s); err != nil {
		return "", err
	}
	return expandFactorials(s)
}
