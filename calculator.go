package main

import (
	"errors"
	"strings"

	"github.com/turbekoff/tabcalc/pkg/calc"
	"github.com/turbekoff/tabcalc/pkg/editor"
)

var ErrUnsupported = errors.New("unsupported key")

// keyLayout switches between the standard and the scientific keypad. It
// never reaches the editor.
const keyLayout editor.Key = "TOGGLE"

// Button is one keypad cell.
type Button struct {
	Label string
	Key   editor.Key
}

var standardKeypad = [][]editor.Key{
	{editor.KeyClear, editor.KeyBackspace, editor.KeyPercent, editor.KeyDivide},
	{"7", "8", "9", editor.KeyMultiply},
	{"4", "5", "6", editor.KeyMinus},
	{"1", "2", "3", editor.KeyPlus},
	{keyLayout, "0", editor.KeyPoint, editor.KeyEquals},
}

var scientificKeypad = [][]editor.Key{
	{editor.KeyShift, editor.KeyAngle, editor.KeySin, editor.KeyCos, editor.KeyTan},
	{editor.KeyPower, editor.KeyLg, editor.KeyLn, editor.KeyOpenParen, editor.KeyCloseParen},
	{editor.KeySqrt, editor.KeyClear, editor.KeyBackspace, editor.KeyPercent, editor.KeyDivide},
	{editor.KeyFactorial, "7", "8", "9", editor.KeyMultiply},
	{editor.KeyReciprocal, "4", "5", "6", editor.KeyMinus},
	{editor.KeyPi, "1", "2", "3", editor.KeyPlus},
	{keyLayout, editor.KeyE, "0", editor.KeyPoint, editor.KeyEquals},
}

// shiftedLabels are the captions of keys whose meaning changes under 2nd.
var shiftedLabels = map[editor.Key]string{
	editor.KeySin:    "sin⁻¹",
	editor.KeyCos:    "cos⁻¹",
	editor.KeyTan:    "tan⁻¹",
	editor.KeyLg:     "10ˣ",
	editor.KeyLn:     "eˣ",
	editor.KeySqrt:   "x²",
	editor.KeyDivide: "R",
}

// Calculator is one keypad session.
type Calculator struct {
	State      editor.State
	Scientific bool
}

func NewCalculator(angle calc.AngleMode) *Calculator {
	return &Calculator{State: editor.New(angle)}
}

// Keypad returns the buttons of the current layout, captioned for the
// current shift and angle state.
func (c *Calculator) Keypad() [][]Button {
	layout := standardKeypad
	if c.Scientific {
		layout = scientificKeypad
	}

	rows := make([][]Button, 0, len(layout))
	for _, keys := range layout {
		row := make([]Button, 0, len(keys))
		for _, k := range keys {
			row = append(row, Button{Label: c.label(k), Key: k})
		}
		rows = append(rows, row)
	}
	return rows
}

func (c *Calculator) label(k editor.Key) string {
	switch k {
	case keyLayout:
		if c.Scientific {
			return "STD"
		}
		return "SCI"
	case editor.KeyAngle:
		return c.State.Angle.String()
	case editor.KeyShift:
		if c.State.Shift {
			return "2nd ●"
		}
		return "2nd"
	}

	if shifted, ok := shiftedLabels[k]; ok && c.State.Shift {
		return shifted
	}
	return string(k)
}

// Has reports whether k is on the current layout.
func (c *Calculator) Has(k editor.Key) bool {
	for _, row := range c.Keypad() {
		for _, b := range row {
			if b.Key == k {
				return true
			}
		}
	}
	return false
}

// Press applies a key of the current layout. The commit is non-nil when
// "=" produced a result.
func (c *Calculator) Press(k editor.Key) (*editor.Commit, error) {
	if !c.Has(k) {
		return nil, ErrUnsupported
	}
	if k == keyLayout {
		c.Scientific = !c.Scientific
		// 2nd only exists on the scientific keypad.
		c.State.Shift = c.State.Shift && c.Scientific
		return nil, nil
	}

	var commit *editor.Commit
	c.State, commit = c.State.Press(k)
	return commit, nil
}

// Display renders the expression above the result line.
func (c *Calculator) Display(maxDecimals int) string {
	expression := c.State.Expression()
	if expression == "" {
		expression = "0"
	}

	result := c.State.Display(maxDecimals)
	if result == "" {
		result = "…"
	}
	return strings.Join([]string{expression, result}, "\n")
}
