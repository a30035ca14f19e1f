// Package editor implements the keypad state of one calculator tab: the
// expression buffer, the cursor, and whether a committed result is on show.
//
// State is a value. Every operation takes the current state and returns the
// next one, so a frontend only has to keep the latest State per tab.
package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/turbekoff/tabcalc/pkg/calc"
	"github.com/turbekoff/tabcalc/pkg/numfmt"
)

// Key is a keypad button.
type Key string

const (
	KeyClear      Key = "C"
	KeyBackspace  Key = "⌫"
	KeyEquals     Key = "="
	KeyAngle      Key = "deg"
	KeyShift      Key = "2nd"
	KeyDivide     Key = "÷"
	KeyMultiply   Key = "×"
	KeyMinus      Key = "-"
	KeyPlus       Key = "+"
	KeyPercent    Key = "%"
	KeyModulo     Key = "R"
	KeySin        Key = "sin"
	KeyCos        Key = "cos"
	KeyTan        Key = "tan"
	KeyLg         Key = "lg"
	KeyLn         Key = "ln"
	KeySqrt       Key = "√"
	KeyPower      Key = "x^y"
	KeyFactorial  Key = "x!"
	KeyReciprocal Key = "1/x"
	KeyPi         Key = "π"
	KeyE          Key = "e"
	KeyOpenParen  Key = "("
	KeyCloseParen Key = ")"
	KeyPoint      Key = "."
)

// operators are the glyphs tagged with calc.Separator when inserted.
var operators = []string{"÷", "×", "-", "+", "%", "^", "R"}

// collapsible operators replace each other when typed back to back.
var collapsible = []string{"÷", "×", "-", "+", "%", "^"}

// continuations extend a committed result instead of starting over.
var continuations = []string{"÷", "×", "-", "+", "%", "^", "!", "R"}

// Selection is a rune range in the buffer. Start == End is a plain cursor.
type Selection struct {
	Start int
	End   int
}

// State is the complete editing state of a calculator tab.
type State struct {
	Text    string
	Sel     Selection
	Settled bool
	// Result holds the committed result while Settled and the live preview
	// otherwise; an expression that does not evaluate previews as "".
	Result string
	Angle  calc.AngleMode
	Shift  bool
}

// Commit is produced when "=" evaluates successfully.
type Commit struct {
	Expression string
	Result     string
}

// New returns an empty tab in the given angle mode.
func New(angle calc.AngleMode) State {
	return State{Result: "0", Angle: angle}
}

// Press applies one key and returns the next state. The commit is non-nil
// only when "=" produced a number.
func (s State) Press(k Key) (State, *Commit) {
	s.Sel = s.clamp(s.Sel)

	switch k {
	case KeyAngle:
		s.Angle = s.Angle.Toggle()
		return s.refresh(), nil
	case KeyShift:
		s.Shift = !s.Shift
		return s, nil
	case KeyClear:
		return State{Result: "0", Angle: s.Angle, Shift: s.Shift}, nil
	case KeyBackspace:
		return s.backspace().refresh(), nil
	case KeyEquals:
		return s.commit()
	}

	return s.insert(s.insertion(k)).refresh(), nil
}

// insertion maps a key to the text it adds to the buffer.
func (s State) insertion(k Key) string {
	ins := string(k)
	switch k {
	case KeySin, KeyCos, KeyTan:
		if s.Shift {
			ins += "⁻¹("
		} else {
			ins += "("
		}
	case KeyLg:
		ins = pick(s.Shift, "10^(", "lg(")
	case KeyLn:
		ins = pick(s.Shift, "e^(", "ln(")
	case KeySqrt:
		ins = pick(s.Shift, "^2", "√(")
	case KeyDivide:
		ins = pick(s.Shift, "R", "÷")
	case KeyPower:
		ins = "^"
	case KeyFactorial:
		ins = "!"
	case KeyReciprocal:
		ins = "1÷"
	}

	if contains(operators, ins) {
		ins += calc.Separator
	}
	return ins
}

func (s State) insert(ins string) State {
	wasSettled := s.Settled
	s.Settled = false

	raw := strings.ReplaceAll(ins, calc.Separator, "")
	runes := []rune(s.Text)

	if !wasSettled && s.Sel.Start == len(runes) && contains(collapsible, raw) && strings.HasSuffix(s.Text, calc.Separator) {
		if n := len(runes); n >= 2 && contains(collapsible, string(runes[n-2])) {
			s.Text = string(runes[:n-2]) + ins
			s.Sel = cursorAt(utf8.RuneCountInString(s.Text))
			return s
		}
	}

	switch {
	case wasSettled && contains(continuations, raw):
		s.Text = s.Result + ins
	case wasSettled:
		s.Text = ins
	default:
		s.Text = string(runes[:s.Sel.Start]) + ins + string(runes[s.Sel.End:])
		s.Sel = cursorAt(s.Sel.Start + utf8.RuneCountInString(ins))
		return s
	}
	s.Sel = cursorAt(utf8.RuneCountInString(s.Text))
	return s
}

// backspace removes the selection, or the rune before the cursor together
// with the separator that tags an operator.
func (s State) backspace() State {
	s.Settled = false
	runes := []rune(s.Text)

	start := s.Sel.Start
	if s.Sel.Start == s.Sel.End {
		n := 1
		if start > 0 && string(runes[start-1]) == calc.Separator {
			n = 2
		}
		start -= n
	}
	if start < 0 {
		return s
	}

	s.Text = string(runes[:start]) + string(runes[s.Sel.End:])
	s.Sel = cursorAt(start)
	return s
}

func (s State) commit() (State, *Commit) {
	res := calc.Evaluate(s.Text, s.Angle)
	if !res.OK() || s.Text == "" {
		return s, nil
	}

	s.Result = res.Text
	s.Settled = true
	return s, &Commit{
		Expression: strings.ReplaceAll(s.Text, calc.Separator, ""),
		Result:     res.Text,
	}
}

// refresh recomputes the live preview while editing.
func (s State) refresh() State {
	if s.Settled {
		return s
	}
	if res := calc.PreviewEvaluate(s.Text, s.Angle); res.OK() {
		s.Result = res.Text
	} else {
		s.Result = ""
	}
	return s
}

// Select moves the cursor or selection. Touching the buffer leaves the
// settled state so that the next key edits rather than replaces.
func (s State) Select(start, end int) State {
	if start > end {
		start, end = end, start
	}
	s.Sel = s.clamp(Selection{Start: start, End: end})
	if s.Settled {
		s.Settled = false
		return s.refresh()
	}
	return s
}

// Load replaces the buffer with an expression, typically one picked from
// the history, and places the cursor at its end.
func (s State) Load(expression string) State {
	s.Text = expression
	s.Settled = false
	s.Sel = cursorAt(utf8.RuneCountInString(expression))
	return s.refresh()
}

// Empty reports whether the tab holds no input.
func (s State) Empty() bool {
	return s.Text == "" || s.Text == "0"
}

// Expression returns the buffer without separators.
func (s State) Expression() string {
	return strings.ReplaceAll(s.Text, calc.Separator, "")
}

// Display renders the result line: "= 1,234.5" once settled, the bare
// preview while editing.
func (s State) Display(maxDecimals int) string {
	formatted := numfmt.Format(s.Result, maxDecimals)
	if s.Settled {
		return "= " + formatted
	}
	return formatted
}

func (s State) clamp(sel Selection) Selection {
	n := utf8.RuneCountInString(s.Text)
	sel.Start = min(max(sel.Start, 0), n)
	sel.End = min(max(sel.End, sel.Start), n)
	return sel
}

func cursorAt(i int) Selection {
	return Selection{Start: i, End: i}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
