package calc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Separator is the zero-width mark the keypad appends to operator glyphs so
// that an operator can be told apart from what the user typed after it.
const Separator = "\u200B"

// Keypad glyphs as they appear in the buffer.
const (
	glyphMultiply = "×"
	glyphDivide   = "÷"
	glyphPi       = "π"
	glyphE        = "e"
	glyphSqrt     = "√"
	glyphInverse  = "⁻¹"
	glyphModulo   = "R"
)

// Function names recognised in the buffer, longest first so that the inverse
// forms win over the forward ones.
var functionNames = []string{
	"sin" + glyphInverse, "cos" + glyphInverse, "tan" + glyphInverse,
	"sin", "cos", "tan", "lg", "ln", glyphSqrt,
}

// Names that follow an operand and need a multiplication in between.
var operandStarts = []string{glyphPi, glyphE, "sin", "cos", "tan", "lg", "ln", glyphSqrt}

const trailingOperators = "/*-+^."

var displayOperators = strings.NewReplacer(glyphMultiply, "*", glyphDivide, "/")

// normalize strips separators and whitespace, maps display glyphs to their
// arithmetic form and drops dangling trailing operators.
func normalize(buffer string) (string, error) {
	s := strings.Map(func(r rune) rune {
		if r == '\u200B' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, buffer)
	s = displayOperators.Replace(s)

	for s != "" && strings.ContainsRune(trailingOperators, rune(s[len(s)-1])) {
		s = s[:len(s)-1]
	}

	if strings.HasSuffix(s, "(") {
		return "", errors.Wrap(ErrMalformedInput, "expression ends with an open paren")
	}
	if s == "" {
		return "0", nil
	}
	if err := validate(s); err != nil {
		return "", err
	}
	return s, nil
}

// validate rejects runes the keypad never produces.
func validate(s string) error {
	for len(s) > 0 {
		if name := matchPrefix(s, functionNames); name != "" {
			s = s[len(name):]
			continue
		}
		r, size := utf8.DecodeRuneInString(s)
		if !isDigit(r) && !strings.ContainsRune(".+-*/%^()!πeR", r) {
			return errors.Wrapf(ErrMalformedInput, "unexpected symbol %q", r)
		}
		s = s[size:]
	}
	return nil
}

// insertImplicit adds the multiplication implied by adjacent operands, as in
// 2(3), (1)(2), (2)3, 3π, 2e and 4sin(30).
func insertImplicit(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	var prev rune
	for i, r := range s {
		if i > 0 && impliesMultiply(prev, r, s[i:]) {
			b.WriteByte('*')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func impliesMultiply(prev, next rune, rest string) bool {
	operand := isDigit(prev) || prev == ')' || prev == 'π' || prev == 'e'
	switch {
	case !operand:
		return false
	case next == '(':
		return true
	case prev == ')' && isDigit(next):
		return true
	default:
		return matchPrefix(rest, operandStarts) != ""
	}
}

// Markers produced by substituteFunctions and resolved by applyAngleMode.
// They are upper case so that the constant and modulo rewrites in between
// cannot touch them.
const (
	markerSin  = "SIN("
	markerCos  = "COS("
	markerTan  = "TAN("
	markerAsin = "ASIN("
	markerAcos = "ACOS("
	markerAtan = "ATAN("
)

var functionMarkers = strings.NewReplacer(
	"sin"+glyphInverse+"(", markerAsin,
	"cos"+glyphInverse+"(", markerAcos,
	"tan"+glyphInverse+"(", markerAtan,
	"sin(", markerSin,
	"cos(", markerCos,
	"tan(", markerTan,
	"lg(", "log(",
	glyphSqrt, "sqrt",
)

func substituteFunctions(s string) string {
	return functionMarkers.Replace(s)
}

var (
	percentOfOperand = regexp.MustCompile(`(\d+(?:\.\d+)?)([+\-])(\d+(?:\.\d+)?)%`)

	constants = strings.NewReplacer(
		"%", "/100",
		"^", "**",
		glyphPi, "("+formatFloat(math.Pi)+")",
		glyphE, "("+formatFloat(math.E)+")",
	)
)

// rewritePercentPower turns "a+b%" into "a+(a*b/100)", any other percent into
// a division by 100, "^" into the power operator and the constants into
// literals. The modulo glyph becomes "%" last, after percent signs are gone.
func rewritePercentPower(s string) string {
	s = percentOfOperand.ReplaceAllString(s, "$1$2($1*$3/100)")
	s = constants.Replace(s)
	return strings.ReplaceAll(s, glyphModulo, "%")
}

var (
	degreeMarkers = strings.NewReplacer(
		markerAsin, "asind(",
		markerAcos, "acosd(",
		markerAtan, "atand(",
		markerSin, "sind(",
		markerCos, "cosd(",
		markerTan, "tand(",
	)
	radianMarkers = strings.NewReplacer(
		markerAsin, "asin(",
		markerAcos, "acos(",
		markerAtan, "atan(",
		markerSin, "sin(",
		markerCos, "cos(",
		markerTan, "tan(",
	)
)

// applyAngleMode resolves the trigonometric markers. In degree mode they
// become the degree variants, which convert the whole argument of a forward
// function from degrees and the result of an inverse one to degrees.
func applyAngleMode(s string, mode AngleMode) string {
	if mode == Radian {
		return radianMarkers.Replace(s)
	}
	return degreeMarkers.Replace(s)
}

// balanceParens closes every paren left open. A closing paren without a
// matching open one cannot be repaired.
func balanceParens(s string) (string, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", errors.Wrapf(ErrMalformedInput, "unmatched ) at offset %d", i)
			}
		}
	}
	return s + strings.Repeat(")", depth), nil
}

var factorialOperand = regexp.MustCompile(`(\d+)!`)

// maxFactorial is the largest n whose factorial is a finite float64.
const maxFactorial = 170

// expandFactorials replaces "n!" for a literal integer n by its value. Only
// one pass is made: a "!" that is left over applies to something other than
// a literal integer and is rejected.
func expandFactorials(s string) (string, error) {
	matches := factorialOperand.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return checkFactorials(s)
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if end < len(s) && isDigit(rune(s[end])) {
			continue
		}
		if start > 0 && s[start-1] == '.' {
			return "", errors.Wrap(ErrMalformedInput, "factorial of a non-integer")
		}

		n, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil || n > maxFactorial {
			return "", errors.Wrapf(ErrDomain, "factorial of %s", s[m[2]:m[3]])
		}

		b.WriteString(s[last:start])
		b.WriteString(formatFloat(factorial(n)))
		last = end
	}
	b.WriteString(s[last:])
	return checkFactorials(b.String())
}

func checkFactorials(s string) (string, error) {
	if i := strings.IndexByte(s, '!'); i >= 0 {
		return "", errors.Wrapf(ErrMalformedInput, "unsupported factorial at offset %d", i)
	}
	return s, nil
}

func factorial(n int) float64 {
	r := 1.0
	for i := 2; i <= n; i++ {
		r *= float64(i)
	}
	return r
}

func matchPrefix(s string, names []string) string {
	for _, name := range names {
		if strings.HasPrefix(s, name) {
			return name
		}
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
