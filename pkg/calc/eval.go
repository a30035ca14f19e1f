package calc

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

const eof = 0

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// primitives are the functions the rewrite stages may leave in the text.
var primitives = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sind":  func(x float64) float64 { return math.Sin(x * degToRad) },
	"cosd":  func(x float64) float64 { return math.Cos(x * degToRad) },
	"tand":  func(x float64) float64 { return math.Tan(x * degToRad) },
	"asind": func(x float64) float64 { return math.Asin(x) * radToDeg },
	"acosd": func(x float64) float64 { return math.Acos(x) * radToDeg },
	"atand": func(x float64) float64 { return math.Atan(x) * radToDeg },
	"log":   math.Log10,
	"ln":    math.Log,
	"sqrt":  math.Sqrt,
}

type parser struct {
	s string
}

func (p *parser) peek() byte {
	if p.s == "" {
		return eof
	}
	return p.s[0]
}

func (p *parser) next() byte {
	c := p.peek()
	if c != eof {
		p.s = p.s[1:]
	}
	return c
}

func (p *parser) starts(prefix string) bool {
	return len(p.s) >= len(prefix) && p.s[:len(prefix)] == prefix
}

// remaining returns the quoted unparsed input, or eof at the end.
func (p *parser) remaining() string {
	if p.s != "" {
		return fmt.Sprintf("%q", p.s)
	}
	return "eof"
}

func throw(kind error, s ...interface{}) {
	panic(errors.Wrap(kind, fmt.Sprint(s...)))
}

func recoverer(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		panic(r)
	}
	if !errors.Is(err, ErrNotANumber) && !errors.Is(err, ErrDomain) && !errors.Is(err, ErrMalformedInput) {
		err = errors.Wrap(ErrNotANumber, err.Error())
	}
	*errp = err
}

// eval evaluates arithmetic text produced by Compile.
func eval(s string) (v float64, err error) {
	p := &parser{s}
	defer recoverer(&err)
	v = p.expr()
	if p.peek() != eof {
		throw(ErrNotANumber, "syntax error at ", p.remaining())
	}
	return v, nil
}

// expr = term { ("+" | "-") term }.
func (p *parser) expr() float64 {
	v := p.term()
	for {
		switch p.peek() {
		case '+':
			p.next()
			v += p.term()
		case '-':
			p.next()
			v -= p.term()
		default:
			return v
		}
	}
}

// term = unary { ("*" | "/" | "%") unary }.
func (p *parser) term() float64 {
	v := p.unary()
	for {
		switch {
		case p.starts("**"):
			throw(ErrNotANumber, "misplaced power at ", p.remaining())
		case p.peek() == '*':
			p.next()
			v *= p.unary()
		case p.peek() == '/':
			p.next()
			d := p.unary()
			if d == 0 {
				throw(ErrDomain, "division by zero")
			}
			v /= d
		case p.peek() == '%':
			p.next()
			d := p.unary()
			if d == 0 {
				throw(ErrDomain, "modulo by zero")
			}
			v = math.Mod(v, d)
		default:
			return v
		}
	}
}

// unary = ("-" | "+") unary | power.
func (p *parser) unary() float64 {
	switch p.peek() {
	case '-':
		p.next()
		return -p.unary()
	case '+':
		p.next()
		return p.unary()
	}
	return p.power()
}

// power = primary [ "**" unary ]. The exponent may itself be a power, which
// makes the operator right associative.
func (p *parser) power() float64 {
	base := p.primary()
	if !p.starts("**") {
		return base
	}
	p.s = p.s[2:]
	return math.Pow(base, p.unary())
}

// primary = number | "(" expr ")" | function primary.
func (p *parser) primary() float64 {
	c := p.peek()
	switch {
	case c == eof:
		throw(ErrNotANumber, "unexpected eof")
	case isDigit(rune(c)) || c == '.':
		return p.number()
	case isLetter(c):
		name := p.identifier()
		fn, ok := primitives[name]
		if !ok {
			throw(ErrNotANumber, "unknown function ", name)
		}
		return fn(p.primary())
	case c == '(':
		p.next()
		v := p.expr()
		if p.next() != ')' {
			throw(ErrNotANumber, "unclosed paren at ", p.remaining())
		}
		return v
	}
	throw(ErrNotANumber, "bad expression at ", p.remaining())
	panic("not reached")
}

// number consumes a decimal literal with an optional exponent.
func (p *parser) number() float64 {
	i := 0
	for i < len(p.s) && (isDigit(rune(p.s[i])) || p.s[i] == '.') {
		i++
	}
	if i < len(p.s) && (p.s[i] == 'e' || p.s[i] == 'E') {
		j := i + 1
		if j < len(p.s) && (p.s[j] == '+' || p.s[j] == '-') {
			j++
		}
		if j < len(p.s) && isDigit(rune(p.s[j])) {
			for j < len(p.s) && isDigit(rune(p.s[j])) {
				j++
			}
			i = j
		}
	}

	lit := p.s[:i]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		throw(ErrNotANumber, "bad number ", lit)
	}
	p.s = p.s[i:]
	return v
}

func (p *parser) identifier() string {
	i := 0
	for i < len(p.s) && isLetter(p.s[i]) {
		i++
	}
	name := p.s[:i]
	p.s = p.s[i:]
	return name
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
