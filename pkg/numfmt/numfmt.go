// Package numfmt renders numbers for display using the Indian digit grouping
// convention (1,00,000 rather than 100,000).
package numfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	groupSeparator   = ","
	decimalSeparator = "."
)

// Format parses value as a floating point number and renders it with at most
// maxDecimals fraction digits. An empty value renders as an empty string and a
// value that does not parse is returned unchanged.
func Format(value string, maxDecimals int) string {
	if value == "" {
		return ""
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return value
	}
	return FormatFloat(n, maxDecimals)
}

// FormatFloat is Format for values that are already numeric. Halves are
// rounded away from zero.
func FormatFloat(v float64, maxDecimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if maxDecimals < 0 {
		maxDecimals = 0
	}

	d := decimal.NewFromFloat(v).Round(int32(maxDecimals))
	digits := d.Abs().String()

	intPart, fracPart, _ := strings.Cut(digits, decimalSeparator)

	var b strings.Builder
	if d.Sign() < 0 {
		b.WriteByte('-')
	}
	b.WriteString(group(intPart))
	if fracPart != "" {
		b.WriteString(decimalSeparator)
		b.WriteString(fracPart)
	}
	return b.String()
}

// group inserts separators into a run of integer digits: the last three
// digits form one group, everything before them is grouped in pairs.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	parts := make([]string, 0, len(head)/2+2)
	if len(head)%2 == 1 {
		parts = append(parts, head[:1])
		head = head[1:]
	}
	for len(head) > 0 {
		parts = append(parts, head[:2])
		head = head[2:]
	}
	parts = append(parts, tail)
	return strings.Join(parts, groupSeparator)
}

// Strip removes group separators so that a rendering can be parsed again.
func Strip(rendered string) string {
	return strings.ReplaceAll(rendered, groupSeparator, "")
}
