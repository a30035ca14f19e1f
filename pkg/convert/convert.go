// Package convert implements the unit converter: factor tables for physical
// quantities, temperature scales, number bases and BMI.
package convert

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownUnit     = errors.New("unknown unit")
	ErrInvalidNumber   = errors.New("invalid number")
)

// Unit is a named unit and its size in the base unit of its category.
type Unit struct {
	Name   string
	Factor float64
}

// Table is a category of units sharing a base unit.
type Table struct {
	Category string
	Base     string
	Units    []Unit
}

var tables = []Table{
	{"Length", "m", []Unit{
		{"Meter (m)", 1}, {"Kilometer (km)", 1000}, {"Centimeter (cm)", 0.01}, {"Millimeter (mm)", 0.001},
		{"Inch (in)", 0.0254}, {"Foot (ft)", 0.3048}, {"Yard (yd)", 0.9144}, {"Mile (mi)", 1609.34},
		{"Furlong", 201.168}, {"Gajam (Nellore/AP)", 0.9144}, {"Mura (Cubit)", 0.4572},
	}},
	{"Area", "m2", []Unit{
		{"Sq Meter (m²)", 1}, {"Sq Kilometer (km²)", 1000000}, {"Sq Foot (ft²)", 0.092903}, {"Sq Yard", 0.836127},
		{"Acre", 4046.86}, {"Hectare", 10000}, {"Ankanam (Nellore)", 6.689016}, {"Cent", 40.4686},
		{"Kuncham (Land)", 404.6856}, {"Guntha", 101.17}, {"Gorru (AP)", 12646.4}, {"Ground", 222.967},
		{"Bigha (Pucca)", 2529.28},
	}},
	{"Volume", "l", []Unit{
		{"Liter (L)", 1}, {"Milliliter (ml)", 0.001}, {"Cubic Meter (m³)", 1000}, {"Cubic Foot (ft³)", 28.3168},
		{"Gallon (US)", 3.78541}, {"Gallon (UK)", 4.54609}, {"Barrel (Oil)", 158.987}, {"TMC (Water)", 28316846592},
	}},
	{"Weight", "kg", []Unit{
		{"Kilogram (kg)", 1}, {"Gram (g)", 0.001}, {"Milligram (mg)", 0.000001}, {"Pound (lb)", 0.453592},
		{"Ounce (oz)", 0.0283495}, {"Tonne (t)", 1000}, {"Putti (for Paddy)", 850}, {"Toom (1/20 Putti)", 42.5},
		{"Bag (for Paddy)", 75}, {"Quintal", 100}, {"Candy (500lb)", 226.796}, {"Thulam (11.66g)", 0.0116638},
		{"Savaran (8g)", 0.008}, {"Seer", 0.9331},
	}},
	{"Speed", "m/s", []Unit{
		{"Meter/sec (m/s)", 1}, {"Km/hour (km/h)", 0.277778}, {"Miles/hour (mph)", 0.44704}, {"Knot", 0.514444},
		{"Mach (Std Atm)", 340.29},
	}},
	{"Pressure", "Pa", []Unit{
		{"Pascal (Pa)", 1}, {"Bar", 100000}, {"ATM", 101325}, {"PSI", 6894.76}, {"Torr (mmHg)", 133.322},
	}},
	{"Power", "W", []Unit{
		{"Watt (W)", 1}, {"Kilowatt (kW)", 1000}, {"Horsepower (HP-Mech)", 745.7}, {"Horsepower (HP-Metric)", 735.5},
	}},
}

// Tables returns the factor tables in display order.
func Tables() []Table {
	return tables
}

// Lookup finds a table by category name, ignoring case.
func Lookup(category string) (Table, bool) {
	for _, t := range tables {
		if strings.EqualFold(t.Category, strings.TrimSpace(category)) {
			return t, true
		}
	}
	return Table{}, false
}

// Unit finds a unit by its full name, its abbreviation in parentheses or
// the name in front of them, ignoring case: "Kilometer (km)", "km" and
// "kilometer" are the same unit.
func (t Table) Unit(name string) (Unit, bool) {
	name = strings.TrimSpace(name)
	for _, u := range t.Units {
		if matchesName(u.Name, name) {
			return u, true
		}
	}
	return Unit{}, false
}

func matchesName(full, name string) bool {
	if strings.EqualFold(full, name) {
		return true
	}
	head, tail, found := strings.Cut(full, " (")
	if !found {
		return false
	}
	return strings.EqualFold(head, name) || strings.EqualFold(strings.TrimSuffix(tail, ")"), name)
}

// Convert converts value between two units of a category. The result keeps
// ten significant digits.
func Convert(category string, value float64, from, to string) (string, error) {
	t, ok := Lookup(category)
	if !ok {
		return "", errors.Wrapf(ErrUnknownCategory, "category %q", category)
	}
	f, ok := t.Unit(from)
	if !ok {
		return "", errors.Wrapf(ErrUnknownUnit, "%s unit %q", t.Category, from)
	}
	u, ok := t.Unit(to)
	if !ok {
		return "", errors.Wrapf(ErrUnknownUnit, "%s unit %q", t.Category, to)
	}
	return precision(value*f.Factor/u.Factor, 10), nil
}

// precision rounds v to n significant digits and renders it without
// trailing zeros.
func precision(v float64, n int) string {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', n, 64), 64)
	if a := math.Abs(r); a != 0 && (a < 1e-6 || a >= 1e21) {
		return strconv.FormatFloat(r, 'g', -1, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Scale is a temperature scale.
type Scale int

const (
	Celsius Scale = iota
	Fahrenheit
	Kelvin
)

var scaleNames = []string{"Celsius (°C)", "Fahrenheit (°F)", "Kelvin (K)"}

func (s Scale) String() string {
	if s < Celsius || s > Kelvin {
		return "Scale(" + strconv.Itoa(int(s)) + ")"
	}
	return scaleNames[s]
}

// ParseScale accepts "C", "celsius", "°C" and the full name.
func ParseScale(s string) (Scale, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "°")
	for i, name := range scaleNames {
		if matchesName(name, s) || strings.EqualFold(name[:1], s) {
			return Scale(i), true
		}
	}
	return Celsius, false
}

// Temperature converts through Kelvin and keeps seven significant digits.
func Temperature(value float64, from, to Scale) string {
	var k float64
	switch from {
	case Celsius:
		k = value + 273.15
	case Fahrenheit:
		k = (value-32)*5/9 + 273.15
	default:
		k = value
	}

	var res float64
	switch to {
	case Celsius:
		res = k - 273.15
	case Fahrenheit:
		res = (k-273.15)*9/5 + 32
	default:
		res = k
	}
	return precision(res, 7)
}

// Bases are the number systems offered, by name.
var Bases = []struct {
	Name string
	Base int
}{
	{"Decimal (10)", 10},
	{"Binary (2)", 2},
	{"Octal (8)", 8},
	{"Hexadecimal (16)", 16},
}

// NumberSystem rewrites an integer from one base to another. Letters in
// the result are upper case.
func NumberSystem(value string, from, to int) (string, error) {
	if from < 2 || from > 36 || to < 2 || to > 36 {
		return "", errors.Wrapf(ErrInvalidNumber, "base %d to %d", from, to)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(value), from, 64)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidNumber, "%q in base %d", value, from)
	}
	return strings.ToUpper(strconv.FormatInt(v, to)), nil
}
