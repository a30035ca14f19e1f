package convert

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		category string
		value    float64
		from, to string
		want     string
	}{
		{"Length", 1, "km", "m", "1000"},
		{"length", 1, "Mile (mi)", "Kilometer (km)", "1.60934"},
		{"Length", 12, "inch", "foot", "1"},
		{"Area", 1, "Acre", "Cent", "100"},
		{"Volume", 1, "TMC (Water)", "Liter (L)", "28316846592"},
		{"Weight", 1, "Savaran (8g)", "g", "8"},
		{"Speed", 36, "km/h", "m/s", "10.000008"},
		{"Pressure", 1, "ATM", "Bar", "1.01325"},
		{"Power", 1, "kW", "Horsepower (HP-Mech)", "1.341021859"},
		{"Weight", 1, "mg", "Tonne (t)", "1e-09"},
	}

	for _, tc := range tests {
		got, err := Convert(tc.category, tc.value, tc.from, tc.to)
		require.NoError(t, err, "%s %s->%s", tc.category, tc.from, tc.to)
		assert.Equal(t, tc.want, got, "%s %s->%s", tc.category, tc.from, tc.to)
	}
}

func TestConvertErrors(t *testing.T) {
	_, err := Convert("Luminosity", 1, "a", "b")
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	_, err = Convert("Length", 1, "parsec", "m")
	assert.True(t, errors.Is(err, ErrUnknownUnit))

	_, err = Convert("Length", 1, "m", "parsec")
	assert.True(t, errors.Is(err, ErrUnknownUnit))
}

func TestTableUnit(t *testing.T) {
	tbl, ok := Lookup("Weight")
	require.True(t, ok)
	assert.Equal(t, "kg", tbl.Base)

	u, ok := tbl.Unit("Quintal")
	require.True(t, ok)
	assert.Equal(t, 100.0, u.Factor)

	u, ok = tbl.Unit("putti")
	require.True(t, ok)
	assert.Equal(t, "Putti (for Paddy)", u.Name)

	_, ok = tbl.Unit("stone")
	assert.False(t, ok)
	assert.Len(t, Tables(), 7)
}

func TestTemperature(t *testing.T) {
	assert.Equal(t, "212", Temperature(100, Celsius, Fahrenheit))
	assert.Equal(t, "273.15", Temperature(0, Celsius, Kelvin))
	assert.Equal(t, "0", Temperature(32, Fahrenheit, Celsius))
	assert.Equal(t, "-40", Temperature(-40, Celsius, Fahrenheit))
	assert.Equal(t, "-273.15", Temperature(0, Kelvin, Celsius))
	assert.Equal(t, "37.77778", Temperature(100, Fahrenheit, Celsius))
}

func TestParseScale(t *testing.T) {
	for in, want := range map[string]Scale{
		"C":            Celsius,
		"°F":           Fahrenheit,
		"kelvin":       Kelvin,
		"Celsius (°C)": Celsius,
	} {
		got, ok := ParseScale(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseScale("Rankine")
	assert.False(t, ok)
}

func TestNumberSystem(t *testing.T) {
	got, err := NumberSystem("255", 10, 16)
	require.NoError(t, err)
	assert.Equal(t, "FF", got)

	got, err = NumberSystem("1010", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, "10", got)

	got, err = NumberSystem("ff", 16, 8)
	require.NoError(t, err)
	assert.Equal(t, "377", got)

	_, err = NumberSystem("12", 2, 10)
	assert.True(t, errors.Is(err, ErrInvalidNumber))

	_, err = NumberSystem("", 10, 2)
	assert.True(t, errors.Is(err, ErrInvalidNumber))
}

func TestBMI(t *testing.T) {
	res, ok := BMI(70, 175)
	require.True(t, ok)
	assert.Equal(t, "22.9", res.Value.StringFixed(1))
	assert.Equal(t, "Normal", res.Category)
	assert.Equal(t, 175, res.HeightCm)
	assert.Equal(t, `5' 9"`, res.HeightFeet)

	tests := []struct {
		weight float64
		want   string
	}{
		{50, "Underweight"},
		{80, "Overweight"},
		{100, "Obese"},
	}
	for _, tc := range tests {
		res, ok := BMI(tc.weight, 175)
		require.True(t, ok)
		assert.Equal(t, tc.want, res.Category, "weight %v", tc.weight)
	}

	_, ok = BMI(70, 0)
	assert.False(t, ok)
}

func TestFeetInches(t *testing.T) {
	ft, in := FeetInches(Centimetres(5, 7))
	assert.Equal(t, 5, ft)
	assert.Equal(t, 7, in)
}
