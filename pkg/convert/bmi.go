package convert

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// BMIResult is a body mass index with its category and the height used,
// in both unit systems.
type BMIResult struct {
	Value      decimal.Decimal
	Category   string
	WeightKg   float64
	HeightCm   int
	HeightFeet string
}

// BMI computes weight / height² from kilograms and centimetres. It reports
// false unless both figures are positive.
func BMI(weightKg, heightCm float64) (BMIResult, bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return BMIResult{}, false
	}

	m := heightCm / 100
	bmi := weightKg / (m * m)

	var category string
	switch {
	case bmi < 18.5:
		category = "Underweight"
	case bmi < 25:
		category = "Normal"
	case bmi < 30:
		category = "Overweight"
	default:
		category = "Obese"
	}

	ft, in := FeetInches(heightCm)
	return BMIResult{
		Value:      decimal.NewFromFloat(bmi).Round(1),
		Category:   category,
		WeightKg:   weightKg,
		HeightCm:   int(math.Round(heightCm)),
		HeightFeet: fmt.Sprintf("%d' %d\"", ft, in),
	}, true
}

// FeetInches splits a height in centimetres into whole feet and rounded
// inches.
func FeetInches(cm float64) (feet, inches int) {
	total := cm / 2.54
	return int(math.Floor(total / 12)), int(math.Round(math.Mod(total, 12)))
}

// Centimetres converts feet and inches to centimetres.
func Centimetres(feet, inches float64) float64 {
	return feet*30.48 + inches*2.54
}
