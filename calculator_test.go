package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbekoff/tabcalc/pkg/calc"
	"github.com/turbekoff/tabcalc/pkg/editor"
)

func press(t *testing.T, c *Calculator, keys ...editor.Key) *editor.Commit {
	t.Helper()
	var commit *editor.Commit
	for _, k := range keys {
		var err error
		commit, err = c.Press(k)
		require.NoError(t, err, "key %q", k)
	}
	return commit
}

func TestCalculatorStandardKeys(t *testing.T) {
	c := NewCalculator(calc.Degree)
	assert.Equal(t, "0\n0", c.Display(10))

	press(t, c, "1", "2", editor.KeyPlus, "3")
	assert.Equal(t, "12+3\n15", c.Display(10))

	commit := press(t, c, editor.KeyEquals)
	require.NotNil(t, commit)
	assert.Equal(t, "12+3", commit.Expression)
	assert.Equal(t, "15", commit.Result)
	assert.Equal(t, "12+3\n= 15", c.Display(10))
}

func TestCalculatorRejectsKeysOffLayout(t *testing.T) {
	c := NewCalculator(calc.Degree)

	_, err := c.Press(editor.KeySin)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = c.Press("x")
	assert.ErrorIs(t, err, ErrUnsupported)

	press(t, c, keyLayout, editor.KeySin, "3", "0")
	assert.True(t, c.Scientific)
	assert.Equal(t, "sin(30\n0.5", c.Display(10))
}

func TestCalculatorIncompleteExpression(t *testing.T) {
	c := NewCalculator(calc.Degree)
	press(t, c, keyLayout, editor.KeyOpenParen)
	assert.Equal(t, "(\n…", c.Display(10))
}

func TestCalculatorKeypadLabels(t *testing.T) {
	c := NewCalculator(calc.Degree)

	standard := c.Keypad()
	require.Len(t, standard, 5)
	assert.Equal(t, "SCI", standard[4][0].Label)

	press(t, c, keyLayout)
	scientific := c.Keypad()
	require.Len(t, scientific, 7)
	assert.Equal(t, Button{Label: "2nd", Key: editor.KeyShift}, scientific[0][0])
	assert.Equal(t, "deg", scientific[0][1].Label)
	assert.Equal(t, "sin", scientific[0][2].Label)
	assert.Equal(t, "STD", scientific[6][0].Label)

	press(t, c, editor.KeyShift, editor.KeyAngle)
	scientific = c.Keypad()
	assert.Equal(t, "2nd ●", scientific[0][0].Label)
	assert.Equal(t, "rad", scientific[0][1].Label)
	assert.Equal(t, Button{Label: "sin⁻¹", Key: editor.KeySin}, scientific[0][2])
	assert.Equal(t, "10ˣ", scientific[1][1].Label)
	assert.Equal(t, "R", scientific[2][4].Label)
}

func TestCalculatorLeavingScientificDropsShift(t *testing.T) {
	c := NewCalculator(calc.Degree)
	press(t, c, keyLayout, editor.KeyShift, keyLayout)
	assert.False(t, c.State.Shift)

	press(t, c, "9", editor.KeyDivide, "2")
	assert.Equal(t, "9÷2\n4.5", c.Display(10))
}

func TestCalculatorShiftedKeys(t *testing.T) {
	c := NewCalculator(calc.Degree)
	press(t, c, keyLayout, editor.KeyShift, editor.KeyLg, "2")
	assert.Equal(t, "10^(2\n100", c.Display(10))
}
