package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/turbekoff/tabcalc/pkg/history"
)

// execute runs the command line and returns what it printed.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand(log.New(io.Discard, "", 0))
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestEvalCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"eval", "5+10%"}, "5.5\n"},
		{[]string{"eval", "2", "+", "3×4"}, "14\n"},
		{[]string{"eval", "100000*3"}, "3,00,000\n"},
		{[]string{"eval", "-d", "2", "1÷3"}, "0.33\n"},
		{[]string{"eval", "--angle", "rad", "cos(0"}, "1\n"},
		{[]string{"eval", "--compile", "2(3"}, "2*(3)\n"},
	}
	for _, tt := range tests {
		out, _, err := execute(t, tt.args...)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.want, out, tt.args)
	}

	_, _, err := execute(t, "eval", "1÷0")
	assert.Error(t, err)
}

func TestFinanceCommands(t *testing.T) {
	out, _, err := execute(t, "emi", "-a", "100000", "-r", "12", "-t", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "₹8,884.88")
	assert.Contains(t, out, "₹1,06,618.55")

	out, _, err = execute(t, "gst", "-a", "1180", "--inclusive")
	require.NoError(t, err)
	assert.Contains(t, out, "₹1,000.00")
	assert.Contains(t, out, "₹180.00")

	_, _, err = execute(t, "emi", "-a", "100000")
	assert.ErrorIs(t, err, errInvalidInput)
}

func TestConvertCommand(t *testing.T) {
	out, _, err := execute(t, "convert", "area", "1", "acre", "cent")
	require.NoError(t, err)
	assert.Equal(t, "100\n", out)

	out, _, err = execute(t, "convert", "number", "ff", "16", "2")
	require.NoError(t, err)
	assert.Equal(t, "11111111\n", out)

	_, _, err = execute(t, "convert", "length", "1", "km", "parsec")
	assert.Error(t, err)
}

func TestDateCommands(t *testing.T) {
	out, _, err := execute(t, "date", "add", "1-1-2025", "31")
	require.NoError(t, err)
	assert.Contains(t, out, "Saturday")

	_, _, err = execute(t, "date", "diff", "31-2-2025", "1-3-2025")
	assert.ErrorIs(t, err, errInvalidDate)
}

func TestSaveWithoutHistoryPath(t *testing.T) {
	t.Setenv("TABCALC_HISTORY_PATH", "")

	out, errOut, err := execute(t, "eval", "--save", "2+2")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
	assert.Contains(t, errOut, "TABCALC_HISTORY_PATH")
}

func TestHistoryCommand(t *testing.T) {
	t.Setenv("TABCALC_HISTORY_PATH", filepath.Join(t.TempDir(), "history.db"))

	out, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Equal(t, "No calculations yet.\n", out)

	_, _, err = execute(t, "eval", "-s", "100000*3")
	require.NoError(t, err)
	_, _, err = execute(t, "emi", "-s", "-a", "100000", "-r", "12", "-t", "1")
	require.NoError(t, err)

	out, _, err = execute(t, "history", "--recalc")
	require.NoError(t, err)
	assert.Contains(t, out, "3,00,000")
	assert.Contains(t, out, "EMI: 100000 @ 12% for 1y")
	assert.Contains(t, out, "Now")

	out, _, err = execute(t, "history", "--yaml")
	require.NoError(t, err)
	var records []history.Record
	require.NoError(t, yaml.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, history.ModeCalc, records[0].Mode)
	assert.Equal(t, history.ModeFinance, records[1].Mode)

	_, _, err = execute(t, "history", "--remove", "1")
	require.NoError(t, err)
	out, _, err = execute(t, "history", "--yaml")
	require.NoError(t, err)
	records = nil
	require.NoError(t, yaml.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "EMI: 100000 @ 12% for 1y", records[0].Expression)

	_, _, err = execute(t, "history", "--clear")
	require.NoError(t, err)
	out, _, err = execute(t, "history")
	require.NoError(t, err)
	assert.Equal(t, "No calculations yet.\n", out)
}

func TestEnvCommand(t *testing.T) {
	t.Setenv("TABCALC_HISTORY_RETENTION", "not a duration")

	_, _, err := execute(t, "eval", "1")
	assert.Error(t, err)

	out, _, err := execute(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, `TABCALC_TIMEZONE (default "Asia/Kolkata")`)
	assert.Contains(t, out, "TABCALC_TELEGRAM_TOKEN (required)")
}

func TestUnitNames(t *testing.T) {
	assert.Equal(t, []string{"Celsius (°C)", "Fahrenheit (°F)", "Kelvin (K)"}, unitNames("temperature"))
	assert.Contains(t, unitNames("length"), "Kilometer (km)")
	assert.Nil(t, unitNames("colour"))

	res, err := convertValue("Temperature", "212", "Fahrenheit (°F)", "Celsius (°C)")
	require.NoError(t, err)
	assert.Equal(t, "100", res)
}
