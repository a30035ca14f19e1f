package timezone

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	rows, err := Convert("5-1-2025", "14:30", "Asia/Kolkata", "America/New_York")
	require.NoError(t, err)
	require.Len(t, rows, len(zones))

	assert.Equal(t, "Asia/Kolkata", rows[0].ID)
	assert.True(t, rows[0].Input)
	assert.Equal(t, "input Zone", rows[0].Offset)
	assert.Equal(t, "05-01-2025, 14:30", rows[0].Time)

	assert.Equal(t, "America/New_York", rows[1].ID)
	assert.True(t, rows[1].Target)
	assert.Equal(t, "05-01-2025, 04:00", rows[1].Time)
	assert.Equal(t, "IST-10:30", rows[1].Offset)

	assert.Equal(t, "UTC", rows[2].ID)
	assert.Equal(t, "05-01-2025, 09:00", rows[2].Time)
	assert.Equal(t, "IST-5:30", rows[2].Offset)

	byID := map[string]Row{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	assert.Equal(t, "05-01-2025, 18:00", byID["Asia/Tokyo"].Time)
	assert.Equal(t, "IST+3:30", byID["Asia/Tokyo"].Offset)
	assert.Equal(t, "IST+0:15", byID["Asia/Kathmandu"].Offset)
}

func TestConvertCrossesDate(t *testing.T) {
	rows, err := Convert("1/1/2025", "2:00", "UTC", "America/Los_Angeles")
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	assert.Equal(t, "America/Los_Angeles", rows[1].ID)
	assert.Equal(t, "31-12-2024, 18:00", rows[1].Time)
	assert.Equal(t, "UTC-8:00", rows[1].Offset)
}

func TestConvertSameZone(t *testing.T) {
	rows, err := Convert("1-6-2025", "", "Europe/London", "Europe/London")
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", rows[0].ID)
	assert.True(t, rows[0].Target)
	assert.Equal(t, "UTC", rows[1].ID)
	assert.Equal(t, "GMT/BST-1:00", rows[1].Offset)
}

func TestConvertErrors(t *testing.T) {
	_, err := Convert("31-2-2025", "10:00", "UTC", "Asia/Tokyo")
	assert.True(t, errors.Is(err, ErrInvalidDate))

	_, err = Convert("1-1-2025", "10:00", "Mars/Olympus", "Asia/Tokyo")
	assert.True(t, errors.Is(err, ErrUnknownZone))

	_, err = Convert("1-1-2025", "10:00", "UTC", "Nowhere/Special")
	assert.True(t, errors.Is(err, ErrUnknownZone))
}

func TestShort(t *testing.T) {
	assert.Equal(t, "IST", Short("India (IST)"))
	assert.Equal(t, "GMT/BST", Short("London (GMT/BST)"))
	assert.Equal(t, "SRC", Short("Somewhere"))
}

func TestZones(t *testing.T) {
	all := Zones()
	assert.Len(t, all, len(zones))

	z, ok := Lookup("Asia/Kolkata")
	require.True(t, ok)
	assert.Equal(t, "India (IST)", z.Label)
	_, ok = Lookup("Asia/Nowhere")
	assert.False(t, ok)
}
