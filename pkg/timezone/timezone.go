// Package timezone shows one wall-clock time across a fixed table of zones.
package timezone

import (
	"fmt"
	"regexp"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"

	"github.com/turbekoff/tabcalc/pkg/datecalc"
)

var (
	ErrInvalidDate = errors.New("invalid date")
	ErrUnknownZone = errors.New("unknown time zone")
)

// Row is the converted time in one zone of the table.
type Row struct {
	Zone
	// Time is the wall-clock time in the zone, as in "05-01-2025, 14:30".
	Time string
	// Offset is the difference to the source zone, as in "IST+5:30", or
	// "input Zone" for the source itself.
	Offset string
	Input  bool
	Target bool
}

type loaded struct {
	Zone
	loc *time.Location
}

var (
	loadOnce sync.Once
	table    []loaded
)

// locations resolves the zone table once. Zones the tz database does not
// know are left out.
func locations() []loaded {
	loadOnce.Do(func() {
		for _, z := range zones {
			loc, err := time.LoadLocation(z.ID)
			if err != nil {
				continue
			}
			table = append(table, loaded{Zone: z, loc: loc})
		}
	})
	return table
}

// Zones returns the zone table.
func Zones() []Zone {
	out := make([]Zone, 0, len(zones))
	for _, z := range locations() {
		out = append(out, z.Zone)
	}
	return out
}

// Lookup finds a table entry by its IANA id.
func Lookup(id string) (Zone, bool) {
	for _, z := range zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

var abbreviation = regexp.MustCompile(`\((.*?)\)`)

// Short returns the abbreviation in parentheses of a zone label, or "SRC".
func Short(label string) string {
	if m := abbreviation.FindStringSubmatch(label); m != nil {
		return m[1]
	}
	return "SRC"
}

// Convert reads date and clock as a wall-clock time in zone from and lists
// that instant in every zone of the table: the source zone first, the
// target zone second and the rest in table order.
func Convert(date, clock, from, to string) ([]Row, error) {
	d, ok := datecalc.ParseDate(date)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidDate, "parse %q", date)
	}
	src, err := time.LoadLocation(from)
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownZone, "load %q", from)
	}
	if _, err := time.LoadLocation(to); err != nil {
		return nil, errors.Wrapf(ErrUnknownZone, "load %q", to)
	}

	c := datecalc.ParseClock(clock)
	instant := d.At(c, src)
	wall := d.At(c, time.UTC)

	short := "SRC"
	if z, ok := Lookup(from); ok {
		short = Short(z.Label)
	}

	var input, target *Row
	rows := make([]Row, 0, len(zones))
	for _, z := range locations() {
		t := instant.In(z.loc)
		row := Row{
			Zone:   z.Zone,
			Time:   t.Format("02-01-2006, 15:04"),
			Input:  z.ID == from,
			Target: z.ID == to,
		}
		if row.Input {
			row.Offset = "input Zone"
		} else {
			row.Offset = short + offset(wallClock(t).Sub(wall))
		}

		switch {
		case row.Input:
			input = &row
		case row.Target:
			target = &row
		default:
			rows = append(rows, row)
		}
	}

	var head []Row
	if input != nil {
		head = append(head, *input)
	}
	if target != nil {
		head = append(head, *target)
	}
	return append(head, rows...), nil
}

// wallClock reinterprets the fields of t as a UTC time.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, m, d, h, mi, s, 0, time.UTC)
}

func offset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("%s%d:%02d", sign, int(d/time.Hour), int(d%time.Hour/time.Minute))
}
