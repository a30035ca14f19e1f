// Package history keeps the list of committed calculations.
//
// A record is kept once per expression: adding an expression again moves
// it to the end of the list with its new result. Records older than the
// retention window are dropped when a store is opened.
package history

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
)

// DefaultRetention is how long a record is kept.
const DefaultRetention = 365 * 24 * time.Hour

var ErrNotFound = errors.New("history record not found")

// Mode is the tool that produced a record.
type Mode string

const (
	ModeCalc    Mode = "calc"
	ModeConv    Mode = "conv"
	ModeFinance Mode = "finance"
)

var (
	financePrefix = regexp.MustCompile(`^(EMI:|Stock Avg:|Reg Int:|Simple Int:|Compound Int:|SIP:|GST:)`)
	convPattern   = regexp.MustCompile(`^(Age:|BMI:|Date Diff:|Time Zone:)| to `)
)

// ModeFor guesses the tool behind an expression from its shape.
func ModeFor(expression string) Mode {
	switch {
	case financePrefix.MatchString(expression):
		return ModeFinance
	case convPattern.MatchString(expression):
		return ModeConv
	}
	return ModeCalc
}

// Record is one history entry.
type Record struct {
	ID string `yaml:"id"`
	// Owner separates the histories of different users of one store. The
	// command line tools use the empty owner.
	Owner      string    `yaml:"owner,omitempty"`
	Expression string    `yaml:"expression"`
	Result     string    `yaml:"result"`
	Mode       Mode      `yaml:"mode"`
	Category   string    `yaml:"category,omitempty"`
	Data       string    `yaml:"data,omitempty"`
	Timestamp  time.Time `yaml:"timestamp"`
}

//go:generate mockgen -destination=historymock/store.go -package=historymock github.com/turbekoff/tabcalc/pkg/history Store

// Store persists history records.
type Store interface {
	// Add assigns the record an id and a timestamp, replaces any record of
	// the same owner with the same expression and appends it.
	Add(ctx context.Context, r Record) (Record, error)
	// List returns the records of an owner, oldest first.
	List(ctx context.Context, owner string) ([]Record, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context, owner string) error
	// Prune drops records created before the given time and reports how
	// many were dropped.
	Prune(ctx context.Context, before time.Time) (int, error)
	Close() error
}

// now is the clock used to stamp records.
var now = time.Now

// prepare fills the fields Add is responsible for.
func prepare(r Record) (Record, error) {
	if r.Expression == "" {
		return Record{}, errors.New("history record without expression")
	}
	r.ID = newID()
	r.Timestamp = now()
	if r.Mode == "" {
		r.Mode = ModeFor(r.Expression)
	}
	return r, nil
}

// Open opens the store at path, or an in-memory store when path is empty,
// and drops the records older than retention. A zero retention keeps
// everything.
func Open(ctx context.Context, path string, retention time.Duration) (Store, error) {
	var (
		s   Store
		err error
	)
	if path == "" {
		s = NewMemoryStore()
	} else if s, err = NewSQLiteStore(path); err != nil {
		return nil, err
	}

	if retention > 0 {
		if _, err := s.Prune(ctx, now().Add(-retention)); err != nil {
			s.Close()
			return nil, errors.Wrap(err, "prune expired records")
		}
	}
	return s, nil
}
