package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock makes record timestamps advance one minute per call.
func fakeClock(t *testing.T, start time.Time) {
	t.Helper()
	current := start
	now = func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
	t.Cleanup(func() { now = time.Now })
}

func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func expressions(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Expression)
	}
	return out
}

func TestStoreAddDeduplicates(t *testing.T) {
	fakeClock(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			first, err := s.Add(ctx, Record{Expression: "2+2", Result: "4"})
			require.NoError(t, err)
			assert.NotEmpty(t, first.ID)
			assert.Equal(t, ModeCalc, first.Mode)
			assert.False(t, first.Timestamp.IsZero())

			_, err = s.Add(ctx, Record{Expression: "3×3", Result: "9"})
			require.NoError(t, err)
			again, err := s.Add(ctx, Record{Expression: "2+2", Result: "4"})
			require.NoError(t, err)
			assert.NotEqual(t, first.ID, again.ID)

			list, err := s.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"3×3", "2+2"}, expressions(list))
			assert.Equal(t, again.ID, list[1].ID)
			assert.True(t, again.Timestamp.Equal(list[1].Timestamp))
		})
	}
}

func TestStoreOwners(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Add(ctx, Record{Owner: "alice", Expression: "1+1", Result: "2"})
			require.NoError(t, err)
			_, err = s.Add(ctx, Record{Owner: "bob", Expression: "1+1", Result: "2"})
			require.NoError(t, err)

			alice, err := s.List(ctx, "alice")
			require.NoError(t, err)
			assert.Len(t, alice, 1)

			require.NoError(t, s.Clear(ctx, "alice"))
			alice, err = s.List(ctx, "alice")
			require.NoError(t, err)
			assert.Empty(t, alice)

			bob, err := s.List(ctx, "bob")
			require.NoError(t, err)
			assert.Len(t, bob, 1)
		})
	}
}

func TestStoreRemove(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			r, err := s.Add(ctx, Record{Expression: "EMI: 100000 @ 12% for 1y", Result: "EMI: 8884.88, Total: 106618.55"})
			require.NoError(t, err)
			assert.Equal(t, ModeFinance, r.Mode)

			require.NoError(t, s.Remove(ctx, r.ID))
			assert.True(t, errors.Is(s.Remove(ctx, r.ID), ErrNotFound))

			list, err := s.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestStorePrune(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	fakeClock(t, start)
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			old, err := s.Add(ctx, Record{Expression: "1", Result: "1"})
			require.NoError(t, err)
			fresh, err := s.Add(ctx, Record{Expression: "2", Result: "2"})
			require.NoError(t, err)

			n, err := s.Prune(ctx, old.Timestamp.Add(time.Second))
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			list, err := s.List(ctx, "")
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, fresh.ID, list[0].ID)
		})
	}
}

func TestStoreRejectsEmptyExpression(t *testing.T) {
	for name, s := range stores(t) {
		_, err := s.Add(context.Background(), Record{Result: "4"})
		assert.Error(t, err, name)
	}
}

func TestOpenPrunesExpired(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	fakeClock(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC))
	s, err := Open(ctx, path, DefaultRetention)
	require.NoError(t, err)
	_, err = s.Add(ctx, Record{Expression: "6×7", Result: "42"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	fakeClock(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	s, err = Open(ctx, path, DefaultRetention)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Add(ctx, Record{Expression: "1+1", Result: "2"})
	require.NoError(t, err)
	list, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1+1"}, expressions(list))
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(context.Background(), "", 0)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}

func TestModeFor(t *testing.T) {
	tests := map[string]Mode{
		"2+2":                          ModeCalc,
		"sin(30)":                      ModeCalc,
		"EMI: 100000 @ 12% for 1y":     ModeFinance,
		"Stock Avg: 10x100 + 30x80":    ModeFinance,
		"Reg Int: 1 @ 1% Monthly":      ModeFinance,
		"GST: 1000 @ 18% (Exclusive)":  ModeFinance,
		"Age: 1-1-1990":                ModeConv,
		"1 km to m":                    ModeConv,
		"Time Zone: Asia/Kolkata 9:00": ModeConv,
	}
	for expr, want := range tests {
		assert.Equal(t, want, ModeFor(expr), expr)
	}
}
