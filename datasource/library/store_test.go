package library

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenreCountsIncludeZeroBuckets(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, b := range []Book{
		{Title: "Dune", Genre: "fiction"},
		{Title: "Foundation", Genre: "fiction"},
		{Title: "Cosmos", Genre: "science", Status: "borrowed"},
		{Title: "Untyped"},
	} {
		_, err := s.AddBook(ctx, b)
		require.NoError(t, err)
	}

	counts, err := s.GenreCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Count{
		{"fiction", "Fiction", 2},
		{"nonfiction", "Non-Fiction", 0},
		{"fantasy", "Fantasy", 0},
		{"biography", "Biography", 0},
		{"science", "Science", 1},
	}, counts)

	statuses, err := s.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, statuses[0].Value)
	assert.Equal(t, 1, statuses[1].Value)
	assert.Equal(t, 0, statuses[2].Value)
}

func TestAddBookValidation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.AddBook(ctx, Book{Title: ""})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = s.AddBook(ctx, Book{Title: "x", Genre: "poetry"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = s.AddBook(ctx, Book{Title: "x", Status: "burned"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRentalsPerMonthOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	book, err := s.AddBook(ctx, Book{Title: "Dune", Genre: "fiction"})
	require.NoError(t, err)

	for _, d := range []time.Time{
		date(2026, time.October, 1),
		date(2026, time.October, 14),
		date(2026, time.August, 31),
		date(2026, time.May, 2),
		date(2026, time.April, 30), // outside the window
	} {
		_, err := s.AddRental(ctx, Rental{BookID: book, RentalDate: d, DueDate: d.AddDate(0, 0, 14)})
		require.NoError(t, err)
	}

	counts, err := s.RentalsPerMonth(ctx, date(2026, time.October, 14), 6)
	require.NoError(t, err)
	require.Len(t, counts, 6)

	labels := make([]string, len(counts))
	values := make([]int, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		values[i] = c.Value
	}
	assert.Equal(t, []string{"May", "June", "July", "August", "September", "October"}, labels)
	assert.Equal(t, []int{1, 0, 0, 1, 0, 2}, values)
}

func TestMarkOverdue(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	book, err := s.AddBook(ctx, Book{Title: "Dune"})
	require.NoError(t, err)

	returned := date(2026, time.September, 5)
	rentals := []Rental{
		{BookID: book, RentalDate: date(2026, time.September, 1), DueDate: date(2026, time.September, 10), State: "active"},
		{BookID: book, RentalDate: date(2026, time.September, 1), DueDate: date(2026, time.September, 10), State: "returned", ReturnDate: &returned},
		{BookID: book, RentalDate: date(2026, time.October, 1), DueDate: date(2026, time.October, 30), State: "confirmed"},
	}
	for _, r := range rentals {
		_, err := s.AddRental(ctx, r)
		require.NoError(t, err)
	}

	n, err := s.MarkOverdue(ctx, date(2026, time.October, 14))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	states, err := s.RentalStateCounts(ctx)
	require.NoError(t, err)
	byKey := map[string]int{}
	for _, c := range states {
		byKey[c.Key] = c.Value
	}
	assert.Equal(t, 1, byKey["overdue"])
	assert.Equal(t, 1, byKey["returned"])
	assert.Equal(t, 1, byKey["confirmed"])
	assert.Equal(t, 0, byKey["active"])
}

func TestAddRentalRejectsDueBeforeRental(t *testing.T) {
	s := openTestStore(t)
	_, err := s.AddRental(context.Background(), Rental{
		BookID:     1,
		RentalDate: date(2026, time.October, 10),
		DueDate:    date(2026, time.October, 1),
	})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestSources(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.AddBook(ctx, Book{Title: "Dune", Genre: "fiction"})
	require.NoError(t, err)

	sources := Sources(s, func() time.Time { return date(2026, time.October, 14) })
	require.Len(t, sources, len(SourceNames))

	cfg, err := sources[SourceGenres].Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, chart.KindDoughnut, cfg.Kind)
	assert.Equal(t, []float64{1, 0, 0, 0, 0}, cfg.Values())
	assert.Equal(t, chart.DefaultPalette[:5], cfg.Colors())
	assert.NoError(t, cfg.Validate())

	cfg, err = sources[SourceRentalsPerMonth].Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, chart.KindLine, cfg.Kind)
	assert.Len(t, cfg.Data, 6)

	cfg, err = sources[SourceRentalStates].Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, chart.KindBar, cfg.Kind)
}

func TestSourceFailsAfterClose(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = GenreSource(s).Fetch(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeStoreFailed))
}
