package library

import (
	"context"
	"time"

	"github.com/grovetools/widgets/chart"
	"github.com/grovetools/widgets/datasource"
)

// Source names accepted in widget configuration.
const (
	SourceGenres          = "library.genres"
	SourceStatuses        = "library.statuses"
	SourceRentalsPerMonth = "library.rentals_per_month"
	SourceRentalStates    = "library.rental_states"
)

// SourceNames lists every library source name.
var SourceNames = []string{SourceGenres, SourceStatuses, SourceRentalsPerMonth, SourceRentalStates}

// rentalMonths is how far back the rentals-per-month chart looks.
const rentalMonths = 6

// GenreSource charts books per genre as a doughnut.
func GenreSource(s *Store) datasource.DataSource {
	return countSource(chart.KindDoughnut, s.GenreCounts)
}

// StatusSource charts books per status as a doughnut.
func StatusSource(s *Store) datasource.DataSource {
	return countSource(chart.KindDoughnut, s.StatusCounts)
}

// RentalStateSource charts rentals per state as a bar chart.
func RentalStateSource(s *Store) datasource.DataSource {
	return countSource(chart.KindBar, s.RentalStateCounts)
}

// RentalsPerMonthSource charts the last six months of rentals as a line.
// now is read on every fetch; nil means time.Now.
func RentalsPerMonthSource(s *Store, now func() time.Time) datasource.DataSource {
	if now == nil {
		now = time.Now
	}
	return countSource(chart.KindLine, func(ctx context.Context) ([]Count, error) {
		return s.RentalsPerMonth(ctx, now(), rentalMonths)
	})
}

// Sources returns every library source keyed by name.
func Sources(s *Store, now func() time.Time) map[string]datasource.DataSource {
	return map[string]datasource.DataSource{
		SourceGenres:          GenreSource(s),
		SourceStatuses:        StatusSource(s),
		SourceRentalsPerMonth: RentalsPerMonthSource(s, now),
		SourceRentalStates:    RentalStateSource(s),
	}
}

func countSource(kind chart.Kind, query func(context.Context) ([]Count, error)) datasource.DataSource {
	return datasource.Func(func(ctx context.Context) (chart.Config, error) {
		counts, err := query(ctx)
		if err != nil {
			return chart.Config{}, err
		}
		labels := make([]string, len(counts))
		values := make([]float64, len(counts))
		for i, c := range counts {
			labels[i] = c.Label
			values[i] = float64(c.Value)
		}
		return chart.New(kind, labels, values, nil)
	})
}
