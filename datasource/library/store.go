// Package library is a SQLite-backed store of library books and rentals and
// the dashboard data sources computed from it: books per genre, books per
// status, rentals per month and rentals per state.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/grovetools/widgets/errors"
	_ "modernc.org/sqlite" // SQLite driver (pure Go, no CGO)
)

const dateLayout = "2006-01-02"

// Selection is one (key, label) pair of an enumerated field.
type Selection struct {
	Key   string
	Label string
}

// Genres lists book genres in display order.
var Genres = []Selection{
	{"fiction", "Fiction"},
	{"nonfiction", "Non-Fiction"},
	{"fantasy", "Fantasy"},
	{"biography", "Biography"},
	{"science", "Science"},
}

// BookStatuses lists book statuses in display order.
var BookStatuses = []Selection{
	{"available", "Available"},
	{"borrowed", "Borrowed"},
	{"lost", "Lost"},
}

// RentalStates lists rental states in display order.
var RentalStates = []Selection{
	{"draft", "Draft"},
	{"confirmed", "Confirmed"},
	{"active", "Active"},
	{"returned", "Returned"},
	{"overdue", "Overdue"},
}

// Book is a catalogue entry.
type Book struct {
	ID     int64
	Title  string
	Genre  string
	Status string
}

// Rental is a loan of one book.
type Rental struct {
	ID         int64
	BookID     int64
	RentalDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	State      string
}

// Count is one bucket of an aggregate query.
type Count struct {
	Key   string
	Label string
	Value int
}

// Store provides SQLite persistence for the library dashboard.
type Store struct {
	db *sql.DB
}

// Open initializes a SQLite store at path and runs migrations.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "open database").WithDetail("path", path)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "ping database").WithDetail("path", path)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "run migrations").WithDetail("path", path)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		genre TEXT,
		status TEXT NOT NULL DEFAULT 'available' CHECK(status IN ('available', 'borrowed', 'lost'))
	);

	CREATE TABLE IF NOT EXISTS rentals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		book_id INTEGER NOT NULL REFERENCES books(id),
		rental_date TEXT NOT NULL,
		due_date TEXT NOT NULL,
		return_date TEXT,
		state TEXT NOT NULL DEFAULT 'draft' CHECK(state IN ('draft', 'confirmed', 'active', 'returned', 'overdue'))
	);

	CREATE INDEX IF NOT EXISTS idx_books_genre ON books(genre);
	CREATE INDEX IF NOT EXISTS idx_rentals_date ON rentals(rental_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AddBook inserts a book and returns its id. An empty status means available.
func (s *Store) AddBook(ctx context.Context, b Book) (int64, error) {
	if b.Title == "" {
		return 0, errors.InvalidInput("title", "must not be empty")
	}
	if b.Status == "" {
		b.Status = "available"
	}
	if !known(BookStatuses, b.Status) {
		return 0, errors.InvalidInput("status", fmt.Sprintf("unknown status '%s'", b.Status))
	}
	var genre sql.NullString
	if b.Genre != "" {
		if !known(Genres, b.Genre) {
			return 0, errors.InvalidInput("genre", fmt.Sprintf("unknown genre '%s'", b.Genre))
		}
		genre = sql.NullString{String: b.Genre, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (title, genre, status) VALUES (?, ?, ?)`, b.Title, genre, b.Status)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeStoreFailed, "insert book")
	}
	return res.LastInsertId()
}

// AddRental inserts a rental and returns its id. The due date must not be
// before the rental date.
func (s *Store) AddRental(ctx context.Context, r Rental) (int64, error) {
	if r.State == "" {
		r.State = "draft"
	}
	if !known(RentalStates, r.State) {
		return 0, errors.InvalidInput("state", fmt.Sprintf("unknown state '%s'", r.State))
	}
	if r.DueDate.Before(r.RentalDate) {
		return 0, errors.InvalidInput("due_date", "must be after the rental date")
	}
	var returned sql.NullString
	if r.ReturnDate != nil {
		returned = sql.NullString{String: r.ReturnDate.Format(dateLayout), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rentals (book_id, rental_date, due_date, return_date, state) VALUES (?, ?, ?, ?, ?)`,
		r.BookID, r.RentalDate.Format(dateLayout), r.DueDate.Format(dateLayout), returned, r.State)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeStoreFailed, "insert rental")
	}
	return res.LastInsertId()
}

// MarkOverdue moves every unreturned rental past its due date to overdue
// and reports how many changed.
func (s *Store) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
	UPDATE rentals SET state = 'overdue'
	WHERE due_date < ? AND return_date IS NULL AND state NOT IN ('returned', 'overdue')
	`, today.Format(dateLayout))
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeStoreFailed, "mark overdue rentals")
	}
	return res.RowsAffected()
}

// GenreCounts counts books per genre. Every genre appears, zero included.
func (s *Store) GenreCounts(ctx context.Context) ([]Count, error) {
	return s.countBy(ctx, `SELECT genre, COUNT(*) FROM books WHERE genre IS NOT NULL GROUP BY genre`, Genres)
}

// StatusCounts counts books per status.
func (s *Store) StatusCounts(ctx context.Context) ([]Count, error) {
	return s.countBy(ctx, `SELECT status, COUNT(*) FROM books GROUP BY status`, BookStatuses)
}

// RentalStateCounts counts rentals per state.
func (s *Store) RentalStateCounts(ctx context.Context) ([]Count, error) {
	return s.countBy(ctx, `SELECT state, COUNT(*) FROM rentals GROUP BY state`, RentalStates)
}

// RentalsPerMonth counts rentals started in each of the last n calendar
// months up to and including the month of now, oldest first. Labels are
// month names.
func (s *Store) RentalsPerMonth(ctx context.Context, now time.Time, n int) ([]Count, error) {
	if n <= 0 {
		return nil, nil
	}
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]Count, n)
	for i := 0; i < n; i++ {
		first := current.AddDate(0, -(n - 1 - i), 0)
		last := first.AddDate(0, 1, -1)

		var count int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM rentals WHERE rental_date >= ? AND rental_date <= ?`,
			first.Format(dateLayout), last.Format(dateLayout)).Scan(&count)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "count rentals per month")
		}
		out[i] = Count{Key: first.Format("2006-01"), Label: first.Format("January"), Value: count}
	}
	return out, nil
}

func (s *Store) countBy(ctx context.Context, query string, selection []Selection) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "count query")
	}
	defer func() { _ = rows.Close() }()

	got := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "scan count")
		}
		got[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreFailed, "iterate counts")
	}

	out := make([]Count, len(selection))
	for i, sel := range selection {
		out[i] = Count{Key: sel.Key, Label: sel.Label, Value: got[sel.Key]}
	}
	return out, nil
}

func known(selection []Selection, key string) bool {
	for _, sel := range selection {
		if sel.Key == key {
			return true
		}
	}
	return false
}
