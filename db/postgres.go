package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gilby125/weekend-trip-api/config"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SavedSearchStore is the persistence used by the API for saved searches.
type SavedSearchStore interface {
	CreateSavedSearch(ctx context.Context, search *SavedSearch) error
	GetSavedSearch(ctx context.Context, id uuid.UUID) (*SavedSearch, error)
	ListSavedSearches(ctx context.Context, limit, offset int) ([]SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, id uuid.UUID) error
	CountSavedSearches(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	db  *sql.DB
	now func() time.Time
}

var _ SavedSearchStore = (*PostgresDB)(nil)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg config.PostgresConfig) (*PostgresDB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return NewPostgresDBFromConn(db), nil
}

// NewPostgresDBFromConn wraps an already opened connection
func NewPostgresDBFromConn(db *sql.DB) *PostgresDB {
	return &PostgresDB{db: db, now: time.Now}
}

// Close closes the database connection
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

// GetDB returns the underlying database connection
func (p *PostgresDB) GetDB() *sql.DB {
	return p.db
}

// Ping checks connectivity
func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// CreateSavedSearch normalizes, validates and inserts search, filling ID and CreatedAt.
func (p *PostgresDB) CreateSavedSearch(ctx context.Context, search *SavedSearch) error {
	search.Normalize()
	if err := search.Validate(); err != nil {
		return err
	}
	if search.ID == uuid.Nil {
		search.ID = uuid.New()
	}
	search.CreatedAt = p.now().UTC()

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO saved_searches
			(id, name, departure_airport, presets, budget_max, currency, excluded_destinations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		search.ID,
		search.Name,
		search.DepartureAirport,
		pq.Array(search.Presets),
		search.BudgetMax,
		search.Currency,
		pq.Array(search.ExcludedDestinations),
		search.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert saved search: %w", err)
	}
	return nil
}

const savedSearchColumns = `id, name, departure_airport, presets, budget_max, currency, excluded_destinations, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSavedSearch(row rowScanner) (*SavedSearch, error) {
	var s SavedSearch
	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.DepartureAirport,
		pq.Array(&s.Presets),
		&s.BudgetMax,
		&s.Currency,
		pq.Array(&s.ExcludedDestinations),
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSavedSearch returns ErrNotFound when id is unknown.
func (p *PostgresDB) GetSavedSearch(ctx context.Context, id uuid.UUID) (*SavedSearch, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+savedSearchColumns+` FROM saved_searches WHERE id = $1`, id)
	s, err := scanSavedSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load saved search %s: %w", id, err)
	}
	return s, nil
}

// ListSavedSearches returns searches newest first.
func (p *PostgresDB) ListSavedSearches(ctx context.Context, limit, offset int) ([]SavedSearch, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+savedSearchColumns+` FROM saved_searches ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved searches: %w", err)
	}
	defer rows.Close()

	searches := []SavedSearch{}
	for rows.Next() {
		s, err := scanSavedSearch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved search: %w", err)
		}
		searches = append(searches, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved searches: %w", err)
	}
	return searches, nil
}

// DeleteSavedSearch returns ErrNotFound when nothing was deleted.
func (p *PostgresDB) DeleteSavedSearch(ctx context.Context, id uuid.UUID) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM saved_searches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved search %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete saved search %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountSavedSearches returns the number of stored searches.
func (p *PostgresDB) CountSavedSearches(ctx context.Context) (int, error) {
	var count int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_searches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count saved searches: %w", err)
	}
	return count, nil
}
