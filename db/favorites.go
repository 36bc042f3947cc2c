package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"github.com/gilby125/weekend-trip-api/pkg/dates"
)

// Favorite is a trip the user pinned from search results.
type Favorite struct {
	ID               uuid.UUID          `json:"id"`
	SearchID         *uuid.UUID         `json:"search_id,omitempty"`
	DepartureAirport string             `json:"departure_airport"`
	DestinationCode  string             `json:"destination_code"`
	DestinationName  string             `json:"destination_name"`
	OutboundDate     dates.CalendarDate `json:"outbound_date"`
	ReturnDate       dates.CalendarDate `json:"return_date"`
	TotalPrice       float64            `json:"total_price"`
	Currency         string             `json:"currency"`
	CreatedAt        time.Time          `json:"created_at"`
}

// FavoriteStore is the persistence used by the API for favorites.
type FavoriteStore interface {
	CreateFavorite(ctx context.Context, fav *Favorite) error
	GetFavorite(ctx context.Context, id uuid.UUID) (*Favorite, error)
	ListFavorites(ctx context.Context, limit, offset int) ([]Favorite, error)
	DeleteFavorite(ctx context.Context, id uuid.UUID) error
	CountFavorites(ctx context.Context) (int, error)
}

var _ FavoriteStore = (*PostgresDB)(nil)

// Normalize upper-cases codes and fills the default currency.
func (f *Favorite) Normalize() {
	f.DepartureAirport = strings.ToUpper(strings.TrimSpace(f.DepartureAirport))
	f.DestinationCode = strings.ToUpper(strings.TrimSpace(f.DestinationCode))
	f.DestinationName = strings.TrimSpace(f.DestinationName)
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	if f.Currency == "" {
		f.Currency = "EUR"
	}
}

// Validate checks a normalized favorite.
func (f *Favorite) Validate() error {
	if !iataCodeRe.MatchString(f.DepartureAirport) {
		return &ValidationError{Field: "departure_airport", Reason: "must be a 3-letter IATA code"}
	}
	if !iataCodeRe.MatchString(f.DestinationCode) {
		return &ValidationError{Field: "destination_code", Reason: "must be a 3-letter IATA code"}
	}
	if f.DestinationCode == f.DepartureAirport {
		return &ValidationError{Field: "destination_code", Reason: "must differ from the departure airport"}
	}
	if f.OutboundDate.IsZero() {
		return &ValidationError{Field: "outbound_date", Reason: "is required"}
	}
	if f.ReturnDate.IsZero() {
		return &ValidationError{Field: "return_date", Reason: "is required"}
	}
	if f.ReturnDate.Before(f.OutboundDate) {
		return &ValidationError{Field: "return_date", Reason: "must not be before outbound_date"}
	}
	if f.TotalPrice <= 0 {
		return &ValidationError{Field: "total_price", Reason: "must be positive"}
	}
	if _, err := currency.ParseISO(f.Currency); err != nil {
		return &ValidationError{Field: "currency", Reason: "must be an ISO 4217 code"}
	}
	return nil
}

// Weekend returns the Friday to Sunday window the trip covers, if the
// outbound and return dates both fall inside the same one.
func (f *Favorite) Weekend() (dates.WeekendWindow, bool) {
	window, ok := dates.WeekendOf(f.OutboundDate)
	if !ok || !window.Contains(f.ReturnDate) {
		return dates.WeekendWindow{}, false
	}
	return window, true
}

// CreateFavorite normalizes, validates and inserts fav, filling ID and CreatedAt.
func (p *PostgresDB) CreateFavorite(ctx context.Context, fav *Favorite) error {
	fav.Normalize()
	if err := fav.Validate(); err != nil {
		return err
	}
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	fav.CreatedAt = p.now().UTC()

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO favorites
			(id, search_id, departure_airport, destination_code, destination_name,
			 outbound_date, return_date, total_price, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		fav.ID,
		nullUUID(fav.SearchID),
		fav.DepartureAirport,
		fav.DestinationCode,
		fav.DestinationName,
		fav.OutboundDate.String(),
		fav.ReturnDate.String(),
		fav.TotalPrice,
		fav.Currency,
		fav.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

func nullUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

const favoriteColumns = `id, search_id, departure_airport, destination_code, destination_name,
	outbound_date, return_date, total_price, currency, created_at`

func scanFavorite(row rowScanner) (*Favorite, error) {
	var (
		f                 Favorite
		searchID          uuid.NullUUID
		outbound, inbound time.Time
	)
	if err := row.Scan(
		&f.ID,
		&searchID,
		&f.DepartureAirport,
		&f.DestinationCode,
		&f.DestinationName,
		&outbound,
		&inbound,
		&f.TotalPrice,
		&f.Currency,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	if searchID.Valid {
		f.SearchID = &searchID.UUID
	}
	f.OutboundDate = dates.FromTime(outbound)
	f.ReturnDate = dates.FromTime(inbound)
	return &f, nil
}

// GetFavorite returns ErrNotFound when id is unknown.
func (p *PostgresDB) GetFavorite(ctx context.Context, id uuid.UUID) (*Favorite, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE id = $1`, id)
	f, err := scanFavorite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite %s: %w", id, err)
	}
	return f, nil
}

// ListFavorites returns favorites newest first.
func (p *PostgresDB) ListFavorites(ctx context.Context, limit, offset int) ([]Favorite, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}
	return favorites, nil
}

// DeleteFavorite returns ErrNotFound when nothing was deleted.
func (p *PostgresDB) DeleteFavorite(ctx context.Context, id uuid.UUID) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete favorite %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountFavorites returns the number of stored favorites.
func (p *PostgresDB) CountFavorites(ctx context.Context) (int, error) {
	var count int
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
