package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/fretscout/fretscout/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled
// PostgreSQL) for multi-instance deployments. Tested via integration
// tests against a containerized Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// UpsertListing inserts or updates a listing by listing_id.
func (s *PostgresStore) UpsertListing(ctx context.Context, l *domain.Listing) error {
	if l.ListingID == "" {
		return fmt.Errorf("listing ID is required")
	}
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	args := pgx.NamedArgs{
		"listing_id":     l.ListingID,
		"source":         l.Source,
		"source_item_id": l.SourceItemID,
		"title":          l.Title,
		"url":            l.URL,
		"image_url":      l.ImageURL,
		"price":          l.Price,
		"shipping":       l.Shipping,
		"all_in_price":   l.AllInPrice,
		"currency":       l.Currency,
		"condition":      l.Condition,
		"location":       l.Location,
		"seller":         l.Seller,
		"created_at":     createdAt,
		"ends_at":        l.EndsAt,
		"updated_at":     time.Now().UTC(),
	}

	const query = `
INSERT INTO listings (
	listing_id, source, source_item_id, title, url, image_url,
	price, shipping, all_in_price, currency, condition, location, seller,
	created_at, ends_at, updated_at
) VALUES (
	@listing_id, @source, @source_item_id, @title, @url, @image_url,
	@price, @shipping, @all_in_price, @currency, @condition, @location, @seller,
	@created_at, @ends_at, @updated_at
)
ON CONFLICT (listing_id) DO UPDATE SET
	source         = excluded.source,
	source_item_id = excluded.source_item_id,
	title          = excluded.title,
	url            = excluded.url,
	image_url      = excluded.image_url,
	price          = excluded.price,
	shipping       = excluded.shipping,
	all_in_price   = excluded.all_in_price,
	currency       = excluded.currency,
	condition      = excluded.condition,
	location       = excluded.location,
	seller         = excluded.seller,
	ends_at        = excluded.ends_at,
	updated_at     = excluded.updated_at
`
	if _, err := s.pool.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("upserting listing %s: %w", l.ListingID, err)
	}
	return nil
}

// UpsertListings saves a batch of listings, returning how many were
// written. A failure partway leaves earlier rows saved.
func (s *PostgresStore) UpsertListings(ctx context.Context, listings []domain.Listing) (int, error) {
	for i := range listings {
		if err := s.UpsertListing(ctx, &listings[i]); err != nil {
			return i, err
		}
	}
	return len(listings), nil
}

const pgListingColumns = `
	listing_id, source, source_item_id, title, url, image_url,
	price, shipping, all_in_price, currency, condition, location, seller,
	created_at, ends_at
`

// GetListing retrieves a listing by ID, or ErrNotFound.
func (s *PostgresStore) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgListingColumns+` FROM listings WHERE listing_id = $1`, listingID,
	)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting listing %s: %w", listingID, err)
	}
	return l, nil
}

// ListListings returns the most recently updated listings.
func (s *PostgresStore) ListListings(ctx context.Context, limit int) ([]domain.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgListingColumns+` FROM listings ORDER BY updated_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating listings: %w", err)
	}
	return listings, nil
}

// CreateAlert saves a new alert, filling in its ID and creation time.
func (s *PostgresStore) CreateAlert(ctx context.Context, a *domain.SavedAlert) error {
	if a.Query == "" {
		return fmt.Errorf("alert query is required")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO saved_alerts (query, max_price, created_at)
		 VALUES ($1, $2, $3) RETURNING alert_id`,
		a.Query, a.MaxPrice, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("creating alert: %w", err)
	}
	return nil
}

// ListAlerts returns all saved alerts, newest first.
func (s *PostgresStore) ListAlerts(ctx context.Context) ([]domain.SavedAlert, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT alert_id, query, max_price, created_at FROM saved_alerts ORDER BY alert_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.SavedAlert
	for rows.Next() {
		var a domain.SavedAlert
		if err := rows.Scan(&a.ID, &a.Query, &a.MaxPrice, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alerts: %w", err)
	}
	return alerts, nil
}

// DeleteAlert removes an alert and, via cascade, its events.
func (s *PostgresStore) DeleteAlert(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_alerts WHERE alert_id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting alert %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAlertEvent records a match, filling in the event ID. A duplicate
// (alert_id, listing_id) pair is a silent no-op.
func (s *PostgresStore) CreateAlertEvent(ctx context.Context, e *domain.AlertEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO alert_events (alert_id, listing_id, message, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (alert_id, listing_id) WHERE listing_id != '' DO NOTHING
		 RETURNING event_id`,
		e.AlertID, e.ListingID, e.Message, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict: the event already exists.
			return nil
		}
		return fmt.Errorf("creating alert event: %w", err)
	}
	return nil
}

// ListAlertEvents returns the most recent alert events.
func (s *PostgresStore) ListAlertEvents(ctx context.Context, limit int) ([]domain.AlertEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT event_id, alert_id, listing_id, message, created_at
		 FROM alert_events ORDER BY event_id DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying alert events: %w", err)
	}
	defer rows.Close()

	var events []domain.AlertEvent
	for rows.Next() {
		var e domain.AlertEvent
		if err := rows.Scan(&e.ID, &e.AlertID, &e.ListingID, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alert event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alert events: %w", err)
	}
	return events, nil
}

// HasAlertEvent reports whether the alert already fired for the listing.
func (s *PostgresStore) HasAlertEvent(ctx context.Context, alertID int64, listingID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM alert_events WHERE alert_id = $1 AND listing_id = $2)`,
		alertID, listingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking alert event: %w", err)
	}
	return exists, nil
}
