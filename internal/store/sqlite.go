package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	domain "github.com/fretscout/fretscout/pkg/types"
)

// SQLiteStore implements Store on an embedded SQLite database. It is the
// default backend: a single file, no server to run.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
// Pass ":memory:" for an ephemeral in-process database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	// Pragmas go in the DSN so they apply to every pooled connection.
	const pragmas = "?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"

	dsn := path + pragmas
	if path != ":memory:" {
		dsn = filepath.Clean(path) + pragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	// The driver serializes writes; a single connection avoids lock
	// contention errors under concurrent use.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the schema if it does not exist yet.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS listings (
	listing_id     TEXT PRIMARY KEY,
	source         TEXT NOT NULL,
	source_item_id TEXT NOT NULL DEFAULT '',
	title          TEXT NOT NULL,
	url            TEXT NOT NULL DEFAULT '',
	image_url      TEXT NOT NULL DEFAULT '',
	price          REAL,
	shipping       REAL,
	all_in_price   REAL,
	currency       TEXT NOT NULL DEFAULT '',
	condition      TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	seller         TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL,
	ends_at        TIMESTAMP,
	updated_at     TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_listings_source ON listings (source);
CREATE INDEX IF NOT EXISTS idx_listings_updated ON listings (updated_at);

CREATE TABLE IF NOT EXISTS saved_alerts (
	alert_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	query      TEXT NOT NULL,
	max_price  REAL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS alert_events (
	event_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	alert_id   INTEGER NOT NULL REFERENCES saved_alerts (alert_id) ON DELETE CASCADE,
	listing_id TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_alert_events_alert ON alert_events (alert_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_alert_events_pair
	ON alert_events (alert_id, listing_id) WHERE listing_id != '';
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying sqlite schema: %w", err)
	}
	return nil
}

// UpsertListing inserts or updates a listing by listing_id.
func (s *SQLiteStore) UpsertListing(ctx context.Context, l *domain.Listing) error {
	const query = `
INSERT INTO listings (
	listing_id, source, source_item_id, title, url, image_url,
	price, shipping, all_in_price, currency, condition, location, seller,
	created_at, ends_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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
	if l.ListingID == "" {
		return fmt.Errorf("listing ID is required")
	}
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		l.ListingID, l.Source, l.SourceItemID, l.Title, l.URL, l.ImageURL,
		l.Price, l.Shipping, l.AllInPrice, l.Currency, l.Condition,
		l.Location, l.Seller, createdAt, l.EndsAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting listing %s: %w", l.ListingID, err)
	}
	return nil
}

// UpsertListings saves a batch of listings, returning how many were
// written. A failure partway leaves earlier rows saved.
func (s *SQLiteStore) UpsertListings(ctx context.Context, listings []domain.Listing) (int, error) {
	for i := range listings {
		if err := s.UpsertListing(ctx, &listings[i]); err != nil {
			return i, err
		}
	}
	return len(listings), nil
}

const listingColumns = `
	listing_id, source, source_item_id, title, url, image_url,
	price, shipping, all_in_price, currency, condition, location, seller,
	created_at, ends_at
`

// GetListing retrieves a listing by ID, or ErrNotFound.
func (s *SQLiteStore) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE listing_id = ?`, listingID,
	)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting listing %s: %w", listingID, err)
	}
	return l, nil
}

// ListListings returns the most recently updated listings.
func (s *SQLiteStore) ListListings(ctx context.Context, limit int) ([]domain.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY updated_at DESC LIMIT ?`, limit,
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
func (s *SQLiteStore) CreateAlert(ctx context.Context, a *domain.SavedAlert) error {
	if strings.TrimSpace(a.Query) == "" {
		return fmt.Errorf("alert query is required")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_alerts (query, max_price, created_at) VALUES (?, ?, ?)`,
		a.Query, a.MaxPrice, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading alert ID: %w", err)
	}
	a.ID = id
	return nil
}

// ListAlerts returns all saved alerts, newest first.
func (s *SQLiteStore) ListAlerts(ctx context.Context) ([]domain.SavedAlert, error) {
	rows, err := s.db.QueryContext(ctx,
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
func (s *SQLiteStore) DeleteAlert(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_alerts WHERE alert_id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting alert %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete of alert %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAlertEvent records a match, filling in the event ID. A duplicate
// (alert_id, listing_id) pair is a silent no-op so a listing only fires
// once per alert.
func (s *SQLiteStore) CreateAlertEvent(ctx context.Context, e *domain.AlertEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO alert_events (alert_id, listing_id, message, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (alert_id, listing_id) WHERE listing_id != '' DO NOTHING`,
		e.AlertID, e.ListingID, e.Message, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating alert event: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		e.ID = id
	}
	return nil
}

// ListAlertEvents returns the most recent alert events.
func (s *SQLiteStore) ListAlertEvents(ctx context.Context, limit int) ([]domain.AlertEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, alert_id, listing_id, message, created_at
		 FROM alert_events ORDER BY event_id DESC LIMIT ?`, limit,
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
func (s *SQLiteStore) HasAlertEvent(ctx context.Context, alertID int64, listingID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM alert_events WHERE alert_id = ? AND listing_id = ?)`,
		alertID, listingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking alert event: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ListingID, &l.Source, &l.SourceItemID, &l.Title, &l.URL, &l.ImageURL,
		&l.Price, &l.Shipping, &l.AllInPrice, &l.Currency, &l.Condition,
		&l.Location, &l.Seller, &l.CreatedAt, &l.EndsAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
