// Package store defines the datastore abstraction for FretScout. Business
// logic depends on the Store interface, never on concrete implementations,
// so tests can run against in-memory SQLite without a server.
package store

import (
	"context"
	"errors"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines all data access operations for FretScout.
type Store interface {
	// Listings
	UpsertListing(ctx context.Context, l *domain.Listing) error
	UpsertListings(ctx context.Context, listings []domain.Listing) (int, error)
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)
	ListListings(ctx context.Context, limit int) ([]domain.Listing, error)

	// Saved alerts
	CreateAlert(ctx context.Context, a *domain.SavedAlert) error
	ListAlerts(ctx context.Context) ([]domain.SavedAlert, error)
	DeleteAlert(ctx context.Context, id int64) error

	// Alert events
	CreateAlertEvent(ctx context.Context, e *domain.AlertEvent) error
	ListAlertEvents(ctx context.Context, limit int) ([]domain.AlertEvent, error)
	HasAlertEvent(ctx context.Context, alertID int64, listingID string) (bool, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error

	Close() error
}
