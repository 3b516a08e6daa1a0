// Package notify defines the notification interface and implementations
// for alert delivery.
package notify

import (
	"context"
)

// AlertPayload contains the data needed to send a deal alert notification.
type AlertPayload struct {
	AlertQuery   string
	ListingTitle string
	ListingURL   string
	ImageURL     string
	Price        string
	DealScore    *float64
	DealLabel    string
	Confidence   string
	Message      string
}

// Notifier defines the interface for sending deal alert notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendBatchAlert(ctx context.Context, alerts []AlertPayload, query string) error
}
