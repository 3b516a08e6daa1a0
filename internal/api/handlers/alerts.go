package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fretscout/fretscout/internal/store"
	domain "github.com/fretscout/fretscout/pkg/types"
)

// AlertHandler handles saved alert CRUD and event listing.
type AlertHandler struct {
	store store.Store
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(s store.Store) *AlertHandler {
	return &AlertHandler{store: s}
}

// CreateAlertInput is the request body for creating an alert.
type CreateAlertInput struct {
	Body struct {
		Query    string   `json:"query" minLength:"1" doc:"Search text to watch" example:"gibson les paul"`
		MaxPrice *float64 `json:"max_price,omitempty" minimum:"0" doc:"All-in price ceiling"`
	}
}

// AlertOutput wraps a single saved alert.
type AlertOutput struct {
	Body domain.SavedAlert
}

// Create saves a new alert.
func (h *AlertHandler) Create(ctx context.Context, input *CreateAlertInput) (*AlertOutput, error) {
	a := &domain.SavedAlert{
		Query:    input.Body.Query,
		MaxPrice: input.Body.MaxPrice,
	}
	if err := h.store.CreateAlert(ctx, a); err != nil {
		return nil, huma.Error500InternalServerError("creating alert: " + err.Error())
	}
	return &AlertOutput{Body: *a}, nil
}

// ListAlertsOutput is the response for the alert list endpoint.
type ListAlertsOutput struct {
	Body struct {
		Alerts []domain.SavedAlert `json:"alerts"`
	}
}

// List returns all saved alerts.
func (h *AlertHandler) List(ctx context.Context, _ *struct{}) (*ListAlertsOutput, error) {
	alerts, err := h.store.ListAlerts(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing alerts: " + err.Error())
	}
	if alerts == nil {
		alerts = []domain.SavedAlert{}
	}

	out := &ListAlertsOutput{}
	out.Body.Alerts = alerts
	return out, nil
}

// DeleteAlertInput identifies the alert to delete.
type DeleteAlertInput struct {
	ID int64 `path:"id" doc:"Alert ID"`
}

// Delete removes an alert and its events.
func (h *AlertHandler) Delete(ctx context.Context, input *DeleteAlertInput) (*struct{}, error) {
	if err := h.store.DeleteAlert(ctx, input.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("alert not found")
		}
		return nil, huma.Error500InternalServerError("deleting alert: " + err.Error())
	}
	return &struct{}{}, nil
}

// ListEventsInput filters the event list.
type ListEventsInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"500" doc:"Maximum events to return (default 50)"`
}

// ListEventsOutput is the response for the event list endpoint.
type ListEventsOutput struct {
	Body struct {
		Events []domain.AlertEvent `json:"events"`
	}
}

// ListEvents returns the most recent alert events.
func (h *AlertHandler) ListEvents(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	events, err := h.store.ListAlertEvents(ctx, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing alert events: " + err.Error())
	}
	if events == nil {
		events = []domain.AlertEvent{}
	}

	out := &ListEventsOutput{}
	out.Body.Events = events
	return out, nil
}

// RegisterAlertRoutes registers alert endpoints with the Huma API.
func RegisterAlertRoutes(api huma.API, h *AlertHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-alert",
		Method:        http.MethodPost,
		Path:          "/api/v1/alerts",
		Summary:       "Create a saved alert",
		Tags:          []string{"alerts"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusInternalServerError},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "list-alerts",
		Method:      http.MethodGet,
		Path:        "/api/v1/alerts",
		Summary:     "List saved alerts",
		Tags:        []string{"alerts"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-alert",
		Method:        http.MethodDelete,
		Path:          "/api/v1/alerts/{id}",
		Summary:       "Delete a saved alert",
		Tags:          []string{"alerts"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "list-alert-events",
		Method:      http.MethodGet,
		Path:        "/api/v1/events",
		Summary:     "List alert events",
		Tags:        []string{"alerts"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListEvents)
}
