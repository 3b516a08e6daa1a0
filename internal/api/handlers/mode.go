package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// ModeHandler reports the server's operating mode. Credentials are never
// exposed; only the environment and marketplace of a live mode are surfaced.
type ModeHandler struct {
	mode domain.Mode
}

// NewModeHandler creates a new ModeHandler.
func NewModeHandler(mode domain.Mode) *ModeHandler {
	return &ModeHandler{mode: mode}
}

// ModeOutput is the response for the mode endpoint.
type ModeOutput struct {
	Body struct {
		Mode        string `json:"mode" enum:"demo,live" doc:"Operating mode"`
		Environment string `json:"environment,omitempty" doc:"eBay environment (live mode only)"`
		Marketplace string `json:"marketplace,omitempty" doc:"eBay marketplace ID (live mode only)"`
	}
}

// Get returns the current operating mode.
func (h *ModeHandler) Get(_ context.Context, _ *struct{}) (*ModeOutput, error) {
	out := &ModeOutput{}
	if creds := h.mode.Credentials(); creds != nil {
		out.Body.Mode = "live"
		out.Body.Environment = string(creds.Environment)
		out.Body.Marketplace = creds.MarketplaceID
	} else {
		out.Body.Mode = "demo"
	}
	return out, nil
}

// RegisterModeRoutes registers the mode endpoint with the Huma API.
func RegisterModeRoutes(api huma.API, h *ModeHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-mode",
		Method:      http.MethodGet,
		Path:        "/api/v1/mode",
		Summary:     "Get the server operating mode",
		Tags:        []string{"system"},
	}, h.Get)
}
