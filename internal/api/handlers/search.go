package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/fretscout/fretscout/internal/engine"
	"github.com/fretscout/fretscout/internal/source"
	domain "github.com/fretscout/fretscout/pkg/types"
	"github.com/fretscout/fretscout/pkg/valuation"
)

// SearchHandler runs listing searches through the engine pipeline.
type SearchHandler struct {
	engine *engine.Engine
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(eng *engine.Engine) *SearchHandler {
	return &SearchHandler{engine: eng}
}

// SearchInput is the request for the search endpoint.
type SearchInput struct {
	Query    string  `query:"q" required:"true" minLength:"1" doc:"Search text" example:"fender stratocaster"`
	Limit    int     `query:"limit" minimum:"0" maximum:"200" doc:"Maximum results (default 50)"`
	MaxPrice float64 `query:"max_price" minimum:"0" doc:"Upper item price bound, 0 disables"`
	MinScore float64 `query:"min_score" minimum:"0" maximum:"100" doc:"Minimum deal score, 0 disables"`
	HighConf bool    `query:"high_confidence" doc:"Keep only high-confidence scores"`
	Sort     string  `query:"sort" enum:"relevance,price,deal_score" doc:"Result ordering" example:"deal_score"`
}

// SearchOutput is the response body for the search endpoint.
type SearchOutput struct {
	Body struct {
		Listings     []domain.Listing `json:"listings" doc:"Scored listing results"`
		Source       string           `json:"source" doc:"Source that served the results"`
		DemoFallback bool             `json:"demo_fallback" doc:"Whether live search failed and demo data was served"`
	}
}

// Search runs the pipeline and returns scored listings.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	q := source.Query{
		Text:  input.Query,
		Limit: input.Limit,
	}
	if input.MaxPrice > 0 {
		q.MaxPrice = &input.MaxPrice
	}

	result, err := h.engine.Search(ctx, q, engine.SearchOptions{
		MinScore:     input.MinScore,
		HighConfOnly: input.HighConf,
		Sort:         valuation.SortMode(input.Sort),
	})
	if err != nil {
		return nil, huma.Error502BadGateway("search failed: " + err.Error())
	}

	listings := result.Listings
	if listings == nil {
		listings = []domain.Listing{}
	}

	out := &SearchOutput{}
	out.Body.Listings = listings
	out.Body.Source = result.Source
	out.Body.DemoFallback = result.DemoFallback
	return out, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search listings",
		Description: "Runs the search pipeline and returns deduplicated, scored listings.",
		Tags:        []string{"search"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Search)
}
