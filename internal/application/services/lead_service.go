package services

import (
	"context"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/caching/stores"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/performance"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/upstream"
)

// FetchResult is the outcome of a lead retrieval: the (possibly capped) lead
// set, the advisory flag telling the caller the upstream holds more, and
// whether the result was served from cache.
type FetchResult struct {
	Leads     []entities.Lead
	HasMore   bool
	FromCache bool
}

// LeadService runs the paginated, capped lead retrieval pipeline and memoizes
// full fetches per form.
type LeadService struct {
	graph    *upstream.GraphClient
	cache    *stores.LeadStore
	logger   *logging.ChanneledLogger
	perf     *performance.Tracker
	fetchCap int
	pageSize int
	maxPages int
}

// NewLeadService creates a lead retrieval service.
func NewLeadService(graph *upstream.GraphClient, cache *stores.LeadStore, logger *logging.ChanneledLogger, perf *performance.Tracker, fetchCap, pageSize, maxPages int) *LeadService {
	return &LeadService{
		graph:    graph,
		cache:    cache,
		logger:   logger,
		perf:     perf,
		fetchCap: fetchCap,
		pageSize: pageSize,
		maxPages: maxPages,
	}
}

// FetchAll retrieves every lead for a form up to the fetch cap, following
// pagination cursors across at most maxPages requests, and memoizes the
// result. A later call for the same form is served from cache without any
// network traffic; date-window narrowing happens locally on the cached set.
func (s *LeadService) FetchAll(ctx context.Context, formID, accessToken string) (FetchResult, error) {
	if formID == "" || accessToken == "" {
		return FetchResult{}, apperr.InvalidInput("form ID and access token are required")
	}

	if entry, ok := s.cache.Get(formID); ok {
		s.logger.Upstream().Debug("Serving leads from cache",
			"formId", formID, "count", len(entry.Leads), "fetchedAt", entry.FetchedAt)
		return FetchResult{Leads: entry.Leads, HasMore: entry.HasMore, FromCache: true}, nil
	}

	marker := s.perf.StartOperation("lead_fetch_all")
	defer marker.Complete()

	leads := make([]entities.Lead, 0, s.pageSize)
	page, err := s.graph.Leads(ctx, formID, accessToken, 0, 0, s.pageSize)
	if err != nil {
		marker.SetError(err)
		return FetchResult{}, err
	}
	leads = append(leads, page.Leads...)

	requests := 1
	for page.Next != "" && len(leads) < s.fetchCap && requests < s.maxPages {
		page, err = s.graph.LeadsByCursor(ctx, page.Next)
		if err != nil {
			marker.SetError(err)
			return FetchResult{}, err
		}
		leads = append(leads, page.Leads...)
		requests++
	}

	hasMore := page.Next != "" || len(leads) > s.fetchCap
	if len(leads) > s.fetchCap {
		leads = leads[:s.fetchCap]
	}

	s.cache.Set(formID, leads, hasMore)
	marker.SetSuccess(true)
	s.logger.Upstream().Info("Fetched leads",
		"formId", formID, "count", len(leads), "requests", requests, "hasMore", hasMore)

	return FetchResult{Leads: leads, HasMore: hasMore}, nil
}

// FetchWindow retrieves the memoized lead set and narrows it to the window
// locally, so switching date ranges never re-hits the upstream.
func (s *LeadService) FetchWindow(ctx context.Context, formID, accessToken string, window entities.DateRange) (FetchResult, error) {
	result, err := s.FetchAll(ctx, formID, accessToken)
	if err != nil {
		return FetchResult{}, err
	}
	result.Leads = entities.FilterLeadsByWindow(result.Leads, window)
	return result, nil
}

// Preview performs a single bounded request with the window pushed upstream
// as since/until. It never touches the cache; the advisory flag reflects the
// presence of a continuation cursor.
func (s *LeadService) Preview(ctx context.Context, formID, accessToken string, window entities.DateRange) (FetchResult, error) {
	if formID == "" || accessToken == "" {
		return FetchResult{}, apperr.InvalidInput("form ID and access token are required")
	}

	marker := s.perf.StartOperation("lead_preview")
	defer marker.Complete()

	since, until := window.UnixBounds()
	page, err := s.graph.Leads(ctx, formID, accessToken, since, until, s.fetchCap)
	if err != nil {
		marker.SetError(err)
		return FetchResult{}, err
	}
	marker.SetSuccess(true)

	return FetchResult{Leads: page.Leads, HasMore: page.Next != ""}, nil
}

// Invalidate drops the memoized leads for a form, forcing the next fetch to
// go upstream.
func (s *LeadService) Invalidate(formID string) {
	s.cache.Invalidate(formID)
}
