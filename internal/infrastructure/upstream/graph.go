// Package upstream implements the Graph API client: token exchange, identity
// lookup, page listing, lead forms and cursor-paginated lead retrieval.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
)

// GraphClient talks to the upstream social-graph HTTP API. All calls carry
// the access token as a query parameter, matching the upstream convention.
type GraphClient struct {
	http    *resty.Client
	version string
	logger  *logging.ChanneledLogger
}

// NewGraphClient creates a client for the given API base URL and version.
func NewGraphClient(baseURL, version string, timeout time.Duration, logger *logging.ChanneledLogger) *GraphClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &GraphClient{
		http:    client,
		version: version,
		logger:  logger,
	}
}

// apiError is the upstream failure envelope: {"error": {"message": ...}}.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Identity is the authenticated principal behind a user token.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LeadsPage is one page of lead results plus the opaque cursor to the next.
type LeadsPage struct {
	Leads []entities.Lead
	Next  string
}

func upstreamError(op string, resp *resty.Response, fallback error) error {
	if resp != nil {
		var envelope apiError
		if err := json.Unmarshal(resp.Body(), &envelope); err == nil && envelope.Error.Message != "" {
			return apperr.Upstream(envelope.Error.Message, nil)
		}
		return apperr.Upstream(fmt.Sprintf("%s failed with status %d", op, resp.StatusCode()), nil)
	}
	return apperr.Upstream(op+" failed", fallback)
}

// ExchangeToken converts a short-lived user token into a long-lived one.
func (g *GraphClient) ExchangeToken(ctx context.Context, appID, appSecret, shortLivedToken string) (string, error) {
	var result struct {
		AccessToken string `json:"access_token"`
	}

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"grant_type":        "fb_exchange_token",
			"client_id":         appID,
			"client_secret":     appSecret,
			"fb_exchange_token": shortLivedToken,
		}).
		SetResult(&result).
		Get("/" + g.version + "/oauth/access_token")
	if err != nil {
		return "", upstreamError("token exchange", nil, err)
	}
	if resp.IsError() {
		return "", upstreamError("token exchange", resp, nil)
	}
	if result.AccessToken == "" {
		return "", apperr.Upstream("token exchange returned no access token", nil)
	}

	g.logger.Upstream().Info("Exchanged short-lived token", "appId", appID)
	return result.AccessToken, nil
}

// Me resolves the identity behind an access token.
func (g *GraphClient) Me(ctx context.Context, accessToken string) (Identity, error) {
	var identity Identity

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetResult(&identity).
		Get("/" + g.version + "/me")
	if err != nil {
		return Identity{}, upstreamError("identity lookup", nil, err)
	}
	if resp.IsError() {
		return Identity{}, upstreamError("identity lookup", resp, nil)
	}
	return identity, nil
}

// UserPages lists the pages the identity manages, with per-page tokens.
func (g *GraphClient) UserPages(ctx context.Context, userID, accessToken string) ([]entities.Page, error) {
	var result struct {
		Data []entities.Page `json:"data"`
	}

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetResult(&result).
		Get("/" + g.version + "/" + userID + "/accounts")
	if err != nil {
		return nil, upstreamError("page list", nil, err)
	}
	if resp.IsError() {
		return nil, upstreamError("page list", resp, nil)
	}
	return result.Data, nil
}

// LeadForms lists the lead generation forms attached to a page.
func (g *GraphClient) LeadForms(ctx context.Context, pageID, accessToken string) ([]entities.LeadForm, error) {
	var result struct {
		Data []entities.LeadForm `json:"data"`
	}

	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", accessToken).
		SetResult(&result).
		Get("/" + g.version + "/" + pageID + "/leadgen_forms")
	if err != nil {
		return nil, upstreamError("lead forms", nil, err)
	}
	if resp.IsError() {
		return nil, upstreamError("lead forms", resp, nil)
	}
	return result.Data, nil
}

type leadsEnvelope struct {
	Data   []entities.Lead `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// Leads fetches one bounded page of leads for a form. since/until are Unix
// seconds; zero omits the bound.
func (g *GraphClient) Leads(ctx context.Context, formID, accessToken string, since, until int64, limit int) (LeadsPage, error) {
	params := map[string]string{
		"access_token": accessToken,
		"limit":        strconv.Itoa(limit),
	}
	if since > 0 {
		params["since"] = strconv.FormatInt(since, 10)
	}
	if until > 0 {
		params["until"] = strconv.FormatInt(until, 10)
	}

	var result leadsEnvelope
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		Get("/" + g.version + "/" + formID + "/leads")
	if err != nil {
		return LeadsPage{}, upstreamError("leads", nil, err)
	}
	if resp.IsError() {
		return LeadsPage{}, upstreamError("leads", resp, nil)
	}
	return LeadsPage{Leads: result.Data, Next: result.Paging.Next}, nil
}

// LeadsByCursor follows an opaque absolute "next page" URL returned by a
// previous leads call.
func (g *GraphClient) LeadsByCursor(ctx context.Context, nextURL string) (LeadsPage, error) {
	var result leadsEnvelope
	resp, err := g.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(nextURL)
	if err != nil {
		return LeadsPage{}, upstreamError("leads page", nil, err)
	}
	if resp.IsError() {
		return LeadsPage{}, upstreamError("leads page", resp, nil)
	}
	return LeadsPage{Leads: result.Data, Next: result.Paging.Next}, nil
}
