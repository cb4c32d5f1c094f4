package services

import (
	"context"
	"time"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/persistence"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/upstream"
)

// TokenService handles the long-lived token lifecycle for accounts.
type TokenService struct {
	accounts   *persistence.AccountStore
	graph      *upstream.GraphClient
	logger     *logging.ChanneledLogger
	expiryDays int
	clock      func() time.Time
}

// NewTokenService creates a token lifecycle service. A nil clock defaults to
// time.Now.
func NewTokenService(accounts *persistence.AccountStore, graph *upstream.GraphClient, logger *logging.ChanneledLogger, expiryDays int, clock func() time.Time) *TokenService {
	if clock == nil {
		clock = time.Now
	}
	return &TokenService{
		accounts:   accounts,
		graph:      graph,
		logger:     logger,
		expiryDays: expiryDays,
		clock:      clock,
	}
}

// Refresh exchanges the account's short-lived token for a long-lived one,
// stamps the fixed expiry horizon, and attempts to refresh the stored page
// tokens along the way. The page refresh is best-effort: its failure is
// logged and the token refresh still succeeds with the pages left as they
// were.
func (s *TokenService) Refresh(ctx context.Context, accountID string) (entities.Account, error) {
	if accountID == "" {
		return entities.Account{}, apperr.InvalidInput("account ID is required")
	}

	account, err := s.accounts.Get(accountID)
	if err != nil {
		return entities.Account{}, err
	}
	if account.AppID == "" || account.AppSecret == "" || account.ShortLivedToken == "" {
		return entities.Account{}, apperr.InvalidInput("account has no app credentials to exchange")
	}

	longLived, err := s.graph.ExchangeToken(ctx, account.AppID, account.AppSecret, account.ShortLivedToken)
	if err != nil {
		return entities.Account{}, err
	}
	expiry := s.clock().UTC().AddDate(0, 0, s.expiryDays).Format(time.RFC3339)

	pages := s.refreshPages(ctx, accountID, longLived)

	updated, err := s.accounts.UpdateTokens(accountID, longLived, expiry, pages)
	if err != nil {
		return entities.Account{}, err
	}

	s.logger.Account().Info("Refreshed long-lived token",
		"accountId", accountID,
		"expiry", expiry,
		"pagesRefreshed", pages != nil)
	return updated, nil
}

// refreshPages resolves the token's identity and re-lists its pages. Returns
// nil on any failure so the caller leaves the stored pages untouched.
func (s *TokenService) refreshPages(ctx context.Context, accountID, accessToken string) []entities.Page {
	identity, err := s.graph.Me(ctx, accessToken)
	if err != nil {
		s.logger.Account().Warn("Identity lookup failed during token refresh, keeping stored pages",
			"accountId", accountID, "error", err.Error())
		return nil
	}

	listed, err := s.graph.UserPages(ctx, identity.ID, accessToken)
	if err != nil {
		s.logger.Account().Warn("Page listing failed during token refresh, keeping stored pages",
			"accountId", accountID, "error", err.Error())
		return nil
	}

	pages := make([]entities.Page, 0, len(listed))
	for _, p := range listed {
		pages = append(pages, entities.Page{
			ID:          p.ID,
			Name:        p.Name,
			AccessToken: p.AccessToken,
		})
	}
	return pages
}
