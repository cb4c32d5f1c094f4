package services

import (
	"context"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/persistence"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/upstream"
)

// LeadFormService lists the lead generation forms behind a page.
type LeadFormService struct {
	accounts *persistence.AccountStore
	graph    *upstream.GraphClient
}

// NewLeadFormService creates a lead form service.
func NewLeadFormService(accounts *persistence.AccountStore, graph *upstream.GraphClient) *LeadFormService {
	return &LeadFormService{
		accounts: accounts,
		graph:    graph,
	}
}

// FormsForPage lists forms for a page whose token is resolved from the
// account store.
func (s *LeadFormService) FormsForPage(ctx context.Context, accountID, pageID string) ([]entities.LeadForm, error) {
	if accountID == "" || pageID == "" {
		return nil, apperr.InvalidInput("account ID and page ID are required")
	}
	token, err := s.accounts.PageToken(accountID, pageID)
	if err != nil {
		return nil, err
	}
	return s.graph.LeadForms(ctx, pageID, token)
}

// FormsDirect lists forms for a page using a caller-supplied token, bypassing
// the account store entirely.
func (s *LeadFormService) FormsDirect(ctx context.Context, pageID, accessToken string) ([]entities.LeadForm, error) {
	if pageID == "" || accessToken == "" {
		return nil, apperr.InvalidInput("page ID and access token are required")
	}
	return s.graph.LeadForms(ctx, pageID, accessToken)
}
