// Package services provides application-level services that orchestrate
// business logic between the stores, the upstream API client and the
// formatting infrastructure.
package services

import (
	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/persistence"
)

// AccountService orchestrates account and page management over the flat-file
// stores.
type AccountService struct {
	accounts  *persistence.AccountStore
	permanent *persistence.PermanentPageStore
}

// NewAccountService creates a new account application service
func NewAccountService(accounts *persistence.AccountStore, permanent *persistence.PermanentPageStore) *AccountService {
	return &AccountService{
		accounts:  accounts,
		permanent: permanent,
	}
}

// List returns the stored accounts plus the current-selection pointer.
func (s *AccountService) List() (entities.AccountsDocument, error) {
	return s.accounts.List()
}

// Get returns one account by id.
func (s *AccountService) Get(accountID string) (entities.Account, error) {
	return s.accounts.Get(accountID)
}

// Upsert validates and stores an account; the merge-by-overwrite semantics
// live in the store.
func (s *AccountService) Upsert(account entities.Account) (entities.AccountsDocument, error) {
	if account.ID == "" || account.Name == "" || account.AppID == "" ||
		account.AppSecret == "" || account.ShortLivedToken == "" {
		return entities.AccountsDocument{}, apperr.InvalidInput("missing required fields")
	}
	return s.accounts.Upsert(account)
}

// SetCurrent moves the current-selection pointer.
func (s *AccountService) SetCurrent(accountID string) error {
	if accountID == "" {
		return apperr.InvalidInput("account ID is required")
	}
	return s.accounts.SetCurrent(accountID)
}

// AddPage adds or updates a page under an account; a page flagged permanent
// is mirrored into the permanent registry with its account back-reference.
func (s *AccountService) AddPage(accountID string, page entities.Page) (bool, error) {
	if accountID == "" {
		return false, apperr.InvalidInput("account ID is required")
	}
	if page.ID == "" || page.Name == "" || page.AccessToken == "" {
		return false, apperr.InvalidInput("page details are incomplete")
	}

	updated, err := s.accounts.AddPage(accountID, page)
	if err != nil {
		return false, err
	}

	if page.IsPermanent {
		entry := entities.PermanentPage{Page: page, AccountID: accountID}
		if err := s.permanent.Upsert(entry); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// PermanentPages returns the registry document.
func (s *AccountService) PermanentPages() (entities.PermanentPagesDocument, error) {
	return s.permanent.List()
}

// DeletePermanentPage removes a registry entry by page id.
func (s *AccountService) DeletePermanentPage(pageID string) error {
	if pageID == "" {
		return apperr.InvalidInput("page ID is required")
	}
	return s.permanent.Delete(pageID)
}

// PageToken resolves the stored access token for a page under an account.
func (s *AccountService) PageToken(accountID, pageID string) (string, error) {
	return s.accounts.PageToken(accountID, pageID)
}
