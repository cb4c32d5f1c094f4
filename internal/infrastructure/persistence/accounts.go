package persistence

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
)

// AccountStore persists the accounts document at <dataDir>/accounts.json.
type AccountStore struct {
	path   string
	clock  Clock
	logger *logging.ChanneledLogger
	mu     sync.Mutex
}

// NewAccountStore creates a store rooted at dataDir. A nil clock defaults to
// time.Now.
func NewAccountStore(dataDir string, clock Clock, logger *logging.ChanneledLogger) *AccountStore {
	if clock == nil {
		clock = time.Now
	}
	return &AccountStore{
		path:   filepath.Join(dataDir, "accounts.json"),
		clock:  clock,
		logger: logger,
	}
}

func (s *AccountStore) defaultDocument() entities.AccountsDocument {
	return entities.AccountsDocument{
		Accounts:         []entities.Account{},
		CurrentAccountID: "",
		LastUpdated:      s.clock().UTC().Format(time.RFC3339),
	}
}

// load reads the document, substituting (and persisting) defaults when the
// file is absent or corrupt. Corruption is repaired, not surfaced.
func (s *AccountStore) load() (entities.AccountsDocument, error) {
	var doc entities.AccountsDocument
	found, err := s.readInto(&doc)
	if err != nil {
		corruption := apperr.StorageCorruption("accounts file unparsable, resetting to defaults", err)
		s.logger.Account().Warn("Recovering corrupted accounts file", "path", s.path, "error", corruption.Error())
		doc = s.defaultDocument()
		if werr := writeDocument(s.path, doc); werr != nil {
			return doc, werr
		}
		return doc, nil
	}
	if !found {
		doc = s.defaultDocument()
		if werr := writeDocument(s.path, doc); werr != nil {
			return doc, werr
		}
	}
	if doc.Accounts == nil {
		doc.Accounts = []entities.Account{}
	}
	return doc, nil
}

func (s *AccountStore) readInto(doc *entities.AccountsDocument) (bool, error) {
	return readDocument(s.path, doc)
}

func (s *AccountStore) save(doc *entities.AccountsDocument) error {
	doc.LastUpdated = s.clock().UTC().Format(time.RFC3339)
	return writeDocument(s.path, doc)
}

// List returns the full accounts document.
func (s *AccountStore) List() (entities.AccountsDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Upsert adds or updates an account by id. Matching accounts merge by
// overwrite: posted fields replace stored ones, while fields the caller never
// supplies (long-lived token, expiry, pages) survive when incoming values are
// empty. The first account, or an upsert while no current pointer is set,
// becomes the current selection.
func (s *AccountStore) Upsert(account entities.Account) (entities.AccountsDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return doc, err
	}

	updated := false
	for i := range doc.Accounts {
		if doc.Accounts[i].ID != account.ID {
			continue
		}
		existing := doc.Accounts[i]
		if account.LongLivedToken == "" {
			account.LongLivedToken = existing.LongLivedToken
		}
		if account.LongLivedTokenExpiry == "" {
			account.LongLivedTokenExpiry = existing.LongLivedTokenExpiry
		}
		if account.Pages == nil {
			account.Pages = existing.Pages
		}
		doc.Accounts[i] = account
		updated = true
		break
	}

	if !updated {
		if account.Pages == nil {
			account.Pages = []entities.Page{}
		}
		doc.Accounts = append(doc.Accounts, account)
		if len(doc.Accounts) == 1 || doc.CurrentAccountID == "" {
			doc.CurrentAccountID = account.ID
		}
	}

	if err := s.save(&doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// SetCurrent moves the current-selection pointer; NotFound when the id does
// not reference a stored account.
func (s *AccountStore) SetCurrent(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	exists := false
	for i := range doc.Accounts {
		if doc.Accounts[i].ID == accountID {
			exists = true
			break
		}
	}
	if !exists {
		return apperr.NotFound("account not found")
	}

	doc.CurrentAccountID = accountID
	return s.save(&doc)
}

// Get returns the account with the given id; NotFound otherwise.
func (s *AccountStore) Get(accountID string) (entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return entities.Account{}, err
	}
	for i := range doc.Accounts {
		if doc.Accounts[i].ID == accountID {
			return doc.Accounts[i], nil
		}
	}
	return entities.Account{}, apperr.NotFound("account not found")
}

// AddPage adds or updates a page under the given account. Reports whether an
// existing page was updated rather than added.
func (s *AccountStore) AddPage(accountID string, page entities.Page) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	idx := -1
	for i := range doc.Accounts {
		if doc.Accounts[i].ID == accountID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, apperr.NotFound("account not found")
	}

	updated := false
	pages := doc.Accounts[idx].Pages
	for i := range pages {
		if pages[i].ID == page.ID {
			pages[i] = page
			updated = true
			break
		}
	}
	if !updated {
		pages = append(pages, page)
	}
	doc.Accounts[idx].Pages = pages

	if err := s.save(&doc); err != nil {
		return updated, err
	}
	return updated, nil
}

// UpdateTokens stores a refreshed long-lived token and expiry for the
// account, optionally replacing its page list when the secondary page-token
// refresh succeeded (pages == nil leaves the stored pages untouched).
func (s *AccountStore) UpdateTokens(accountID, longLivedToken, expiry string, pages []entities.Page) (entities.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return entities.Account{}, err
	}

	idx := -1
	for i := range doc.Accounts {
		if doc.Accounts[i].ID == accountID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return entities.Account{}, apperr.NotFound("account not found")
	}

	doc.Accounts[idx].LongLivedToken = longLivedToken
	doc.Accounts[idx].LongLivedTokenExpiry = expiry
	if pages != nil {
		doc.Accounts[idx].Pages = pages
	}

	if err := s.save(&doc); err != nil {
		return entities.Account{}, err
	}
	return doc.Accounts[idx], nil
}

// PageToken resolves the access token for a page under an account.
func (s *AccountStore) PageToken(accountID, pageID string) (string, error) {
	account, err := s.Get(accountID)
	if err != nil {
		return "", err
	}
	page := account.FindPage(pageID)
	if page == nil {
		return "", apperr.NotFound("page not found")
	}
	return page.AccessToken, nil
}
