package persistence

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
	"github.com/leadrelay/leadrelay-go/internal/domain/entities"
	"github.com/leadrelay/leadrelay-go/internal/infrastructure/observability/logging"
)

// PermanentPageStore persists the permanent pages registry at
// <dataDir>/permanent-pages.json.
type PermanentPageStore struct {
	path   string
	clock  Clock
	logger *logging.ChanneledLogger
	mu     sync.Mutex
}

// NewPermanentPageStore creates a registry store rooted at dataDir.
func NewPermanentPageStore(dataDir string, clock Clock, logger *logging.ChanneledLogger) *PermanentPageStore {
	if clock == nil {
		clock = time.Now
	}
	return &PermanentPageStore{
		path:   filepath.Join(dataDir, "permanent-pages.json"),
		clock:  clock,
		logger: logger,
	}
}

func (s *PermanentPageStore) defaultDocument() entities.PermanentPagesDocument {
	return entities.PermanentPagesDocument{
		Pages:       []entities.PermanentPage{},
		LastUpdated: s.clock().UTC().Format(time.RFC3339),
	}
}

func (s *PermanentPageStore) load() (entities.PermanentPagesDocument, error) {
	var doc entities.PermanentPagesDocument
	found, err := readDocument(s.path, &doc)
	if err != nil {
		corruption := apperr.StorageCorruption("permanent pages file unparsable, resetting to defaults", err)
		s.logger.Account().Warn("Recovering corrupted permanent pages file", "path", s.path, "error", corruption.Error())
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
	if doc.Pages == nil {
		doc.Pages = []entities.PermanentPage{}
	}
	return doc, nil
}

func (s *PermanentPageStore) save(doc *entities.PermanentPagesDocument) error {
	doc.LastUpdated = s.clock().UTC().Format(time.RFC3339)
	return writeDocument(s.path, doc)
}

// List returns the full registry document.
func (s *PermanentPageStore) List() (entities.PermanentPagesDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Upsert adds or updates a registry entry keyed by page id.
func (s *PermanentPageStore) Upsert(page entities.PermanentPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	updated := false
	for i := range doc.Pages {
		if doc.Pages[i].ID == page.ID {
			doc.Pages[i] = page
			updated = true
			break
		}
	}
	if !updated {
		doc.Pages = append(doc.Pages, page)
	}

	return s.save(&doc)
}

// Delete removes the entry with the given page id; removing an absent id is
// not an error.
func (s *PermanentPageStore) Delete(pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	kept := doc.Pages[:0]
	for _, p := range doc.Pages {
		if p.ID != pageID {
			kept = append(kept, p)
		}
	}
	doc.Pages = kept

	return s.save(&doc)
}
