package userdata

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/susradar/susradar-server/pkg/logger"
)

// Snapshotter receives a copy of every saved document, keyed by the storage
// key. Used for optional object-storage backups; failures never fail a save.
type Snapshotter interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Service owns per-user document persistence, the sync merge and the
// company cascade delete. Documents are addressed by a derived key, never by
// the raw username.
type Service struct {
	repo Repository
	snap Snapshotter
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnableSnapshots attaches a best-effort snapshot destination.
func (s *Service) EnableSnapshots(snap Snapshotter) {
	s.snap = snap
}

// deriveKey maps a username to its fixed-length storage key:
// hex(sha256(normalized username)) truncated to 16 chars. The truncation
// keeps key space sparse rather than collision-free; existing data
// directories rely on this exact derivation.
func deriveKey(username string) string {
	u := strings.ToLower(strings.TrimSpace(username))
	sum := sha256.Sum256([]byte(u))
	return hex.EncodeToString(sum[:])[:16]
}

// Load returns the stored document for username, or an empty document when
// none exists or the stored one is unreadable. Corruption is swallowed
// deliberately: a sync backend that refuses to serve beats one that serves
// nothing, and the next save overwrites the bad file.
func (s *Service) Load(ctx context.Context, username string) *Document {
	doc, err := s.repo.Load(ctx, deriveKey(username))
	if err != nil {
		logger.Warnf("unreadable document for user %s, serving empty: %v", username, err)
		return NewDocument()
	}
	if doc == nil {
		return NewDocument()
	}
	return doc
}

// Save stamps last_updated and persists the full document, overwriting any
// previous content.
func (s *Service) Save(ctx context.Context, username string, doc *Document) error {
	doc.normalize()
	doc.LastUpdated = time.Now().UTC()
	key := deriveKey(username)
	if err := s.repo.Save(ctx, key, doc); err != nil {
		return err
	}
	s.snapshot(ctx, key, doc)
	return nil
}

// Init creates the empty document for a freshly registered user.
func (s *Service) Init(ctx context.Context, username string) error {
	return s.Save(ctx, username, NewDocument())
}

// Sync merges the client document into the stored one (client wins on key
// collisions), persists and returns the result.
func (s *Service) Sync(ctx context.Context, username string, client *Document) (*Document, error) {
	server := s.Load(ctx, username)
	merged := Merge(server, client)
	if err := s.Save(ctx, username, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Merge combines two documents per top-level map independently: union of
// keys, client value wins where both documents hold the same key. No
// timestamp comparison, no deep merge.
func Merge(server, client *Document) *Document {
	server.normalize()
	client.normalize()
	merged := NewDocument()
	for id, rec := range server.Companies {
		merged.Companies[id] = rec
	}
	for id, rec := range client.Companies {
		merged.Companies[id] = rec
	}
	for url, id := range server.Mappings {
		merged.Mappings[url] = id
	}
	for url, id := range client.Mappings {
		merged.Mappings[url] = id
	}
	return merged
}

// DeleteCompany removes companyID from the document if present and drops
// every mapping pointing at it, then persists. Deleting an absent company is
// a no-op, not an error. Post-condition: no saved mapping references
// companyID.
func (s *Service) DeleteCompany(ctx context.Context, username, companyID string) error {
	doc := s.Load(ctx, username)
	delete(doc.Companies, companyID)
	for url, id := range doc.Mappings {
		if id == companyID {
			delete(doc.Mappings, url)
		}
	}
	return s.Save(ctx, username, doc)
}

func (s *Service) snapshot(ctx context.Context, key string, doc *Document) {
	if s.snap == nil {
		return
	}
	b, err := json.Marshal(doc)
	if err != nil {
		logger.Warnf("snapshot encode for key %s failed: %v", key, err)
		return
	}
	if err := s.snap.Upload(ctx, "user_"+key+".json", bytes.NewReader(b), int64(len(b)), "application/json"); err != nil {
		logger.Warnf("snapshot upload for key %s failed: %v", key, err)
	}
}
