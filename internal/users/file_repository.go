package users

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/susradar/susradar-server/internal/models"
	"github.com/susradar/susradar-server/pkg/logger"
)

// FileRepository keeps the whole registry in a single users.json file, a map
// of username to credential record. Each mutation is a whole-file
// read-modify-write guarded by a mutex; an unreadable file is treated as an
// empty registry.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileRepository{path: filepath.Join(dir, "users.json")}, nil
}

func (r *FileRepository) Get(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg := r.loadAll()
	u, ok := reg[username]
	if !ok {
		return nil, nil
	}
	u.Username = username
	return u, nil
}

func (r *FileRepository) Put(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg := r.loadAll()
	reg[u.Username] = u
	return r.saveAll(reg)
}

// loadAll must be called with the mutex held.
func (r *FileRepository) loadAll() map[string]*models.User {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("unreadable user registry %s, treating as empty: %v", r.path, err)
		}
		return map[string]*models.User{}
	}
	var reg map[string]*models.User
	if err := json.Unmarshal(b, &reg); err != nil {
		logger.Warnf("corrupt user registry %s, treating as empty: %v", r.path, err)
		return map[string]*models.User{}
	}
	if reg == nil {
		reg = map[string]*models.User{}
	}
	return reg
}

// saveAll must be called with the mutex held.
func (r *FileRepository) saveAll(reg map[string]*models.User) error {
	b, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	return os.WriteFile(r.path, b, 0o600)
}
