package users

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/susradar/susradar-server/internal/models"
	"github.com/susradar/susradar-server/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidUsername = errors.New("username must be 3-30 characters, alphanumeric and underscore only")
	ErrWeakPassword    = errors.New("password must be at least 8 characters long")
	ErrUsernameTaken   = errors.New("username already exists")
	// ErrInvalidCredentials is returned uniformly for an unknown user and a
	// wrong password, so callers cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

// DataInitializer creates the empty per-user document at registration time.
type DataInitializer interface {
	Init(ctx context.Context, username string) error
}

// Service implements credential storage and verification on top of a
// Repository. Passwords are stored as salted bcrypt hashes, never in a
// plaintext-comparable form.
type Service struct {
	repo Repository
	data DataInitializer
	cost int
}

func NewService(repo Repository, data DataInitializer, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, data: data, cost: bcryptCost}
}

// Normalize lowercases and trims a username. All registry lookups go through
// this, so "Alice" and "alice" are the same account.
func Normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register validates and stores a new credential record, then initializes the
// user's empty data document.
func (s *Service) Register(ctx context.Context, username, password string) error {
	username = Normalize(username)
	if !usernameRe.MatchString(username) {
		return ErrInvalidUsername
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}

	existing, err := s.repo.Get(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	u := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return err
	}

	// Not transactional with the registry write: if this fails the account
	// still exists and Load serves an empty document anyway.
	if s.data != nil {
		if err := s.data.Init(ctx, username); err != nil {
			logger.Warnf("failed to initialize data document for %s: %v", username, err)
		}
	}
	return nil
}

// Authenticate verifies username/password and returns the normalized
// username. Unknown users and wrong passwords both yield
// ErrInvalidCredentials. Updates last_login on success.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	username = Normalize(username)
	u, err := s.repo.Get(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	u.LastLogin = &now
	if err := s.repo.Put(ctx, u); err != nil {
		logger.Warnf("failed to update last_login for %s: %v", username, err)
	}
	return username, nil
}
