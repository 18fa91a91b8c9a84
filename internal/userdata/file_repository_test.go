package userdata

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileRepository_SaveLoad(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	doc := &Document{
		Companies: map[string]json.RawMessage{"acme": json.RawMessage(`{"name":"ACME","rating":2}`)},
		Mappings:  map[string]string{"acme.example": "acme"},
	}
	require.NoError(t, repo.Save(ctx, "abcdef0123456789", doc))

	got, err := repo.Load(ctx, "abcdef0123456789")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.JSONEq(t, `{"name":"ACME","rating":2}`, string(got.Companies["acme"]))
	require.Equal(t, "acme", got.Mappings["acme.example"])
}

func TestFileRepository_LoadMissingReturnsNil(t *testing.T) {
	repo, err := NewFileRepository(t.TempDir())
	require.NoError(t, err)

	got, err := repo.Load(context.Background(), "0000000000000000")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestFileRepository_LoadCorruptReturnsError(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "user_deadbeefdeadbeef.json"), []byte("{not json"), 0o600))

	_, err = repo.Load(context.Background(), "deadbeefdeadbeef")
	require.Error(t, err)
}

// The service must turn a corrupt file into an empty document.
func TestService_LoadCorruptReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileRepository(dir)
	require.NoError(t, err)
	svc := NewService(repo)

	key := deriveKey("mallory")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user_"+key+".json"), []byte("garbage"), 0o600))

	doc := svc.Load(context.Background(), "mallory")
	require.NotNil(t, doc)
	require.Empty(t, doc.Companies)
	require.Empty(t, doc.Mappings)
}
