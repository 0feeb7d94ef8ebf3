package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("FORM_TOKEN_SECRET", "x")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("PUBLIC_BASE_URL", "https://example.org/")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("WS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, "https://example.org", s.PublicBaseURL)
	assert.Equal(t, "https://example.org/uploads", s.UploadBaseURL)
	assert.Equal(t, "local", s.StorageDriver)
	assert.Equal(t, 2*time.Hour, s.SessionTTL)
	assert.Equal(t, 24*time.Hour, s.FormTokenTTL)
	assert.Equal(t, int64(10<<20), s.MaxUploadBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.WSAllowedOrigins)
	assert.False(t, s.MailEnabled())
}

func TestSettings_Validate(t *testing.T) {
	s := &Settings{DatabaseDriver: "postgres", StorageDriver: "gcs"}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORM_TOKEN_SECRET")
	assert.Contains(t, err.Error(), "POSTGRES_URI")
	assert.Contains(t, err.Error(), "GCS_BUCKET")

	s = &Settings{FormTokenSecret: "x", DatabaseDriver: "sqlite", StorageDriver: "local"}
	assert.NoError(t, s.Validate())
}

func TestLoadReferenceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
countries: [Kenya, Egypt]
headquarters: [Jordan]
taxonomy:
  services:
    - {id: 1, label: Evaluation, parent_id: 0}
    - {id: 2, label: Baseline studies, parent_id: 1}
  sectors:
    - {id: 7, label: Health, parent_id: 0}
`), 0o600))

	ref, err := LoadReferenceFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kenya", "Egypt"}, ref.Countries)
	assert.Equal(t, []string{"Jordan"}, ref.Headquarters)
	require.Len(t, ref.Taxonomy.Services, 2)
	assert.Equal(t, int64(1), ref.Taxonomy.Services[1].ParentID)
	assert.Equal(t, "Health", ref.Taxonomy.Sectors[0].Label)

	empty, err := LoadReferenceFile("")
	require.NoError(t, err)
	assert.Empty(t, empty.Countries)

	_, err = LoadReferenceFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
