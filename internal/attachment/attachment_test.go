package attachment

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/show-catalog/internal/config"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(FieldName, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[FieldName][0]
}

func newStore(t *testing.T, mutate func(*config.UploadConfig)) *Store {
	t.Helper()
	cfg := config.UploadConfig{
		Dir:         filepath.Join(t.TempDir(), "uploads"),
		URLPrefix:   "uploads",
		AllowedExt:  []string{"jpeg", "jpg", "png"},
		AllowedMIME: []string{"image/jpeg", "image/png"},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewStore(cfg)
	require.NoError(t, err)
	return s
}

func TestSaveUsesUniqueNamesAndRelativePath(t *testing.T) {
	s := newStore(t, nil)

	a, err := s.Save(fileHeader(t, "poster.png", pngBytes))
	require.NoError(t, err)
	b, err := s.Save(fileHeader(t, "poster.png", pngBytes))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "uploads/"))
	assert.True(t, strings.HasSuffix(a, "-poster.png"))

	data, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(a, "uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestSaveStripsDirectoriesFromClientName(t *testing.T) {
	s := newStore(t, nil)
	s.newID = func() string { return "fixed" }

	p, err := s.Save(fileHeader(t, `..\..\etc/my poster.png`, pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "uploads/fixed-my_poster.png", p)
	assert.FileExists(t, filepath.Join(s.Dir(), "fixed-my_poster.png"))
}

func TestPolicyIsPermissiveUnlessEnforced(t *testing.T) {
	s := newStore(t, nil)
	_, err := s.Save(fileHeader(t, "notes.txt", []byte("plain text")))
	assert.NoError(t, err)
}

func TestEnforcedPolicy(t *testing.T) {
	s := newStore(t, func(c *config.UploadConfig) { c.EnforceTypes = true })

	_, err := s.Save(fileHeader(t, "notes.txt", []byte("plain text")))
	assert.ErrorIs(t, err, ErrTypeNotAllowed)

	_, err = s.Save(fileHeader(t, "fake.png", []byte("plain text pretending")))
	assert.ErrorIs(t, err, ErrTypeNotAllowed, "extension alone is not enough")

	p, err := s.Save(fileHeader(t, "real.PNG", pngBytes))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(p, "uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data, "sniffing must not consume the stored bytes")

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "rejected uploads leave nothing on disk")
}

func TestMaxBytes(t *testing.T) {
	s := newStore(t, func(c *config.UploadConfig) { c.MaxBytes = 8 })
	_, err := s.Save(fileHeader(t, "big.png", pngBytes))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestRemove(t *testing.T) {
	s := newStore(t, nil)
	p, err := s.Save(fileHeader(t, "a.png", pngBytes))
	require.NoError(t, err)

	require.NoError(t, s.Remove(p))
	assert.NoFileExists(t, filepath.Join(s.Dir(), strings.TrimPrefix(p, "uploads/")))
	assert.NoError(t, s.Remove(p), "removing twice is fine")
	assert.NoError(t, s.Remove("/"+p), "leading slash form is accepted")
}

func TestRemoveRefusesPathsOutsideDir(t *testing.T) {
	s := newStore(t, nil)
	outside := filepath.Join(filepath.Dir(s.Dir()), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	for _, p := range []string{"uploads/../keep.txt", "keep.txt", "uploads/", "other/keep.txt"} {
		assert.Error(t, s.Remove(p), p)
	}
	assert.FileExists(t, outside)

	s.Discard(context.Background(), "uploads/../keep.txt")
	assert.FileExists(t, outside)
}
