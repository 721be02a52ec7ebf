// Package attachment stores uploaded show images on local disk.  Only the
// relative path ("uploads/<name>") is handed back to callers; that is what
// ends up in shows.image and what the static file route serves.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/iliyamo/show-catalog/internal/config"
)

// FieldName is the multipart field that carries the image.
const FieldName = "image"

var (
	// ErrTypeNotAllowed is returned when type enforcement is on and the file
	// fails the extension or MIME allow-list.
	ErrTypeNotAllowed = errors.New("file type not allowed")
	// ErrTooLarge is returned when the file exceeds the configured size cap.
	ErrTooLarge = errors.New("file too large")
)

// Store saves and removes attachment files under a single directory.
type Store struct {
	dir    string
	prefix string
	policy Policy
	newID  func() string
}

// NewStore creates the upload directory if needed and returns a Store.
func NewStore(cfg config.UploadConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	prefix := strings.Trim(cfg.URLPrefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}
	return &Store{
		dir:    cfg.Dir,
		prefix: prefix,
		policy: PolicyFrom(cfg),
		newID:  uuid.NewString,
	}, nil
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string { return s.dir }

// Save writes the uploaded file to disk under a fresh name and returns the
// relative path to record on the show.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := s.policy.Check(fh, src); err != nil {
		return "", err
	}

	name := s.newID() + "-" + cleanName(fh.Filename)
	full := filepath.Join(s.dir, name)
	dst, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create attachment: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write attachment: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("close attachment: %w", err)
	}
	return s.prefix + "/" + name, nil
}

// Remove deletes the file behind a relative path produced by Save.  Paths
// that do not point directly inside the upload directory are rejected, and
// a file that is already gone is not an error.
func (s *Store) Remove(rel string) error {
	name, ok := s.nameOf(rel)
	if !ok {
		return fmt.Errorf("refusing to remove %q", rel)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Discard removes rel and only logs failures.  It satisfies the catalog's
// janitor contract for inline cleanup.
func (s *Store) Discard(_ context.Context, rel string) {
	if err := s.Remove(rel); err != nil {
		log.Printf("attachment: discard %s: %v", rel, err)
	}
}

func (s *Store) nameOf(rel string) (string, bool) {
	rel = strings.TrimPrefix(rel, "/")
	name := strings.TrimPrefix(rel, s.prefix+"/")
	if name == rel || name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", false
	}
	return name, true
}

func cleanName(raw string) string {
	name := filepath.Base(strings.ReplaceAll(raw, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		if r == ' ' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}

// Policy is the upload acceptance rule.  With Enforce unset every file is
// accepted regardless of the allow-lists.
type Policy struct {
	Enforce     bool
	AllowedExt  map[string]bool
	AllowedMIME []string
	MaxBytes    int64
}

// PolicyFrom builds a Policy from upload configuration.
func PolicyFrom(cfg config.UploadConfig) Policy {
	ext := make(map[string]bool, len(cfg.AllowedExt))
	for _, e := range cfg.AllowedExt {
		ext[strings.TrimPrefix(strings.ToLower(e), ".")] = true
	}
	return Policy{
		Enforce:     cfg.EnforceTypes,
		AllowedExt:  ext,
		AllowedMIME: cfg.AllowedMIME,
		MaxBytes:    cfg.MaxBytes,
	}
}

// Check validates the file against the policy and rewinds src.
func (p Policy) Check(fh *multipart.FileHeader, src multipart.File) error {
	if p.MaxBytes > 0 && fh.Size > p.MaxBytes {
		return ErrTooLarge
	}
	if !p.Enforce {
		return nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if !p.AllowedExt[ext] {
		return ErrTypeNotAllowed
	}
	mt, err := mimetype.DetectReader(src)
	if err != nil {
		return fmt.Errorf("sniff upload: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload: %w", err)
	}
	for _, allowed := range p.AllowedMIME {
		if mt.Is(allowed) {
			return nil
		}
	}
	return ErrTypeNotAllowed
}
