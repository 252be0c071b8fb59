// Package storage implements the on-disk asset store that holds uploaded
// images, script documents and videos.  Rows in the database reference
// files by relative path; the store never deletes a file on its own and a
// missing file is "no asset", never an error.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrOutsideRoot is returned by Resolve when a relative path would escape
// the store root after cleaning.
var ErrOutsideRoot = errors.New("asset path escapes store root")

// AssetStore writes and resolves uploaded files under a single root
// directory.  All returned paths are slash-separated and relative to the
// root, ready to be persisted in a row and reused in URLs.
type AssetStore struct {
	root string // absolute, cleaned root directory
}

// NewAssetStore creates the root directory if needed and returns a store
// anchored at its absolute path.
func NewAssetStore(root string) (*AssetStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &AssetStore{root: abs}, nil
}

// Root returns the absolute root directory of the store.
func (s *AssetStore) Root() string { return s.root }

// Save stores an uploaded file under category/subdir with the name
// {prefix}_{unixSeconds}{originalExt} and returns the relative path to
// persist.  Subdir and prefix are sanitized against path-unsafe
// characters.  Collisions are avoided only by second-granularity
// timestamps; two uploads for the same character within one second
// overwrite each other, which is acceptable at office pace.
func (s *AssetStore) Save(category, subdir, prefix, originalName string, src io.Reader) (string, error) {
	dir := category
	if sub := Sanitize(subdir); sub != "" {
		dir = filepath.Join(category, sub)
	}
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%d%s", Sanitize(prefix), time.Now().Unix(), filepath.Ext(originalName))
	rel := filepath.ToSlash(filepath.Join(dir, name))

	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return rel, nil
}

// Resolve maps a stored relative path to an absolute path under the store
// root.  The path is cleaned first and anything that would climb out of
// the root (absolute paths, ".." segments) is rejected.
func (s *AssetStore) Resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return filepath.Join(s.root, clean), nil
}

// Remove deletes a stored file best-effort: failures are logged and
// swallowed so that deleting a row never fails because of a stray file.
// Empty paths are ignored.
func (s *AssetStore) Remove(rel string) {
	if rel == "" {
		return
	}
	full, err := s.Resolve(rel)
	if err != nil {
		log.Printf("asset store: skip removal of %q: %v", rel, err)
		return
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		log.Printf("asset store: remove %q: %v", rel, err)
	}
}

// Sanitize strips path-unsafe characters from a name destined for a
// directory or file component.  Spaces become underscores; anything
// outside [A-Za-z0-9._-] is dropped, and leading dots go with it so a
// crafted name can never produce a ".." component.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}
