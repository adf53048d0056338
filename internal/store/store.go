// Package store holds per-request scratch directories. Uploaded PDFs are
// written here because the PDF reader works on files; nothing outlives the
// request that created it.
package store

import (
	"os"
	"path/filepath"
)

type FS struct{ Root string }

func New(root string) (*FS, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, err
	}
	return &FS{Root: root}, nil
}

func (s *FS) JobDir(id string) string { return filepath.Join(s.Root, id) }

func (s *FS) MkJob(id string) (string, error) {
	j := s.JobDir(id)
	return j, os.MkdirAll(j, 0o700)
}

// WriteUpload stores data under the job directory and returns its path.
// Only the base name of name is used.
func (s *FS) WriteUpload(id, name string, data []byte) (string, error) {
	dir, err := s.MkJob(id)
	if err != nil {
		return "", err
	}
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "upload"
	}
	p := filepath.Join(dir, base)
	return p, os.WriteFile(p, data, 0o600)
}

func (s *FS) Remove(id string) error { return os.RemoveAll(s.JobDir(id)) }
