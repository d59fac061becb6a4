package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alnah/go-healthpdf/internal/fileutil"
)

// URLPrefix is the route LocalStore files are served under.
const URLPrefix = "/pdfs"

// LocalStore writes PDFs into a directory.
type LocalStore struct {
	dir string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates a store rooted at dir ("pdfs" when empty).
// The directory is created on first save.
func NewLocalStore(dir string) *LocalStore {
	if dir == "" {
		dir = "pdfs"
	}
	return &LocalStore{dir: dir}
}

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes pdf to <dir>/<filename> atomically.
func (s *LocalStore) Save(ctx context.Context, pdf []byte, filename string) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	if len(pdf) == 0 {
		return Location{}, ErrEmpty
	}
	if err := fileutil.ValidateFilename(filename); err != nil {
		return Location{}, err
	}

	path := filepath.Join(s.dir, filename)
	if err := fileutil.WriteFileAtomic(path, pdf, 0o644); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return Location{
		URL:     URLPrefix + "/" + filename,
		Path:    abs,
		Backend: BackendLocal,
	}, nil
}
