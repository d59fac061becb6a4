package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnah/go-healthpdf/internal/fileutil"
)

func TestLocalStore_Save(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "pdfs")
	store := NewLocalStore(dir)
	pdf := []byte("%PDF-1.7 body")

	loc, err := store.Save(context.Background(), pdf, "health-report-en-1700000000000.pdf")
	require.NoError(t, err)

	assert.Equal(t, "/pdfs/health-report-en-1700000000000.pdf", loc.URL)
	assert.Equal(t, BackendLocal, loc.Backend)
	assert.True(t, filepath.IsAbs(loc.Path))

	got, err := os.ReadFile(loc.Path)
	require.NoError(t, err)
	assert.Equal(t, pdf, got)
}

func TestLocalStore_Rejects(t *testing.T) {
	t.Parallel()

	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	_, err := store.Save(ctx, []byte("x"), "../escape.pdf")
	assert.ErrorIs(t, err, fileutil.ErrFilenameTraversal)

	_, err = store.Save(ctx, nil, "a.pdf")
	assert.ErrorIs(t, err, ErrEmpty)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = store.Save(cancelled, []byte("x"), "a.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalStore_DefaultDir(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pdfs", NewLocalStore("").Dir())
}

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "explicit local", cfg: Config{UseLocal: true, Bucket: "reports", Dir: "out"}},
		{name: "no bucket", cfg: Config{Dir: "out"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, err := Select(context.Background(), tt.cfg)
			require.NoError(t, err)

			local, ok := store.(*LocalStore)
			require.True(t, ok, "expected *LocalStore, got %T", store)
			assert.Equal(t, "out", local.Dir())
		})
	}
}
