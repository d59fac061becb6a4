// Package storage persists generated PDFs and returns a retrievable location.
//
// Two backends exist: LocalStore writes files under a directory the HTTP
// server exposes at /pdfs, and S3Store uploads to a bucket and hands back a
// time-limited presigned URL.
package storage

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for storage operations.
var (
	ErrWrite   = errors.New("failed to write PDF")
	ErrUpload  = errors.New("failed to upload PDF")
	ErrPresign = errors.New("failed to create download URL")
	ErrEmpty   = errors.New("refusing to store empty PDF")
)

// Backend names reported in Location.Backend.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Location describes where a stored PDF can be fetched.
type Location struct {
	URL     string // Public or presigned URL
	Path    string // Filesystem path or s3:// URI
	Backend string
}

// Store saves a rendered PDF under filename.
type Store interface {
	Save(ctx context.Context, pdf []byte, filename string) (Location, error)
}

// Config selects and configures a backend.
type Config struct {
	UseLocal  bool
	Dir       string
	Bucket    string
	Region    string
	Prefix    string
	URLExpiry time.Duration
}

// Select returns the local store when cfg.UseLocal is set or no bucket is
// configured, the S3 store otherwise.
func Select(ctx context.Context, cfg Config) (Store, error) {
	if cfg.UseLocal || cfg.Bucket == "" {
		return NewLocalStore(cfg.Dir), nil
	}
	return NewS3Store(ctx, S3Options{
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		Prefix:    cfg.Prefix,
		URLExpiry: cfg.URLExpiry,
	})
}
