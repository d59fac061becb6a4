package healthpdf

import (
	"errors"

	"github.com/alnah/go-healthpdf/internal/assets"
)

// Sentinel errors for library operations.
var (
	// ErrTemplateNotFound aliases the asset loader's sentinel so callers can
	// match it without importing internal packages.
	ErrTemplateNotFound = assets.ErrTemplateNotFound

	ErrExecutableNotFound = errors.New("no browser executable found")
	ErrLaunchFailure      = errors.New("failed to launch browser")
	ErrRenderFailure      = errors.New("failed to render PDF")
	ErrRenderTimeout      = errors.New("PDF render timed out")

	// Render stage details, wrapped alongside ErrRenderFailure or
	// ErrRenderTimeout.
	ErrPageCreate    = errors.New("failed to create browser page")
	ErrPageLoad      = errors.New("failed to load page")
	ErrPDFGeneration = errors.New("PDF generation failed")

	// Request validation errors.
	ErrInvalidAnswer   = errors.New("invalid answer")
	ErrUnknownSchema   = errors.New("unknown token schema")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidMargin   = errors.New("invalid margin")
	ErrInvalidScale    = errors.New("invalid scale")
	ErrInvalidAsset    = errors.New("invalid asset path")
)
