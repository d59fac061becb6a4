package main

import (
	"errors"
	"os"

	healthpdf "github.com/alnah/go-healthpdf"
	"github.com/alnah/go-healthpdf/internal/config"
	"github.com/alnah/go-healthpdf/internal/storage"
)

// Exit codes for the healthpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Success
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or input
	ExitIO      = 3 // File not found, permission denied, storage
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, healthpdf.ErrExecutableNotFound) ||
		errors.Is(err, healthpdf.ErrLaunchFailure) ||
		errors.Is(err, healthpdf.ErrRenderTimeout) ||
		errors.Is(err, healthpdf.ErrRenderFailure) ||
		errors.Is(err, healthpdf.ErrPageCreate) ||
		errors.Is(err, healthpdf.ErrPageLoad) ||
		errors.Is(err, healthpdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadAnswers) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, storage.ErrWrite) ||
		errors.Is(err, storage.ErrUpload) ||
		errors.Is(err, storage.ErrPresign) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrParseAnswers) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, healthpdf.ErrTemplateNotFound) ||
		errors.Is(err, healthpdf.ErrInvalidAnswer) ||
		errors.Is(err, healthpdf.ErrUnknownSchema) ||
		errors.Is(err, healthpdf.ErrInvalidPageSize) ||
		errors.Is(err, healthpdf.ErrInvalidMargin) ||
		errors.Is(err, healthpdf.ErrInvalidScale) ||
		errors.Is(err, healthpdf.ErrInvalidAsset) {
		return ExitUsage
	}

	return ExitGeneral
}
