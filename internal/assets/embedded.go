package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed templates/*
var templates embed.FS

//go:embed static/*
var static embed.FS

// EmbeddedLoader loads templates from the embedded filesystem.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTemplate loads an HTML template from embedded assets.
func (e *EmbeddedLoader) LoadTemplate(set, language string) (string, error) {
	p, err := templatePath(set, language)
	if err != nil {
		return "", err
	}

	content, err := templates.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("%w: %s/%s", ErrTemplateNotFound, set, language)
	}

	return string(content), nil
}

// StaticFS returns the embedded static files rooted at static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// static/ is embedded at compile time; Sub only fails on invalid names.
		panic(err)
	}
	return sub
}

// Compile-time interface check.
var _ TemplateLoader = (*EmbeddedLoader)(nil)
