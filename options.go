package healthpdf

import (
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-healthpdf/internal/browser"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	baseURL       string
	assetPath     string
	fontPath      string
	stylesheet    string
	schema        string
	concurrency   int
	allowDownload bool
	hints         browser.Hints
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout bounds each render, launch included.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("healthpdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBaseURL sets the process-wide base URL used when a request has none.
func WithBaseURL(u string) Option {
	return func(c *Converter) {
		c.cfg.baseURL = u
	}
}

// WithAssetPath loads templates from dir, falling back to the embedded copies
// for any template dir does not contain.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithFontPath sets the directory substituted for FONT_PATH.
// Defaults to the asset path when one is set.
func WithFontPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.fontPath = dir
	}
}

// WithStylesheet appends css to every filled template, after the template's
// own styles.
func WithStylesheet(css string) Option {
	return func(c *Converter) {
		c.cfg.stylesheet = css
	}
}

// WithSchema selects the token schema by name ("grouped" or "flat").
func WithSchema(name string) Option {
	return func(c *Converter) {
		c.cfg.schema = name
	}
}

// WithMaxConcurrency caps simultaneous renders. 0 picks a value from
// GOMAXPROCS, see ResolveConcurrency.
func WithMaxConcurrency(n int) Option {
	return func(c *Converter) {
		c.cfg.concurrency = n
	}
}

// WithAllowDownload lets go-rod fetch a managed browser when none is found
// locally.
func WithAllowDownload(allow bool) Option {
	return func(c *Converter) {
		c.cfg.allowDownload = allow
	}
}

// WithBrowserHints sets the inputs for browser discovery.
func WithBrowserHints(h browser.Hints) Option {
	return func(c *Converter) {
		c.cfg.hints = h
	}
}
