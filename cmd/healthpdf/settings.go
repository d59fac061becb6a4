package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	healthpdf "github.com/alnah/go-healthpdf"
	"github.com/alnah/go-healthpdf/internal/browser"
	"github.com/alnah/go-healthpdf/internal/config"
	"github.com/alnah/go-healthpdf/internal/hints"
	"github.com/alnah/go-healthpdf/internal/logging"
	"github.com/alnah/go-healthpdf/internal/storage"
)

// loadSettings builds the effective configuration.
// Precedence: CLI flags (applied by callers) > env vars > config file > defaults.
func loadSettings(flags commonFlags, env *Environment) (*config.Config, error) {
	name := flags.config
	if name == "" {
		name = env.Getenv("HEALTHPDF_CONFIG")
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !strings.ContainsAny(name, "/\\") {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg, env.Getenv); err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// browserHints maps configuration to locator inputs. Unset bundle fields are
// filled by the locator.
func browserHints(cfg *config.Config) browser.Hints {
	return browser.Hints{
		ExecutablePath:   cfg.Browser.Bin,
		BundleDirs:       cfg.Browser.BundleDirs,
		BundleExecutable: cfg.Browser.BundleExecutable,
	}
}

// converterOptions translates a validated Config into Converter options.
func converterOptions(cfg *config.Config, logger *zap.Logger) ([]healthpdf.Option, error) {
	timeout, err := cfg.Render.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	var css string
	if cfg.Assets.Stylesheet != "" {
		data, err := os.ReadFile(cfg.Assets.Stylesheet) // #nosec G304 -- path is operator-provided
		if err != nil {
			return nil, fmt.Errorf("reading stylesheet: %w", err)
		}
		css = string(data)
	}

	return []healthpdf.Option{
		healthpdf.WithLogger(logger),
		healthpdf.WithStylesheet(css),
		healthpdf.WithTimeout(timeout),
		healthpdf.WithBaseURL(cfg.Server.BaseURL),
		healthpdf.WithAssetPath(cfg.Assets.BasePath),
		healthpdf.WithFontPath(cfg.Assets.FontPath),
		healthpdf.WithSchema(cfg.Render.Schema),
		healthpdf.WithMaxConcurrency(cfg.Render.Concurrency),
		healthpdf.WithAllowDownload(cfg.Browser.AllowDownload),
		healthpdf.WithBrowserHints(browserHints(cfg)),
	}, nil
}

// storageConfig maps configuration to storage.Select input.
func storageConfig(cfg *config.Config) (storage.Config, error) {
	expiry, err := cfg.Storage.URLExpiryDuration()
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{
		UseLocal:  cfg.Storage.UseLocal,
		Dir:       cfg.Storage.Dir,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Prefix:    cfg.Storage.Prefix,
		URLExpiry: expiry,
	}, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Format)
}
