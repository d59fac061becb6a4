package browser

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
)

// Source names the probe that produced a Resolution.
type Source string

// Resolution sources, in probe order.
const (
	SourceOverride   Source = "override"
	SourceServerless Source = "serverless"
	SourceSystem     Source = "system"
	SourceAutoDetect Source = "autodetect"
)

// Hints carries environment-level inputs to resolution. Locator.Resolve fills
// zero values: BundleDirs with DefaultBundleDirs of the working directory,
// BundleExecutable with DefaultBundleExecutable and GOOS with runtime.GOOS.
type Hints struct {
	ExecutablePath   string   // explicit override
	BundleDirs       []string // serverless bundle candidates
	BundleExecutable string   // path the bundle reports for its binary
	GOOS             string   // platform whose install paths are probed
}

func (h Hints) withDefaults(workDir string) Hints {
	if len(h.BundleDirs) == 0 {
		h.BundleDirs = DefaultBundleDirs(workDir)
	}
	if h.BundleExecutable == "" {
		h.BundleExecutable = DefaultBundleExecutable
	}
	if h.GOOS == "" {
		h.GOOS = runtime.GOOS
	}
	return h
}

// Resolution is a located browser executable.
type Resolution struct {
	Path        string
	Source      Source
	LibraryPath []string // extra shared-library dirs, serverless only
	Args        []string // extra launch flags, serverless only
}

// Env returns base with LD_LIBRARY_PATH prefixed by r.LibraryPath.
// base is returned unchanged when there is nothing to add.
func (r Resolution) Env(base []string) []string {
	if len(r.LibraryPath) == 0 {
		return base
	}

	const key = "LD_LIBRARY_PATH="
	value := strings.Join(r.LibraryPath, ":")

	out := make([]string, 0, len(base)+1)
	for _, kv := range base {
		if strings.HasPrefix(kv, key) {
			if existing := strings.TrimPrefix(kv, key); existing != "" {
				value += ":" + existing
			}
			continue
		}
		out = append(out, kv)
	}
	return append(out, key+value)
}

// Probe inspects one kind of candidate. It must not have side effects beyond
// reading fsys.
type Probe func(h Hints, fsys FS) (Resolution, bool)

// FirstOf returns a Probe yielding the first successful result of probes.
func FirstOf(probes ...Probe) Probe {
	return func(h Hints, fsys FS) (Resolution, bool) {
		for _, p := range probes {
			if r, ok := p(h, fsys); ok {
				return r, true
			}
		}
		return Resolution{}, false
	}
}

// OverrideProbe accepts Hints.ExecutablePath when it exists.
func OverrideProbe(h Hints, fsys FS) (Resolution, bool) {
	if h.ExecutablePath == "" || !fsys.IsFile(h.ExecutablePath) {
		return Resolution{}, false
	}
	return Resolution{Path: h.ExecutablePath, Source: SourceOverride}, true
}

// ServerlessProbe accepts the first bundle directory present, resolving its
// reported executable or falling back to bin/chromium inside it.
func ServerlessProbe(h Hints, fsys FS) (Resolution, bool) {
	reported := h.BundleExecutable
	if reported == "" {
		reported = DefaultBundleExecutable
	}

	for _, dir := range h.BundleDirs {
		if !fsys.IsDir(dir) {
			continue
		}

		exe := reported
		if !fsys.IsFile(exe) {
			exe = filepath.Join(dir, "bin", "chromium")
			if !fsys.IsFile(exe) {
				continue
			}
		}

		return Resolution{
			Path:        exe,
			Source:      SourceServerless,
			LibraryPath: existingDirs(fsys, bundleLibraryDirs(dir)),
			Args:        append([]string(nil), ServerlessArgs...),
		}, true
	}
	return Resolution{}, false
}

// SystemProbe checks the install paths of Hints.GOOS only.
func SystemProbe(h Hints, fsys FS) (Resolution, bool) {
	for _, p := range systemPaths[h.GOOS] {
		if fsys.IsFile(p) {
			return Resolution{Path: p, Source: SourceSystem}, true
		}
	}
	return Resolution{}, false
}

// AutoDetectProbe asks the automation library: lookPath for a browser it can
// find on the system, then managedPath for its own downloaded copy.
// Either function may be nil.
func AutoDetectProbe(lookPath func() (string, bool), managedPath func() string) Probe {
	return func(_ Hints, fsys FS) (Resolution, bool) {
		if lookPath != nil {
			if p, ok := lookPath(); ok && fsys.IsFile(p) {
				return Resolution{Path: p, Source: SourceAutoDetect}, true
			}
		}
		if managedPath != nil {
			if p := managedPath(); fsys.IsFile(p) {
				return Resolution{Path: p, Source: SourceAutoDetect}, true
			}
		}
		return Resolution{}, false
	}
}

// existingDirs filters dirs to those present, removing duplicates.
func existingDirs(fsys FS, dirs []string) []string {
	var out []string
	seen := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		if seen[d] || !fsys.IsDir(d) {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// Locator resolves a browser executable with the fixed probe chain.
type Locator struct {
	fs      FS
	probe   Probe
	logger  *zap.Logger
	workDir func() string
}

// LocatorOption configures a Locator.
type LocatorOption func(*locatorConfig)

type locatorConfig struct {
	fs          FS
	logger      *zap.Logger
	lookPath    func() (string, bool)
	managedPath func() string
	workDir     func() string
}

// WithFS replaces the filesystem used for existence checks.
func WithFS(fsys FS) LocatorOption {
	return func(c *locatorConfig) { c.fs = fsys }
}

// WithLogger sets the logger for resolution decisions.
func WithLogger(l *zap.Logger) LocatorOption {
	return func(c *locatorConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkDir sets the directory a ./chromium bundle is looked for in when
// Hints.BundleDirs is empty.
func WithWorkDir(dir string) LocatorOption {
	return func(c *locatorConfig) { c.workDir = func() string { return dir } }
}

// WithAutoDetect replaces go-rod's detection functions. nil disables a step.
func WithAutoDetect(lookPath func() (string, bool), managedPath func() string) LocatorOption {
	return func(c *locatorConfig) {
		c.lookPath = lookPath
		c.managedPath = managedPath
	}
}

// NewLocator creates a Locator probing the real filesystem with go-rod's
// detection as the last step.
func NewLocator(opts ...LocatorOption) *Locator {
	cfg := &locatorConfig{
		fs:          OSFS{},
		logger:      zap.NewNop(),
		lookPath:    launcher.LookPath,
		managedPath: rodManagedPath,
		workDir:     currentDir,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Locator{
		fs:      cfg.fs,
		logger:  cfg.logger,
		workDir: cfg.workDir,
		probe: FirstOf(
			OverrideProbe,
			ServerlessProbe,
			SystemProbe,
			AutoDetectProbe(cfg.lookPath, cfg.managedPath),
		),
	}
}

// Resolve runs the probe chain. It returns false when nothing was found.
func (l *Locator) Resolve(h Hints) (Resolution, bool) {
	h = h.withDefaults(l.workDir())

	if h.ExecutablePath != "" && !l.fs.IsFile(h.ExecutablePath) {
		l.logger.Warn("ignoring missing browser override", zap.String("path", h.ExecutablePath))
	}

	r, ok := l.probe(h, l.fs)
	if !ok {
		l.logger.Warn("no browser executable found", zap.String("goos", h.GOOS))
		return Resolution{}, false
	}

	l.logger.Info("browser executable resolved",
		zap.String("source", string(r.Source)),
		zap.String("path", r.Path),
		zap.Strings("library_path", r.LibraryPath),
	)
	return r, true
}

func currentDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// rodManagedPath is where go-rod keeps the browser it downloads.
func rodManagedPath() string {
	return launcher.NewBrowser().BinPath()
}
