package healthpdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-healthpdf/internal/browser"
	"github.com/alnah/go-healthpdf/internal/hints"
	"github.com/alnah/go-healthpdf/internal/metrics"
)

// State is a step of a single render.
type State int

// Render states. Every render ends in StateClosed.
const (
	StateIdle State = iota
	StateLaunching
	StatePageOpen
	StateContentLoaded
	StatePrinted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLaunching:
		return "launching"
	case StatePageOpen:
		return "page_open"
	case StateContentLoaded:
		return "content_loaded"
	case StatePrinted:
		return "printed"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Viewport matches A4 at 96 DPI, rendered at twice the density.
const (
	viewportWidth  = 794
	viewportHeight = 1123
	viewportScale  = 2
)

// networkIdle is how long the page must make no requests to count as idle.
const networkIdle = 500 * time.Millisecond

// launchSpec describes a browser process to start.
type launchSpec struct {
	Bin      string   // empty = let the launcher fetch a managed browser
	Flags    []string // "--name" or "--name=value"
	Env      []string
	LibPaths []string
}

// browserLauncher starts one browser process per render.
type browserLauncher interface {
	Launch(ctx context.Context, spec launchSpec) (browserSession, error)
}

// browserSession is a running browser. Close must stop the process tree and
// remove its profile directory, and is safe to call once.
type browserSession interface {
	NewPage(ctx context.Context) (renderPage, error)
	Close() error
}

// renderPage is one tab.
type renderPage interface {
	SetViewport(width, height int, scale float64) error
	// Load sets the document and waits for the load event, DOM ready and
	// network idle.
	Load(html string, idle time.Duration) error
	EmulateScreen() error
	PrintPDF(s printSettings) ([]byte, error)
	Close() error
}

// executableResolver finds a browser binary.
type executableResolver interface {
	Resolve(h browser.Hints) (browser.Resolution, bool)
}

var _ executableResolver = (*browser.Locator)(nil)

// renderer drives the launch, load and print sequence for one document.
type renderer struct {
	launcher      browserLauncher
	locator       executableResolver
	hints         browser.Hints
	allowDownload bool
	timeout       time.Duration
	logger        *zap.Logger
	observe       func(State) // test hook
}

// Render prints html to PDF in a fresh browser. The browser is released
// before any error is returned.
func (r *renderer) Render(ctx context.Context, html, lang string, opts *PDFOptions) (pdf []byte, err error) {
	state := StateIdle
	enter := func(s State) {
		state = s
		r.logger.Debug("render state", zap.Stringer("state", s), zap.String("lang", lang))
		if r.observe != nil {
			r.observe(s)
		}
	}
	defer func() {
		if state != StateClosed {
			enter(StateClosed)
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	spec, err := r.launchSpec(lang)
	if err != nil {
		return nil, err
	}

	enter(StateLaunching)
	session, err := r.launcher.Launch(ctx, spec)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w: launching: %v%s", ErrRenderTimeout, err, hints.ForTimeout())
		}
		return nil, fmt.Errorf("%w: %v%s", ErrLaunchFailure, err, hints.ForBrowserLaunch(spec.LibPaths))
	}
	metrics.BrowsersActive.Inc()
	defer func() {
		if cerr := session.Close(); cerr != nil {
			r.logger.Warn("closing browser", zap.Error(cerr))
		}
		metrics.BrowsersActive.Dec()
		enter(StateClosed)
	}()

	page, err := session.NewPage(ctx)
	if err != nil {
		return nil, stageError(ctx, ErrPageCreate, err)
	}
	enter(StatePageOpen)
	defer func() {
		if cerr := page.Close(); cerr != nil {
			r.logger.Debug("closing page", zap.Error(cerr))
		}
	}()

	if err := page.SetViewport(viewportWidth, viewportHeight, viewportScale); err != nil {
		return nil, stageError(ctx, ErrPageCreate, err)
	}

	if err := page.Load(html, networkIdle); err != nil {
		return nil, stageError(ctx, ErrPageLoad, err)
	}
	enter(StateContentLoaded)

	if err := page.EmulateScreen(); err != nil {
		return nil, stageError(ctx, ErrPDFGeneration, err)
	}

	pdf, err = page.PrintPDF(opts.resolve())
	if err != nil {
		return nil, stageError(ctx, ErrPDFGeneration, err)
	}
	if len(pdf) == 0 {
		return nil, stageError(ctx, ErrPDFGeneration, errors.New("empty PDF stream"))
	}
	enter(StatePrinted)

	return pdf, nil
}

// launchSpec resolves the executable and assembles launch flags.
func (r *renderer) launchSpec(lang string) (launchSpec, error) {
	spec := launchSpec{
		Flags: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--font-render-hinting=medium",
			"--lang=" + localeFlag(lang),
		},
	}

	res, ok := r.locator.Resolve(r.hints)
	if !ok {
		metrics.BrowserResolutions.WithLabelValues("none").Inc()
		if !r.allowDownload {
			return launchSpec{}, fmt.Errorf("%w%s", ErrExecutableNotFound, hints.ForExecutableNotFound(r.hints.GOOS))
		}
		r.logger.Info("no local browser, using managed download")
		return spec, nil
	}

	metrics.BrowserResolutions.WithLabelValues(string(res.Source)).Inc()
	spec.Bin = res.Path
	spec.Flags = append(spec.Flags, res.Args...)
	spec.LibPaths = res.LibraryPath
	if len(res.LibraryPath) > 0 {
		spec.Env = res.Env(environ())
	}
	return spec, nil
}

// stageError classifies a failure at a render stage.
func stageError(ctx context.Context, stage, err error) error {
	switch {
	case isTimeout(ctx, err):
		return fmt.Errorf("%w: %w: %v%s", ErrRenderTimeout, stage, err, hints.ForTimeout())
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%w: %w: %w", ErrRenderFailure, stage, context.Canceled)
	default:
		return fmt.Errorf("%w: %w: %v", ErrRenderFailure, stage, err)
	}
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
