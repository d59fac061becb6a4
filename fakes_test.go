package healthpdf

// Notes:
// - The fakes stand in for go-rod so state transitions and cleanup can be
//   checked without a browser. Real rendering is covered by the integration
//   tests.

import (
	"context"
	"sync"
	"time"

	"github.com/alnah/go-healthpdf/internal/browser"
)

type fakeLocator struct {
	res browser.Resolution
	ok  bool
}

func (f fakeLocator) Resolve(browser.Hints) (browser.Resolution, bool) {
	return f.res, f.ok
}

func foundAt(path string) fakeLocator {
	return fakeLocator{res: browser.Resolution{Path: path, Source: browser.SourceSystem}, ok: true}
}

type fakeLauncher struct {
	mu       sync.Mutex
	err      error
	session  *fakeSession
	specs    []launchSpec
	launches int
}

func (f *fakeLauncher) Launch(_ context.Context, spec launchSpec) (browserSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launches++
	f.specs = append(f.specs, spec)
	if f.err != nil {
		return nil, f.err
	}
	if f.session == nil {
		f.session = &fakeSession{page: &fakePage{pdf: []byte("%PDF-1.7 fake")}}
	}
	return f.session, nil
}

func (f *fakeLauncher) lastSpec() launchSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.specs[len(f.specs)-1]
}

type fakeSession struct {
	mu      sync.Mutex
	page    *fakePage
	pageErr error
	closes  int
}

func (s *fakeSession) NewPage(ctx context.Context) (renderPage, error) {
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	s.page.ctx = ctx
	return s.page, nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *fakeSession) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

type fakePage struct {
	ctx         context.Context
	viewportErr error
	loadErr     error
	emulateErr  error
	printErr    error
	hang        bool // Load blocks until ctx is done
	pdf         []byte

	html     string
	viewport [3]float64
	settings printSettings
	emulated bool
	closed   bool
}

func (p *fakePage) SetViewport(width, height int, scale float64) error {
	p.viewport = [3]float64{float64(width), float64(height), scale}
	return p.viewportErr
}

func (p *fakePage) Load(html string, _ time.Duration) error {
	p.html = html
	if p.hang {
		<-p.ctx.Done()
		return p.ctx.Err()
	}
	return p.loadErr
}

func (p *fakePage) EmulateScreen() error {
	p.emulated = true
	return p.emulateErr
}

func (p *fakePage) PrintPDF(s printSettings) ([]byte, error) {
	p.settings = s
	if p.printErr != nil {
		return nil, p.printErr
	}
	return p.pdf, nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

// withBrowser swaps the browser launcher and locator.
func withBrowser(l browserLauncher, loc executableResolver) Option {
	return func(c *Converter) {
		c.launcher = l
		c.locator = loc
	}
}

// withRenderer bypasses the browser layer entirely.
func withRenderer(r pdfRenderer) Option {
	return func(c *Converter) {
		c.renderer = r
	}
}

// withClock fixes the generation time.
func withClock(t time.Time) Option {
	return func(c *Converter) {
		c.now = func() time.Time { return t }
	}
}
