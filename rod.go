package healthpdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-healthpdf/internal/process"
)

// environ is the base environment handed to bundled browsers.
var environ = os.Environ

// Compile-time interface checks
var (
	_ browserLauncher = rodLauncher{}
	_ browserSession  = (*rodSession)(nil)
	_ renderPage      = (*rodPage)(nil)
)

// rodLauncher starts headless Chrome through go-rod.
type rodLauncher struct{}

// Launch starts a browser process and connects to it. When spec.Bin is empty
// go-rod finds or downloads a browser itself.
func (rodLauncher) Launch(ctx context.Context, spec launchSpec) (browserSession, error) {
	l := launcher.New().Context(ctx).Headless(true)
	if spec.Bin != "" {
		l = l.Bin(spec.Bin)
	}
	for _, f := range spec.Flags {
		name, value, hasValue := strings.Cut(strings.TrimPrefix(f, "--"), "=")
		if name == "no-sandbox" {
			l = l.NoSandbox(true)
			continue
		}
		if hasValue {
			l = l.Set(flags.Flag(name), value)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}
	if len(spec.Env) > 0 {
		l = l.Env(spec.Env...)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, err
	}

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		s := &rodSession{launcher: l, pid: l.PID()}
		return nil, errors.Join(err, s.Close())
	}

	return &rodSession{browser: b, launcher: l, pid: l.PID()}, nil
}

// rodSession owns one browser process.
type rodSession struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pid      int
	closed   bool
}

// NewPage opens a blank tab bound to ctx.
func (s *rodSession) NewPage(ctx context.Context) (renderPage, error) {
	p, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return &rodPage{page: p}, nil
}

// Close shuts the browser down, kills any remaining helper processes and
// removes the profile directory.
func (s *rodSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing browser: %w", err))
		}
	}
	if s.pid > 0 {
		if err := process.KillTree(s.pid); err != nil {
			errs = append(errs, fmt.Errorf("killing browser tree: %w", err))
		}
	}
	s.launcher.Kill()
	s.launcher.Cleanup()

	return errors.Join(errs...)
}

// rodPage adapts *rod.Page.
type rodPage struct {
	page *rod.Page
}

func (p *rodPage) SetViewport(width, height int, scale float64) error {
	return p.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: scale,
	})
}

func (p *rodPage) Load(html string, idle time.Duration) error {
	waitIdle := p.page.WaitRequestIdle(idle, nil, nil, nil)

	if err := p.page.SetDocumentContent(html); err != nil {
		return fmt.Errorf("setting content: %w", err)
	}
	if err := p.page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for load: %w", err)
	}
	if err := p.page.Wait(rod.Eval(`() => document.readyState !== 'loading'`)); err != nil {
		return fmt.Errorf("waiting for DOM: %w", err)
	}
	waitIdle()

	return p.page.GetContext().Err()
}

func (p *rodPage) EmulateScreen() error {
	return proto.EmulationSetEmulatedMedia{Media: "screen"}.Call(p.page)
}

func (p *rodPage) PrintPDF(s printSettings) ([]byte, error) {
	req := &proto.PagePrintToPDF{
		Landscape:       s.Landscape,
		PrintBackground: s.Background,
		Scale:           floatPtr(s.Scale),
		PaperWidth:      floatPtr(s.WidthIn),
		PaperHeight:     floatPtr(s.HeightIn),
		MarginTop:       floatPtr(s.MarginIn.Top),
		MarginBottom:    floatPtr(s.MarginIn.Bottom),
		MarginLeft:      floatPtr(s.MarginIn.Left),
		MarginRight:     floatPtr(s.MarginIn.Right),
		PageRanges:      s.PageRanges,
	}

	reader, err := p.page.PDF(req)
	if err != nil {
		return nil, err
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}
	return buf, nil
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
