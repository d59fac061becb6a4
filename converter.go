package healthpdf

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-healthpdf/internal/assets"
	"github.com/alnah/go-healthpdf/internal/browser"
	"github.com/alnah/go-healthpdf/internal/hints"
	"github.com/alnah/go-healthpdf/internal/metrics"
	"github.com/alnah/go-healthpdf/internal/pipeline"
)

// pdfRenderer prints finished HTML. Implemented by renderer; tests substitute
// a fake.
type pdfRenderer interface {
	Render(ctx context.Context, html, lang string, opts *PDFOptions) ([]byte, error)
}

var _ pdfRenderer = (*renderer)(nil)

// Converter turns questionnaire answers into PDFs.
// Create with NewConverter; safe for concurrent use.
type Converter struct {
	cfg      converterConfig
	logger   *zap.Logger
	loader   assets.TemplateLoader
	assetDir string // custom asset directory, "" when embedded only
	subst    *pipeline.Substitution
	renderer pdfRenderer
	limit    *limiter
	now      func() time.Time

	// test seams, consulted only when renderer is nil
	launcher browserLauncher
	locator  executableResolver
}

// NewConverter creates a Converter. Configuration is read-only afterwards.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:    converterConfig{timeout: defaultTimeout},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	schema, ok := pipeline.SchemaByName(c.cfg.schema)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, c.cfg.schema)
	}
	c.subst = pipeline.NewSubstitution(schema)

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	c.loader = resolver
	c.assetDir = resolver.BasePath()
	if c.cfg.fontPath == "" {
		c.cfg.fontPath = resolver.BasePath()
	}

	if c.cfg.hints.GOOS == "" {
		c.cfg.hints.GOOS = runtime.GOOS
	}

	c.limit = newLimiter(ResolveConcurrency(c.cfg.concurrency))

	if c.renderer == nil {
		if c.launcher == nil {
			c.launcher = rodLauncher{}
		}
		if c.locator == nil {
			c.locator = browser.NewLocator(browser.WithLogger(c.logger))
		}
		c.renderer = &renderer{
			launcher:      c.launcher,
			locator:       c.locator,
			hints:         c.cfg.hints,
			allowDownload: c.cfg.allowDownload,
			timeout:       c.cfg.timeout,
			logger:        c.logger,
		}
	}

	return c, nil
}

// Concurrency returns the maximum number of simultaneous renders.
func (c *Converter) Concurrency() int {
	return c.limit.size()
}

// Schema returns the name of the token schema in use.
func (c *Converter) Schema() string {
	return c.subst.Schema.Name
}

// Render fills the language's template and prints it.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Render(ctx context.Context, req RenderRequest) (doc *RenderedDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	lang := NormalizeLanguage(req.Language)
	html, unresolved, err := c.buildHTML(lang, req)
	if err != nil {
		return nil, err
	}
	if len(unresolved) > 0 {
		c.logger.Warn("template tokens without value",
			zap.String("lang", lang), zap.Strings("tokens", unresolved))
	}

	doc = &RenderedDocument{HTML: html, Language: lang, Unresolved: unresolved}
	if req.HTMLOnly {
		return doc, nil
	}

	if err := c.limit.acquire(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for render slot: %w", ErrRenderFailure, err)
	}
	defer c.limit.release()

	start := time.Now()
	pdf, err := c.renderer.Render(ctx, html, lang, req.PDF)
	elapsed := time.Since(start)
	metrics.ObserveRender(lang, outcomeOf(err), elapsed)
	if err != nil {
		c.logger.Error("render failed", zap.String("lang", lang), zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, err
	}

	c.logger.Info("rendered PDF",
		zap.String("lang", lang), zap.Int("bytes", len(pdf)), zap.Duration("elapsed", elapsed))
	doc.PDF = pdf
	return doc, nil
}

// buildHTML loads and fills the template for lang.
func (c *Converter) buildHTML(lang string, req RenderRequest) (string, []string, error) {
	tpl, err := c.loader.LoadTemplate(c.subst.Schema.TemplateSet, lang)
	if err != nil {
		return "", nil, fmt.Errorf("%w%s", err, hints.ForTemplateNotFound([]string{LangEnglish, LangArabic}))
	}

	answers := make([]pipeline.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = a.toPipeline()
	}

	html, unresolved := c.subst.Substitute(tpl, lang, &pipeline.Data{
		Answers:        answers,
		BaseURL:        req.BaseURL,
		DefaultBaseURL: c.cfg.baseURL,
		AssetPath:      c.cfg.fontPath,
		GeneratedAt:    c.now(),
	})

	// The page is loaded from memory, so relative asset paths have nothing
	// to resolve against.
	html, err = pipeline.ResolveRefs(html, pipeline.ResolveBaseURL(req.BaseURL, c.cfg.baseURL), c.assetDir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving asset references: %w", err)
	}
	return pipeline.InjectStylesheet(html, c.cfg.stylesheet), unresolved, nil
}

// ReportFilename names a rendered report: health-report-<lang>-<unix ms>.pdf.
func ReportFilename(lang string, t time.Time) string {
	return fmt.Sprintf("health-report-%s-%d.pdf", NormalizeLanguage(lang), t.UnixMilli())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrRenderTimeout):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeFailure
	}
}
