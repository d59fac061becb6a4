package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	healthpdf "github.com/alnah/go-healthpdf"
	"github.com/alnah/go-healthpdf/internal/fileutil"
	"github.com/alnah/go-healthpdf/internal/hints"
)

// Sentinel errors for the render command.
var (
	ErrReadAnswers  = errors.New("failed to read answers file")
	ErrParseAnswers = errors.New("failed to parse answers file")
	ErrWriteOutput  = errors.New("failed to write output")
)

// answersFile is the on-disk input. It matches the HTTP request body; a bare
// array of answers is also accepted.
type answersFile struct {
	Lang     string                   `json:"lang"`
	Language string                   `json:"language"`
	Report   []healthpdf.AnswerRecord `json:"report"`
	Answers  []healthpdf.AnswerRecord `json:"answers"`
	BaseURL  string                   `json:"baseUrl"`
}

func readAnswersFile(path string) (*answersFile, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadAnswers, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []healthpdf.AnswerRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParseAnswers, path, err)
		}
		return &answersFile{Report: records}, nil
	}

	var f answersFile
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseAnswers, path, err)
	}
	return &f, nil
}

func (f *answersFile) language() string {
	if f.Lang != "" {
		return f.Lang
	}
	return f.Language
}

func (f *answersFile) records() []healthpdf.AnswerRecord {
	if f.Report != nil {
		return f.Report
	}
	return f.Answers
}

// runRender renders one answers file to disk.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, input, err := parseRenderFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(flags.common, env)
	if err != nil {
		return err
	}
	if flags.timeout > 0 {
		cfg.Render.Timeout = flags.timeout.String()
	}
	if flags.schema != "" {
		cfg.Render.Schema = flags.schema
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	file, err := readAnswersFile(input)
	if err != nil {
		return err
	}

	req := healthpdf.RenderRequest{
		Language: file.language(),
		Answers:  file.records(),
		BaseURL:  file.BaseURL,
		HTMLOnly: flags.htmlOnly,
		PDF:      pdfOptions(flags),
	}
	if flags.lang != "" {
		req.Language = flags.lang
	}
	if flags.baseURL != "" {
		req.BaseURL = flags.baseURL
	}

	opts, err := converterOptions(cfg, logger)
	if err != nil {
		return err
	}
	conv, err := healthpdf.NewConverter(opts...)
	if err != nil {
		return err
	}

	doc, err := conv.Render(ctx, req)
	if err != nil {
		return err
	}

	out, data := outputFor(flags, doc, env)
	if err := fileutil.WriteFileAtomic(out, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	for _, token := range doc.Unresolved {
		fmt.Fprintf(env.Stderr, "warning: unresolved placeholder %s\n", token)
	}
	fmt.Fprintf(env.Stdout, "%s (%d bytes)\n", out, len(data))
	return nil
}

// pdfOptions returns nil when no print flag was given.
func pdfOptions(f *renderFlags) *healthpdf.PDFOptions {
	if f.pageSize == "" && !f.landscape && !f.marginSet && f.scale == 0 && f.pageRanges == "" {
		return nil
	}
	opts := &healthpdf.PDFOptions{
		Size:       f.pageSize,
		Landscape:  f.landscape,
		Scale:      f.scale,
		PageRanges: f.pageRanges,
	}
	if f.marginSet {
		opts.Margins = healthpdf.UniformMargins(f.marginMM)
	}
	return opts
}

// outputFor picks the output path and payload. Without -o, the report
// filename used by the HTTP API is used, with .html for HTML output.
func outputFor(f *renderFlags, doc *healthpdf.RenderedDocument, env *Environment) (string, []byte) {
	out := f.output
	if out == "" {
		out = healthpdf.ReportFilename(doc.Language, env.Now())
		if f.htmlOnly {
			out = out[:len(out)-len(".pdf")] + ".html"
		}
	}
	if f.htmlOnly {
		return out, []byte(doc.HTML)
	}
	return out, doc.PDF
}
