package main

import (
	"errors"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage reports bad flags or arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config   string
	logLevel string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common     commonFlags
	output     string
	lang       string
	baseURL    string
	timeout    time.Duration
	schema     string
	htmlOnly   bool
	pageSize   string
	landscape  bool
	marginMM   float64
	marginSet  bool // --margin given, 0 included
	scale      float64
	pageRanges string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {}
	return fs
}

func parseServeFlags(args []string) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve")
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :3000)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}

// parseRenderFlags returns the flags and the answers file argument.
func parseRenderFlags(args []string) (*renderFlags, string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render")
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default health-report-<lang>-<ms>.pdf)")
	fs.StringVarP(&f.lang, "lang", "l", "", "report language, overrides the file")
	fs.StringVar(&f.baseURL, "base-url", "", "origin for template assets")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "render timeout (e.g. 30s, 2m)")
	fs.StringVar(&f.schema, "schema", "", "token schema: grouped, flat")
	fs.BoolVar(&f.htmlOnly, "html", false, "write the filled HTML instead of a PDF")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: a4, letter, legal")
	fs.BoolVar(&f.landscape, "landscape", false, "landscape orientation")
	fs.Float64Var(&f.marginMM, "margin", 0, "page margin in mm (0-50, default 10)")
	fs.Float64Var(&f.scale, "scale", 0, "print scale (0.1-2)")
	fs.StringVar(&f.pageRanges, "pages", "", "page ranges, e.g. 1-2")

	if err := fs.Parse(args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return nil, "", fmt.Errorf("%w: render needs exactly one answers file", ErrUsage)
	}
	if f.timeout < 0 {
		return nil, "", fmt.Errorf("%w: --timeout must be positive", ErrUsage)
	}
	f.marginSet = fs.Changed("margin")
	return f, fs.Arg(0), nil
}
