package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: healthpdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the HTTP API")
	fmt.Fprintln(w, "  render     Render an answers file to PDF")
	fmt.Fprintln(w, "  doctor     Check browser discovery and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'healthpdf help <command>' for details on a specific command.")
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: healthpdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP API (POST /api/htmlpdf, GET /health, /metrics).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default :3000, env PORT)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: healthpdf render <answers.json> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one answers file. The file holds {\"lang\", \"report\": [...]}")
	fmt.Fprintln(w, "or a bare array of answers.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file")
	fmt.Fprintln(w, "  -l, --lang <s>            Language: en, ar, ar-AE, ...")
	fmt.Fprintln(w, "      --base-url <url>      Origin for template assets")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout (e.g. 30s)")
	fmt.Fprintln(w, "      --schema <s>          Token schema: grouped, flat")
	fmt.Fprintln(w, "      --html                Write filled HTML, skip the browser")
	fmt.Fprintln(w, "  -p, --page-size <s>       a4, letter, legal")
	fmt.Fprintln(w, "      --landscape           Landscape orientation")
	fmt.Fprintln(w, "      --margin <mm>         Margin in mm (0-50)")
	fmt.Fprintln(w, "      --scale <f>           Print scale (0.1-2)")
	fmt.Fprintln(w, "      --pages <s>           Page ranges, e.g. 1-2")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: healthpdf doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show which browser would be used and why, plus environment checks.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: healthpdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: healthpdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
