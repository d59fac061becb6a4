package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alnah/go-healthpdf/internal/browser"
	"github.com/alnah/go-healthpdf/internal/config"
	"github.com/alnah/go-healthpdf/internal/fileutil"
	"github.com/alnah/go-healthpdf/internal/hints"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Browser  browserInfo `json:"browser"`
	Env      envInfo     `json:"environment"`
	Storage  storageInfo `json:"storage"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// browserInfo holds the locator outcome.
type browserInfo struct {
	Found         bool     `json:"found"`
	Source        string   `json:"source,omitempty"`
	Path          string   `json:"path,omitempty"`
	Version       string   `json:"version,omitempty"`
	LibraryPath   []string `json:"library_path,omitempty"`
	Args          []string `json:"args,omitempty"`
	AllowDownload bool     `json:"allow_download"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	BrowserBin    string `json:"browser_bin,omitempty"`
}

// storageInfo summarizes where PDFs would go.
type storageInfo struct {
	Backend string `json:"backend"`
	Target  string `json:"target"`
	Exists  bool   `json:"exists,omitempty"` // local only; the dir is created on first save
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorDeps are the pieces of doctor that touch the machine.
type doctorDeps struct {
	resolve func(browser.Hints) (browser.Resolution, bool)
	version func(path string) (string, error)
}

func defaultDoctorDeps() doctorDeps {
	return doctorDeps{
		resolve: browser.NewLocator().Resolve,
		version: browserVersion,
	}
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad config.
func runDoctorCmd(args []string, env *Environment) int {
	return runDoctorWith(args, env, defaultDoctorDeps())
}

func runDoctorWith(args []string, env *Environment, deps doctorDeps) int {
	jsonOutput := false
	var common commonFlags
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--json":
			jsonOutput = true
		case (args[i] == "--config" || args[i] == "-c") && i+1 < len(args):
			common.config = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--config="):
			common.config = strings.TrimPrefix(args[i], "--config=")
		}
	}

	cfg, err := loadSettings(common, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}

	result := runDoctor(cfg, env, deps)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, env *Environment, deps doctorDeps) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			BrowserBin: cfg.Browser.Bin,
		},
	}

	checkBrowser(result, cfg, deps)
	checkEnvironment(result, env)
	checkStorage(result, cfg)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkBrowser runs the same discovery a render would.
func checkBrowser(result *doctorResult, cfg *config.Config, deps doctorDeps) {
	result.Browser.AllowDownload = cfg.Browser.AllowDownload

	h := browserHints(cfg)
	if h.ExecutablePath != "" {
		if _, err := os.Stat(h.ExecutablePath); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Configured browser %s not found, falling back to discovery", h.ExecutablePath))
		}
	}

	r, ok := deps.resolve(h)
	if !ok {
		msg := "No Chrome/Chromium executable found" +
			strings.ReplaceAll(hints.ForExecutableNotFound(runtime.GOOS), "\n  hint:", ";")
		if cfg.Browser.AllowDownload {
			result.Warnings = append(result.Warnings, "No local browser; one will be downloaded on first render")
			return
		}
		result.Errors = append(result.Errors, msg)
		return
	}

	result.Browser.Found = true
	result.Browser.Source = string(r.Source)
	result.Browser.Path = r.Path
	result.Browser.LibraryPath = r.LibraryPath
	result.Browser.Args = r.Args

	v, err := deps.version(r.Path)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get browser version: %v", err))
		return
	}
	result.Browser.Version = v
}

// browserVersion runs "<path> --version".
func browserVersion(path string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- path comes from discovery
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env.Getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Env.Container && result.Browser.Source == string(browser.SourceSystem) {
		result.Warnings = append(result.Warnings,
			"Container detected: make sure the browser's shared libraries are installed (libnss3, libgbm1)")
	}
}

// isContainer reports whether we run in a container and which signal said so.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("HEALTHPDF_CONTAINER") == "1" {
		return true, "HEALTHPDF_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	if getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return true, "AWS_LAMBDA_FUNCTION_NAME"
	}
	return false, ""
}

// checkStorage reports the backend storage.Select would pick.
func checkStorage(result *doctorResult, cfg *config.Config) {
	if cfg.Storage.UseLocal || cfg.Storage.Bucket == "" {
		result.Storage = storageInfo{
			Backend: "local",
			Target:  cfg.Storage.Dir,
			Exists:  fileutil.DirExists(cfg.Storage.Dir),
		}
		return
	}
	target := "s3://" + cfg.Storage.Bucket
	if cfg.Storage.Prefix != "" {
		target += "/" + strings.Trim(cfg.Storage.Prefix, "/")
	}
	result.Storage = storageInfo{Backend: "s3", Target: target}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "healthpdf-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "healthpdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Browser")
	if r.Browser.Found {
		fmt.Fprintf(w, "  [OK] Found at %s (%s)\n", r.Browser.Path, r.Browser.Source)
		if r.Browser.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Browser.Version)
		}
		if len(r.Browser.LibraryPath) > 0 {
			fmt.Fprintf(w, "  [OK] Library path: %s\n", strings.Join(r.Browser.LibraryPath, ":"))
		}
	} else if r.Browser.AllowDownload {
		fmt.Fprintln(w, "  [WARN] Not found, download enabled")
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Storage")
	fmt.Fprintf(w, "  [OK] Backend: %s (%s)\n", r.Storage.Backend, r.Storage.Target)
	if r.Storage.Backend == "local" && !r.Storage.Exists {
		fmt.Fprintln(w, "  [OK] Directory: created on first save")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to render")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
