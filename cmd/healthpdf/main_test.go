package main

// Notes:
// - runMain is tested through exit codes and output. Tests that call it are
//   not parallel because maxprocs.Set adjusts process-wide state.
// - render is exercised with --html so no browser is needed; browser
//   rendering is covered by the root package's integration tests.
// - serve is tested through serveHTTP with a loopback listener.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

// testEnv returns an Environment with captured output and a fixed getenv.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return testNow },
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
	}, &stdout, &stderr
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestRunMain_Commands(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"healthpdf"}, ExitUsage, "", "Usage: healthpdf"},
		{"unknown command", []string{"healthpdf", "bogus"}, ExitUsage, "", "Unknown command: bogus"},
		{"version", []string{"healthpdf", "version"}, ExitSuccess, "healthpdf " + Version, ""},
		{"help", []string{"healthpdf", "help"}, ExitSuccess, "Commands:", ""},
		{"help render", []string{"healthpdf", "help", "render"}, ExitSuccess, "answers.json", ""},
		{"render without file", []string{"healthpdf", "render"}, ExitUsage, "", "exactly one answers file"},
		{"render bad flag", []string{"healthpdf", "render", "--nope", "a.json"}, ExitUsage, "", "unknown flag"},
		{"serve extra arg", []string{"healthpdf", "serve", "extra"}, ExitUsage, "", "no arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, stdout, stderr := testEnv(nil)
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunMain_RenderHTML(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "answers.json", `{
		"lang": "ar-AE",
		"report": [
			{"key": "howOld", "question": "How old are you?", "value": "{\"value\": 45}"},
			{"key": "weight", "value": 80}
		]
	}`)
	out := filepath.Join(dir, "nested", "report.html")

	env, stdout, stderr := testEnv(map[string]string{"HEALTHPDF_LOG_LEVEL": "error"})
	code := runMain([]string{"healthpdf", "render", input, "--html", "-o", out}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	html, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(html), `dir="rtl"`) {
		t.Error("Arabic output should be right-to-left")
	}
	if !strings.Contains(string(html), "45") {
		t.Error("output should contain the unwrapped age")
	}
	if !strings.Contains(stdout.String(), out) {
		t.Errorf("stdout should name the output file, got %q", stdout.String())
	}
}

func TestRunMain_RenderKeylessAnswers(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "answers.json", `[{"question": "Cough?", "type": "boolean", "value": true}]`)
	out := filepath.Join(dir, "report.html")

	env, _, stderr := testEnv(map[string]string{"HEALTHPDF_LOG_LEVEL": "error"})
	code := runMain([]string{"healthpdf", "render", input, "--html", "--lang", "en", "-o", out}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	html, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(html), "<li>Cough?</li>") {
		t.Error("keyless boolean answer should be listed")
	}
}

func TestRunMain_RenderDefaultOutputName(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "answers.json", `[{"key": "smoker", "value": false}]`)

	t.Chdir(dir)

	env, _, stderr := testEnv(map[string]string{"HEALTHPDF_LOG_LEVEL": "error"})
	code := runMain([]string{"healthpdf", "render", input, "--html", "--lang", "en"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	want := filepath.Join(dir, "health-report-en-1772357400000.html")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected %s: %v", want, err)
	}
}

func TestRunMain_RenderErrors(t *testing.T) {
	dir := t.TempDir()
	badJSON := writeFile(t, dir, "bad.json", `{"report": [`)
	good := writeFile(t, dir, "good.json", `{"report": []}`)

	tests := []struct {
		name     string
		args     []string
		vars     map[string]string
		wantCode int
	}{
		{"missing file", []string{"render", filepath.Join(dir, "missing.json"), "--html"}, nil, ExitIO},
		{"malformed json", []string{"render", badJSON, "--html"}, nil, ExitUsage},
		{"unknown schema", []string{"render", good, "--html", "--schema", "nested"}, nil, ExitUsage},
		{"bad page size", []string{"render", good, "--html", "--page-size", "a3"}, nil, ExitUsage},
		{"bad env", []string{"render", good, "--html"}, map[string]string{"HEALTHPDF_CONCURRENCY": "many"}, ExitUsage},
		{"missing config", []string{"render", good, "--html", "--config", "nope-healthpdf-test"}, nil, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _, stderr := testEnv(tt.vars)
			code := runMain(append([]string{"healthpdf"}, tt.args...), env)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
		})
	}
}

func TestRunMain_MissingConfigHint(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"report": []}`)

	env, _, stderr := testEnv(nil)
	runMain([]string{"healthpdf", "render", good, "--config", "nope-healthpdf-test"}, env)

	if !strings.Contains(stderr.String(), "hint: use --config") {
		t.Errorf("stderr should carry a config hint, got %q", stderr.String())
	}
}
