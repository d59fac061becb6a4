package hints

// Notes:
// - Browser hint tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable

import (
	"strings"
	"testing"
)

func stubContainer(t *testing.T, in bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return in }
}

func clearCIEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Setenv(k, "")
	}
}

func TestForExecutableNotFound(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		goos        string
		contains    []string
		notContains []string
	}{
		{
			name:     "nothing configured",
			goos:     "linux",
			contains: []string{"HEALTHPDF_BROWSER_BIN", "HEALTHPDF_ALLOW_DOWNLOAD", "apt install chromium"},
		},
		{
			name:        "rod override already set",
			env:         map[string]string{"ROD_BROWSER_BIN": "/x/chrome"},
			goos:        "darwin",
			contains:    []string{"brew"},
			notContains: []string{"HEALTHPDF_BROWSER_BIN"},
		},
		{
			name:        "download already allowed",
			env:         map[string]string{"HEALTHPDF_ALLOW_DOWNLOAD": "1"},
			goos:        "windows",
			contains:    []string{"google.com/chrome"},
			notContains: []string{"HEALTHPDF_ALLOW_DOWNLOAD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HEALTHPDF_BROWSER_BIN", "")
			t.Setenv("ROD_BROWSER_BIN", "")
			t.Setenv("HEALTHPDF_ALLOW_DOWNLOAD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			hint := ForExecutableNotFound(tt.goos)
			if !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("unexpected format: %q", hint)
			}
			for _, s := range tt.contains {
				if !strings.Contains(hint, s) {
					t.Errorf("hint %q missing %q", hint, s)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(hint, s) {
					t.Errorf("hint %q should not contain %q", hint, s)
				}
			}
		})
	}
}

func TestForBrowserLaunch_InContainer(t *testing.T) {
	stubContainer(t, true)
	clearCIEnv(t)
	t.Setenv("HEALTHPDF_BROWSER_BIN", "")

	hint := ForBrowserLaunch(nil)

	if !strings.Contains(hint, "libnss3") {
		t.Error("expected shared library suggestion in container")
	}
	if !strings.Contains(hint, "HEALTHPDF_BROWSER_BIN") {
		t.Error("expected override suggestion")
	}
}

func TestForBrowserLaunch_InCI(t *testing.T) {
	stubContainer(t, false)
	clearCIEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("HEALTHPDF_BROWSER_BIN", "")

	if hint := ForBrowserLaunch(nil); !strings.Contains(hint, "libnss3") {
		t.Errorf("expected shared library suggestion in CI, got %q", hint)
	}
}

func TestForBrowserLaunch_LibraryPath(t *testing.T) {
	stubContainer(t, false)
	clearCIEnv(t)
	t.Setenv("HEALTHPDF_BROWSER_BIN", "/opt/chrome")

	hint := ForBrowserLaunch([]string{"/tmp/al2/lib", "/opt/lib"})

	if !strings.Contains(hint, "/tmp/al2/lib:/opt/lib") {
		t.Errorf("expected library path in hint, got %q", hint)
	}
	if strings.Contains(hint, "HEALTHPDF_BROWSER_BIN") {
		t.Error("should not suggest override when already set")
	}
}

func TestForBrowserLaunch_AllConfigured(t *testing.T) {
	stubContainer(t, false)
	clearCIEnv(t)
	t.Setenv("HEALTHPDF_BROWSER_BIN", "/opt/chrome")

	if hint := ForBrowserLaunch(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{name: "empty paths", paths: nil, contains: "--config"},
		{name: "user config path", paths: []string{"./healthpdf.yaml", "/home/u/.config/healthpdf/healthpdf.yaml"}, contains: "or create /home/u/.config/healthpdf/healthpdf.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hint := ForConfigNotFound(tt.paths); !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForTemplateNotFound(t *testing.T) {
	if hint := ForTemplateNotFound(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	if hint := ForTemplateNotFound([]string{"en", "ar"}); !strings.Contains(hint, "en, ar") {
		t.Errorf("expected languages listed, got %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	for _, h := range []string{ForTimeout(), ForOutputDirectory(), ForStorage()} {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
