// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-healthpdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// installHints maps GOOS to a package-manager suggestion.
var installHints = map[string]string{
	"linux":   "install chromium (apt install chromium / apk add chromium)",
	"darwin":  "install Google Chrome or run: brew install --cask chromium",
	"windows": "install Google Chrome from https://www.google.com/chrome/",
}

// ForExecutableNotFound returns hints for a failed browser lookup.
func ForExecutableNotFound(goos string) string {
	var hints []string

	if os.Getenv("HEALTHPDF_BROWSER_BIN") == "" && os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set HEALTHPDF_BROWSER_BIN to a Chrome/Chromium executable")
	}
	if os.Getenv("HEALTHPDF_ALLOW_DOWNLOAD") == "" {
		hints = append(hints, "set HEALTHPDF_ALLOW_DOWNLOAD=1 to fetch a managed browser")
	}
	if h, ok := installHints[goos]; ok {
		hints = append(hints, h)
	}

	return formatHints(hints)
}

// ForBrowserLaunch returns hints for a browser that was found but would not
// start. libraryPath is the shared-library search path handed to it, if any.
func ForBrowserLaunch(libraryPath []string) string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if inCI || IsInContainer() {
		hints = append(hints, "install the browser's shared libraries (libnss3, libgbm1, libasound2)")
	}

	if len(libraryPath) > 0 {
		hints = append(hints, "bundle libraries searched in "+strings.Join(libraryPath, ":"))
	}

	if os.Getenv("HEALTHPDF_BROWSER_BIN") == "" {
		hints = append(hints, "set HEALTHPDF_BROWSER_BIN to try another executable")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for slow asset hosts, use --timeout or HEALTHPDF_TIMEOUT")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/healthpdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/healthpdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStorage returns hints for blob storage failures.
func ForStorage() string {
	return format("check PDF_STORAGE_BUCKET and AWS credentials, or set USE_LOCAL_STORAGE=true")
}

// ForTemplateNotFound returns hints listing the languages templates exist for.
func ForTemplateNotFound(languages []string) string {
	if len(languages) == 0 {
		return ""
	}
	return format("available languages: " + strings.Join(languages, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
