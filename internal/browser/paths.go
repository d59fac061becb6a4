package browser

import "path/filepath"

// systemPaths lists well-known browser installs per GOOS, probed in order.
var systemPaths = map[string][]string{
	"linux": {
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	},
	"darwin": {
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
	},
	"windows": {
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	},
}

// SystemPaths returns the candidate paths for goos, or nil.
func SystemPaths(goos string) []string {
	paths := systemPaths[goos]
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}

// DefaultBundleExecutable is where a serverless bundle unpacks its binary.
const DefaultBundleExecutable = "/tmp/chromium"

// DefaultBundleDirs returns the directories checked for a serverless bundle:
// the conventional layer mount and a chromium/ directory next to workDir.
func DefaultBundleDirs(workDir string) []string {
	dirs := []string{"/opt/chromium"}
	if workDir != "" {
		dirs = append(dirs, filepath.Join(workDir, "chromium"))
	}
	return dirs
}

// bundleLibraryDirs lists shared-library directories a bundled browser may
// need, in LD_LIBRARY_PATH priority order.
func bundleLibraryDirs(bundleDir string) []string {
	return []string{
		"/tmp/al2/lib",
		"/tmp/aws/lib",
		filepath.Join(bundleDir, "lib"),
		"/opt/lib",
	}
}

// ServerlessArgs are the extra launch flags used with a serverless bundle.
var ServerlessArgs = []string{
	"--disable-gpu",
	"--disable-dev-shm-usage",
	"--no-zygote",
	"--single-process",
	"--hide-scrollbars",
	"--mute-audio",
}
