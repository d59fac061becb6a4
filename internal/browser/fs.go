package browser

import "os"

// FS reports what exists on disk. Tests substitute a fake.
type FS interface {
	IsFile(path string) bool
	IsDir(path string) bool
}

// OSFS checks the real filesystem, following symlinks.
type OSFS struct{}

// IsFile reports whether path exists and is not a directory.
func (OSFS) IsFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsDir reports whether path exists and is a directory.
func (OSFS) IsDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
