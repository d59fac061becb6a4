package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto c. getenv is usually
// os.Getenv. HEALTHPDF_* names win over the legacy unprefixed ones.
func ApplyEnv(c *Config, getenv func(string) string) error {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				return v
			}
		}
		return ""
	}

	if v := first("HEALTHPDF_ADDR"); v != "" {
		c.Server.Addr = v
	} else if v := first("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := first("HEALTHPDF_BASE_URL", "BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := first("HEALTHPDF_ALLOWED_ORIGINS", "ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	if v := first("HEALTHPDF_TIMEOUT"); v != "" {
		c.Render.Timeout = v
	}
	if v := first("HEALTHPDF_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HEALTHPDF_CONCURRENCY: %v", ErrInvalidValue, err)
		}
		c.Render.Concurrency = n
	}
	if v := first("HEALTHPDF_SCHEMA"); v != "" {
		c.Render.Schema = v
	}

	if v := first("HEALTHPDF_BROWSER_BIN", "ROD_BROWSER_BIN"); v != "" {
		c.Browser.Bin = v
	}
	if v := first("HEALTHPDF_ALLOW_DOWNLOAD"); v != "" {
		b, err := parseBool("HEALTHPDF_ALLOW_DOWNLOAD", v)
		if err != nil {
			return err
		}
		c.Browser.AllowDownload = b
	}
	if v := first("HEALTHPDF_BUNDLE_DIR"); v != "" {
		c.Browser.BundleDirs = splitList(v)
	}
	if v := first("HEALTHPDF_BUNDLE_EXECUTABLE"); v != "" {
		c.Browser.BundleExecutable = v
	}

	if v := first("HEALTHPDF_USE_LOCAL_STORAGE", "USE_LOCAL_STORAGE"); v != "" {
		b, err := parseBool("USE_LOCAL_STORAGE", v)
		if err != nil {
			return err
		}
		c.Storage.UseLocal = b
	}
	if v := first("HEALTHPDF_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := first("HEALTHPDF_S3_BUCKET", "PDF_STORAGE_BUCKET"); v != "" {
		c.Storage.Bucket = v
	}
	if v := first("HEALTHPDF_S3_REGION"); v != "" {
		c.Storage.Region = v
	}
	if v := first("HEALTHPDF_S3_PREFIX"); v != "" {
		c.Storage.Prefix = v
	}
	if v := first("HEALTHPDF_URL_EXPIRY"); v != "" {
		c.Storage.URLExpiry = v
	}

	if v := first("HEALTHPDF_ASSETS_PATH"); v != "" {
		c.Assets.BasePath = v
	}
	if v := first("HEALTHPDF_FONT_PATH"); v != "" {
		c.Assets.FontPath = v
	}
	if v := first("HEALTHPDF_STYLESHEET"); v != "" {
		c.Assets.Stylesheet = v
	}

	if v := first("HEALTHPDF_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := first("HEALTHPDF_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}

	return nil
}

// parseBool accepts strconv.ParseBool values plus yes/no.
func parseBool(key, v string) (bool, error) {
	switch strings.ToLower(v) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, v)
	}
	return b, nil
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
