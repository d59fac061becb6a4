package pipeline

import (
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// ResolveRefs rewrites img[src] and link[href] values so a document set as
// in-memory page content, which has no URL of its own, can still load them:
//   - root-relative ("/assets/report.css") resolves against baseURL
//   - relative ("img/logo.png") becomes a file:// URL under assetDir, or
//     resolves against baseURL when assetDir is empty
//
// Relative paths escaping assetDir are left as they are. Absolute URLs,
// anchors and data URIs are untouched, as is every byte outside a rewritten
// tag.
func ResolveRefs(htmlContent, baseURL, assetDir string) (string, error) {
	r, err := newRefResolver(baseURL, assetDir)
	if err != nil {
		return "", err
	}
	if r.base == nil && r.dir == "" {
		return htmlContent, nil
	}

	z := html.NewTokenizer(strings.NewReader(htmlContent))
	var b strings.Builder
	b.Grow(len(htmlContent))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String(), nil
			}
			return "", z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			// Token() lowercases names in the tokenizer's buffer, so the raw
			// bytes are copied first.
			raw := string(z.Raw())
			tok := z.Token()
			if r.rewrite(&tok) {
				b.WriteString(tok.String())
			} else {
				b.WriteString(raw)
			}

		default:
			b.Write(z.Raw())
		}
	}
}

type refResolver struct {
	base *url.URL
	dir  string
}

func newRefResolver(baseURL, assetDir string) (*refResolver, error) {
	r := &refResolver{}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err == nil && u.IsAbs() {
			if !strings.HasSuffix(u.Path, "/") {
				u.Path += "/"
			}
			r.base = u
		}
	}
	if assetDir != "" {
		abs, err := filepath.Abs(assetDir)
		if err != nil {
			return nil, err
		}
		r.dir = abs
	}
	return r, nil
}

// rewrite updates tok in place and reports whether anything changed.
func (r *refResolver) rewrite(tok *html.Token) bool {
	var key string
	switch tok.Data {
	case "img":
		key = "src"
	case "link":
		key = "href"
	default:
		return false
	}

	changed := false
	for i, attr := range tok.Attr {
		if attr.Key != key {
			continue
		}
		if v, ok := r.resolve(attr.Val); ok {
			tok.Attr[i].Val = v
			changed = true
		}
	}
	return changed
}

func (r *refResolver) resolve(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if !isLocalRef(ref) {
		return "", false
	}

	if !strings.HasPrefix(ref, "/") && r.dir != "" {
		abs := filepath.Join(r.dir, filepath.FromSlash(ref))
		if !isPathUnderDir(abs, r.dir) {
			return "", false
		}
		return pathToFileURL(abs), true
	}

	if r.base == nil {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	return r.base.ResolveReference(u).String(), true
}

// isLocalRef reports whether ref is a path rather than a URL or fragment.
func isLocalRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err != nil || u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(ref) || strings.HasPrefix(ref, "/")
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
