// Package assets provides the HTML report templates and the static files they
// reference (logo, stylesheet).
//
// # Loader Architecture
//
//	TemplateLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in templates)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver tries the custom FilesystemLoader first and falls back to the
// EmbeddedLoader only when the template is not found. Validation and I/O
// errors are never masked by the fallback.
//
// # Directory Structure
//
//	{basePath}/
//	├── static/
//	│   └── logo.svg               # Served under /assets by the HTTP API
//	└── templates/
//	    └── {set}/
//	        ├── en.html            # English template
//	        └── ar.html            # Arabic template (rtl)
//
// Loaders do not interpret language codes. Callers normalize the language
// before asking for a template.
//
// # Security
//
// Set and language names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
