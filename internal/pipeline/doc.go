// Package pipeline implements the answer-to-HTML stage of report generation.
//
// This package handles:
//   - Answer value normalization (raw and JSON-string-wrapped encodings)
//   - Grouping boolean answers into confirmed/denied list items
//   - Scalar field extraction by answer key
//   - Token substitution over a language-specific HTML template
//   - Resolving relative asset references for an in-memory page
//   - Injecting an optional extra stylesheet
//
// Every {{TOKEN}} in a template is replaced. Values the schema cannot supply
// become an explicit placeholder, so the HTML handed to the browser never
// contains a literal token. All answer text is HTML-escaped before insertion.
//
// PDF generation is handled separately by the root healthpdf package using
// headless Chrome (go-rod).
package pipeline
