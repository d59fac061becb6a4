package pipeline

import "strings"

// InjectStylesheet inserts css as a <style> block into a filled template:
// before </head> when present, else right after the opening <body> tag, else
// at the front. Later rules win, so the block overrides the template's own
// stylesheet.
func InjectStylesheet(htmlContent, css string) string {
	if strings.TrimSpace(css) == "" {
		return htmlContent
	}

	block := "<style>" + sanitizeCSS(css) + "</style>"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}

	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(htmlContent[idx:], ">"); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + block + htmlContent[pos:]
		}
	}

	return block + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
