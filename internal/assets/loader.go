package assets

// TemplateLoader defines the contract for loading language-specific HTML templates.
type TemplateLoader interface {
	// LoadTemplate loads templates/{set}/{language}.html.
	// Returns ErrTemplateNotFound if the template is missing or unreadable.
	// Returns ErrInvalidAssetName if set or language contains invalid characters.
	LoadTemplate(set, language string) (string, error)
}

// Built-in template set names.
const (
	// ReportTemplateSet groups answers into confirmed/denied lists.
	ReportTemplateSet = "report"

	// SummaryTemplateSet shows flat demographic fields and symptom lists.
	SummaryTemplateSet = "summary"
)
