package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/alnah/go-healthpdf/internal/assets"
)

// fontFiles names the bundled font for each language, under <asset dir>/fonts.
var fontFiles = map[string]string{
	LangEnglish: "Inter-Regular.ttf",
	LangArabic:  "NotoNaskhArabic-Regular.ttf",
}

// Schema describes the token set of a family of templates.
type Schema struct {
	Name        string
	TemplateSet string
	build       func(lang string, d *Data) map[string]string
}

// Tokens returns token name to already-escaped value for the language.
func (s Schema) Tokens(lang string, d *Data) map[string]string {
	tokens := map[string]string{
		"BASE_URL":  EscapeText(ResolveBaseURL(d.BaseURL, d.DefaultBaseURL)),
		"FONT_PATH": EscapeText(d.AssetPath),
		"FONT_SRC":  FontSource(lang, d.AssetPath),
	}
	if s.build != nil {
		for k, v := range s.build(lang, d) {
			tokens[k] = v
		}
	}
	return tokens
}

// FontSource returns the url() entry appended to an @font-face src list
// after its local() entry. Without a font directory it is empty, leaving the
// locally installed font as the only source.
func FontSource(lang, dir string) string {
	if dir == "" {
		return ""
	}
	file, ok := fontFiles[lang]
	if !ok {
		file = fontFiles[LangEnglish]
	}
	p := filepath.ToSlash(filepath.Join(dir, "fonts", file))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return `, url("` + u.String() + `") format("truetype")`
}

// SchemaGrouped renders boolean answers as confirmed/denied lists next to a
// few scalar fields. This is the default report layout.
var SchemaGrouped = Schema{
	Name:        "grouped",
	TemplateSet: assets.ReportTemplateSet,
	build: func(lang string, d *Data) map[string]string {
		trueList, falseList := BuildLists(lang, d.Answers)
		return map[string]string{
			"howOld":     escapedValue(d.Answers, "howOld"),
			"smokeYears": escapedValue(d.Answers, "smokeYears"),
			"packYears":  escapedValue(d.Answers, "packYears"),
			"trueList":   trueList,
			"falseList":  falseList,
		}
	},
}

// SchemaFlat renders demographic fields and symptom lists with a timestamp.
var SchemaFlat = Schema{
	Name:        "flat",
	TemplateSet: assets.SummaryTemplateSet,
	build: func(lang string, d *Data) map[string]string {
		yes, no := BuildLists(lang, d.Answers)
		return map[string]string{
			"AGE":          escapedValue(d.Answers, "age", "howOld"),
			"GENDER":       escapedValue(d.Answers, "gender"),
			"SMOKER":       escapedValue(d.Answers, "smoker", "smokingStatus"),
			"CAREGIVER":    escapedValue(d.Answers, "caregiver"),
			"SYMPTOMS_YES": yes,
			"SYMPTOMS_NO":  no,
			"GENERATED_AT": EscapeText(formatGeneratedAt(lang, d.GeneratedAt)),
		}
	},
}

// SchemaByName returns the schema registered under name.
func SchemaByName(name string) (Schema, bool) {
	switch name {
	case SchemaGrouped.Name, "":
		return SchemaGrouped, true
	case SchemaFlat.Name:
		return SchemaFlat, true
	}
	return Schema{}, false
}

func escapedValue(answers []Answer, keys ...string) string {
	return EscapeText(LookupValue(answers, keys...))
}
