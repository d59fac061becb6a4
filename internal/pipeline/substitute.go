package pipeline

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Supported template languages.
const (
	LangEnglish = "en"
	LangArabic  = "ar"
)

// DefaultBaseURL is used when neither the request nor the process supplies one.
const DefaultBaseURL = "http://localhost:3000"

// TypeBoolean is the answer type grouped into confirmed/denied lists.
const TypeBoolean = "boolean"

// noneItems holds the localized placeholder for an empty list.
var noneItems = map[string]string{
	LangEnglish: "None",
	LangArabic:  "لا يوجد",
}

// generatedAtLayouts formats the generation timestamp per language.
var generatedAtLayouts = map[string]string{
	LangEnglish: "January 2, 2006 15:04",
	LangArabic:  "2006/01/02 15:04",
}

// tokenPattern matches any placeholder left after substitution.
var tokenPattern = regexp.MustCompile(`\{\{[A-Za-z0-9_]+\}\}`)

// Answer is one questionnaire entry with its value already normalized.
type Answer struct {
	Key      string
	Question string
	Type     string
	Value    Scalar
}

// Data carries everything a schema may draw tokens from.
type Data struct {
	Answers        []Answer
	BaseURL        string    // per-request override
	DefaultBaseURL string    // process-wide default
	AssetPath      string    // absolute directory for file:// font URLs
	GeneratedAt    time.Time // zero renders MissingValue
}

// Substitution fills templates using a Schema.
type Substitution struct {
	Schema Schema
}

// NewSubstitution creates a Substitution for the given schema.
func NewSubstitution(schema Schema) *Substitution {
	return &Substitution{Schema: schema}
}

// Substitute replaces every occurrence of every token the schema defines,
// then replaces any token left over with MissingValue.
// It returns the final HTML and the names of tokens the schema did not know.
func (s *Substitution) Substitute(template, lang string, data *Data) (string, []string) {
	if data == nil {
		data = &Data{}
	}

	tokens := s.Schema.Tokens(lang, data)

	// Sorted for a deterministic replacer; tokens never overlap since each
	// one is delimited by braces.
	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		pairs = append(pairs, "{{"+name+"}}", tokens[name])
	}
	out := strings.NewReplacer(pairs...).Replace(template)

	var unresolved []string
	seen := map[string]bool{}
	out = tokenPattern.ReplaceAllStringFunc(out, func(tok string) string {
		if !seen[tok] {
			seen[tok] = true
			unresolved = append(unresolved, strings.Trim(tok, "{}"))
		}
		return MissingValue
	})

	return out, unresolved
}

// ResolveBaseURL picks the request URL, then the process default, then
// DefaultBaseURL. Trailing slashes are trimmed so templates can append paths.
func ResolveBaseURL(requested, processDefault string) string {
	for _, u := range []string{requested, processDefault} {
		if u = strings.TrimSpace(u); u != "" {
			return strings.TrimRight(u, "/")
		}
	}
	return DefaultBaseURL
}

// BuildLists splits boolean answers into escaped <li> items.
// An empty list renders the localized none item.
func BuildLists(lang string, answers []Answer) (trueList, falseList string) {
	var yes, no []string
	for _, a := range answers {
		if a.Type != TypeBoolean {
			continue
		}
		switch {
		case a.Value.IsTrue():
			yes = append(yes, a.Question)
		case a.Value.IsFalse():
			no = append(no, a.Question)
		}
	}
	return renderList(lang, yes), renderList(lang, no)
}

func renderList(lang string, items []string) string {
	if len(items) == 0 {
		return listItem(noneItem(lang))
	}

	var b strings.Builder
	for _, item := range items {
		b.WriteString(listItem(item))
	}
	return b.String()
}

func listItem(text string) string {
	return "<li>" + EscapeText(text) + "</li>"
}

// braceEscaper keeps inserted text from forming new {{TOKEN}} sequences.
var braceEscaper = strings.NewReplacer("{", "&#123;", "}", "&#125;")

// EscapeText escapes &, <, >, " and ' like html.EscapeString, and braces.
func EscapeText(s string) string {
	return braceEscaper.Replace(html.EscapeString(s))
}

func noneItem(lang string) string {
	if s, ok := noneItems[lang]; ok {
		return s
	}
	return noneItems[LangEnglish]
}

// LookupValue returns the display text of the first answer whose key matches
// one of keys (tried in order), or MissingValue.
func LookupValue(answers []Answer, keys ...string) string {
	for _, key := range keys {
		for _, a := range answers {
			if a.Key != "" && a.Key == key {
				return a.Value.Display()
			}
		}
	}
	return MissingValue
}

// formatGeneratedAt formats t for the language, or returns MissingValue.
func formatGeneratedAt(lang string, t time.Time) string {
	if t.IsZero() {
		return MissingValue
	}
	layout, ok := generatedAtLayouts[lang]
	if !ok {
		layout = generatedAtLayouts[LangEnglish]
	}
	return t.Format(layout)
}
