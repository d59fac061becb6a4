package pipeline

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-healthpdf/internal/assets"
)

func answer(key, question, typ, raw string) Answer {
	return Answer{Key: key, Question: question, Type: typ, Value: NormalizeValue(json.RawMessage(raw))}
}

func TestBuildLists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lang      string
		answers   []Answer
		wantTrue  string
		wantFalse string
	}{
		{
			name:      "empty english",
			lang:      LangEnglish,
			wantTrue:  "<li>None</li>",
			wantFalse: "<li>None</li>",
		},
		{
			name:      "empty arabic",
			lang:      LangArabic,
			wantTrue:  "<li>لا يوجد</li>",
			wantFalse: "<li>لا يوجد</li>",
		},
		{
			name:      "unknown language degrades to english none",
			lang:      "fr",
			wantTrue:  "<li>None</li>",
			wantFalse: "<li>None</li>",
		},
		{
			name: "groups by value and keeps order",
			lang: LangEnglish,
			answers: []Answer{
				answer("", "Cough?", TypeBoolean, "true"),
				answer("", "Fever?", TypeBoolean, "false"),
				answer("", "Night sweats?", TypeBoolean, `"{\"value\": true}"`),
			},
			wantTrue:  "<li>Cough?</li><li>Night sweats?</li>",
			wantFalse: "<li>Fever?</li>",
		},
		{
			name: "non boolean types are ignored",
			lang: LangEnglish,
			answers: []Answer{
				answer("howOld", "Age?", "number", "62"),
				answer("", "Notes", "text", "true"),
			},
			wantTrue:  "<li>None</li>",
			wantFalse: "<li>None</li>",
		},
		{
			name: "boolean with non boolean value is ignored",
			lang: LangEnglish,
			answers: []Answer{
				answer("", "Cough?", TypeBoolean, `"yes"`),
			},
			wantTrue:  "<li>None</li>",
			wantFalse: "<li>None</li>",
		},
		{
			name: "questions are escaped",
			lang: LangEnglish,
			answers: []Answer{
				answer("", `<b>"Pain" & 'ache'</b>`, TypeBoolean, "true"),
			},
			wantTrue:  "<li>&lt;b&gt;&#34;Pain&#34; &amp; &#39;ache&#39;&lt;/b&gt;</li>",
			wantFalse: "<li>None</li>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotTrue, gotFalse := BuildLists(tt.lang, tt.answers)
			if gotTrue != tt.wantTrue {
				t.Errorf("trueList = %q, want %q", gotTrue, tt.wantTrue)
			}
			if gotFalse != tt.wantFalse {
				t.Errorf("falseList = %q, want %q", gotFalse, tt.wantFalse)
			}
		})
	}
}

func TestResolveBaseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		requested string
		process   string
		want      string
	}{
		{name: "request wins", requested: "https://a.example", process: "https://b.example", want: "https://a.example"},
		{name: "process default", process: "https://b.example/", want: "https://b.example"},
		{name: "literal fallback", want: DefaultBaseURL},
		{name: "blank request ignored", requested: "  ", process: "https://b.example", want: "https://b.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolveBaseURL(tt.requested, tt.process); got != tt.want {
				t.Errorf("ResolveBaseURL(%q, %q) = %q, want %q", tt.requested, tt.process, got, tt.want)
			}
		})
	}
}

func TestSubstitute_ReplacesEveryOccurrence(t *testing.T) {
	t.Parallel()

	s := NewSubstitution(SchemaGrouped)
	tmpl := "<p>{{howOld}}</p><p>{{howOld}}</p><img src=\"{{BASE_URL}}/a.png\">{{BASE_URL}}"

	got, unresolved := s.Substitute(tmpl, LangEnglish, &Data{
		Answers: []Answer{answer("howOld", "Age", "number", `"62"`)},
		BaseURL: "https://cdn.example",
	})

	want := `<p>62</p><p>62</p><img src="https://cdn.example/a.png">https://cdn.example`
	if got != want {
		t.Errorf("Substitute() = %q, want %q", got, want)
	}
	if len(unresolved) != 0 {
		t.Errorf("unresolved = %v, want none", unresolved)
	}
}

func TestSubstitute_ScalarEncodingsAgree(t *testing.T) {
	t.Parallel()

	s := NewSubstitution(SchemaGrouped)

	wrapped, _ := s.Substitute("{{howOld}}", LangEnglish, &Data{
		Answers: []Answer{answer("howOld", "Age", "number", `"{\"value\": 45}"`)},
	})
	raw, _ := s.Substitute("{{howOld}}", LangEnglish, &Data{
		Answers: []Answer{answer("howOld", "Age", "number", `"45"`)},
	})

	if wrapped != "45" || raw != "45" {
		t.Errorf("wrapped = %q, raw = %q, want 45", wrapped, raw)
	}
}

func TestSubstitute_UnknownTokensUsePlaceholder(t *testing.T) {
	t.Parallel()

	s := NewSubstitution(SchemaGrouped)
	got, unresolved := s.Substitute("{{packYears}} {{MYSTERY}} {{MYSTERY}} {{ spaced }}", LangEnglish, nil)

	if got != "- - - {{ spaced }}" {
		t.Errorf("Substitute() = %q", got)
	}
	if len(unresolved) != 1 || unresolved[0] != "MYSTERY" {
		t.Errorf("unresolved = %v, want [MYSTERY]", unresolved)
	}
}

func TestSubstitute_FlatSchema(t *testing.T) {
	t.Parallel()

	s := NewSubstitution(SchemaFlat)
	tmpl := "{{AGE}}|{{GENDER}}|{{SMOKER}}|{{CAREGIVER}}|{{SYMPTOMS_YES}}|{{SYMPTOMS_NO}}|{{GENERATED_AT}}"

	got, _ := s.Substitute(tmpl, LangEnglish, &Data{
		Answers: []Answer{
			answer("howOld", "Age", "number", "62"),
			answer("gender", "Gender", "choice", `{"value": "Male"}`),
			answer("caregiver", "Caregiver", "text", `"Daughter: 20"`),
			answer("", "Worsening cough", TypeBoolean, "true"),
		},
		GeneratedAt: time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC),
	})

	want := "62|Male|-|Daughter: 20|<li>Worsening cough</li>|<li>None</li>|March 4, 2025 09:30"
	if got != want {
		t.Errorf("Substitute() = %q, want %q", got, want)
	}
}

func TestSchemaByName(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]string{"": "grouped", "grouped": "grouped", "flat": "flat"} {
		got, ok := SchemaByName(name)
		if !ok || got.Name != want {
			t.Errorf("SchemaByName(%q) = %q, %v; want %q", name, got.Name, ok, want)
		}
	}
	if _, ok := SchemaByName("other"); ok {
		t.Error("SchemaByName(other) should fail")
	}
}

// hostileText returns strings mixing markup, quotes, ampersands, braces and
// arabic text.
func hostileText(r *rand.Rand) string {
	parts := []string{"<script>", "</li>", `"`, "'", "&", "&amp;", "{{trueList}}", "{{", "}}", "سعال", "cough", " ", "<img onerror=x>"}
	var b strings.Builder
	for i := 0; i < 1+r.Intn(6); i++ {
		b.WriteString(parts[r.Intn(len(parts))])
	}
	return b.String()
}

func TestSubstitute_EmbeddedTemplatesFullyResolved(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(7))
	keys := []string{"", "howOld", "smokeYears", "packYears", "age", "gender", "smoker", "caregiver"}
	types := []string{TypeBoolean, "number", "text", "choice"}
	values := []string{"true", "false", `"62"`, `"{\"value\": 3}"`, `{"value": "x"}`, "null", `"{broken"`}

	for i := 0; i < 200; i++ {
		var answers []Answer
		for j := 0; j < r.Intn(8); j++ {
			raw := values[r.Intn(len(values))]
			if r.Intn(3) == 0 {
				b, _ := json.Marshal(hostileText(r))
				raw = string(b)
			}
			answers = append(answers, answer(keys[r.Intn(len(keys))], hostileText(r), types[r.Intn(len(types))], raw))
		}

		for _, schema := range []Schema{SchemaGrouped, SchemaFlat} {
			for _, lang := range []string{LangEnglish, LangArabic} {
				tmpl, err := assets.LoadTemplate(schema.TemplateSet, lang)
				if err != nil {
					t.Fatalf("LoadTemplate(%q, %q) error = %v", schema.TemplateSet, lang, err)
				}

				got, unresolved := NewSubstitution(schema).Substitute(tmpl, lang, &Data{Answers: answers})

				name := fmt.Sprintf("iteration %d schema %s lang %s", i, schema.Name, lang)
				if tokenPattern.MatchString(got) {
					t.Fatalf("%s: token left in output: %q", name, tokenPattern.FindString(got))
				}
				if len(unresolved) != 0 {
					t.Fatalf("%s: template uses tokens the schema lacks: %v", name, unresolved)
				}
				for _, bad := range []string{"<script>", "<img onerror", `"'`} {
					if strings.Contains(got, bad) {
						t.Fatalf("%s: unescaped user text %q in output", name, bad)
					}
				}
			}
		}
	}
}

func TestFontSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang string
		dir  string
		want string
	}{
		{name: "no font dir", lang: LangEnglish, dir: "", want: ""},
		{name: "english", lang: LangEnglish, dir: "/srv/assets", want: `, url("file:///srv/assets/fonts/Inter-Regular.ttf") format("truetype")`},
		{name: "arabic", lang: LangArabic, dir: "/srv/assets", want: `, url("file:///srv/assets/fonts/NotoNaskhArabic-Regular.ttf") format("truetype")`},
		{name: "quote in dir is escaped", lang: LangEnglish, dir: `/srv/a"b`, want: `, url("file:///srv/a%22b/fonts/Inter-Regular.ttf") format("truetype")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FontSource(tt.lang, tt.dir); got != tt.want {
				t.Errorf("FontSource(%q, %q) = %q, want %q", tt.lang, tt.dir, got, tt.want)
			}
		})
	}
}

func TestSubstitute_EmbeddedTemplatesWithoutFontDir(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{LangEnglish, LangArabic} {
		tmpl, err := assets.LoadTemplate(SchemaGrouped.TemplateSet, lang)
		if err != nil {
			t.Fatal(err)
		}
		got, _ := NewSubstitution(SchemaGrouped).Substitute(tmpl, lang, &Data{})
		if strings.Contains(got, "file://") {
			t.Errorf("%s: font url emitted without a font directory", lang)
		}
		if !strings.Contains(got, `src: local(`) {
			t.Errorf("%s: local() font source missing", lang)
		}
	}
}

func TestEscapeText(t *testing.T) {
	t.Parallel()

	got := EscapeText(`<a href="x">{{trueList}} & 'b'</a>`)
	want := "&lt;a href=&#34;x&#34;&gt;&#123;&#123;trueList&#125;&#125; &amp; &#39;b&#39;&lt;/a&gt;"
	if got != want {
		t.Errorf("EscapeText() = %q, want %q", got, want)
	}
}
