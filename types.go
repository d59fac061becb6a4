package healthpdf

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alnah/go-healthpdf/internal/pipeline"
)

// Supported document languages.
const (
	LangEnglish = pipeline.LangEnglish
	LangArabic  = pipeline.LangArabic
)

// NormalizeLanguage maps a request language to a template language.
// "ar" and any "ar-*" region variant (case-insensitive) select Arabic;
// everything else, including empty input, selects English.
func NormalizeLanguage(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	if l == LangArabic || strings.HasPrefix(l, LangArabic+"-") || strings.HasPrefix(l, LangArabic+"_") {
		return LangArabic
	}
	return LangEnglish
}

// localeFlag returns the browser --lang value for a template language.
func localeFlag(lang string) string {
	if lang == LangArabic {
		return "ar"
	}
	return "en-US"
}

// AnswerRecord is one questionnaire answer as received on the wire.
// Value may be a JSON scalar, an object with a "value" member, or a string
// holding such an object.
type AnswerRecord struct {
	Key      string          `json:"key,omitempty"`
	Question string          `json:"question,omitempty"`
	Type     string          `json:"type,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// NewAnswer builds an AnswerRecord from a Go value.
func NewAnswer(key, question, typ string, value any) (AnswerRecord, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return AnswerRecord{}, fmt.Errorf("%w: %s: %v", ErrInvalidAnswer, key, err)
	}
	return AnswerRecord{Key: key, Question: question, Type: typ, Value: raw}, nil
}

// Scalar returns the normalized value.
func (a AnswerRecord) Scalar() pipeline.Scalar {
	return pipeline.NormalizeValue(a.Value)
}

func (a AnswerRecord) toPipeline() pipeline.Answer {
	return pipeline.Answer{
		Key:      a.Key,
		Question: a.Question,
		Type:     a.Type,
		Value:    a.Scalar(),
	}
}

// RenderRequest is one document to produce.
type RenderRequest struct {
	Language string         // normalized with NormalizeLanguage
	Answers  []AnswerRecord // order is preserved in lists
	BaseURL  string         // overrides the converter's base URL
	PDF      *PDFOptions    // nil = A4 portrait, 10mm margins
	HTMLOnly bool           // skip the browser
}

// Validate checks the request before any browser work. An empty answer set
// is valid and renders placeholders. Answers need no key: boolean answers
// are grouped by type and value only.
func (r *RenderRequest) Validate() error {
	return r.PDF.Validate()
}

// RenderedDocument is the outcome of a render.
type RenderedDocument struct {
	PDF        []byte
	HTML       string
	Language   string
	Unresolved []string // template tokens nothing supplied a value for
}

// Size returns the PDF length in bytes.
func (d *RenderedDocument) Size() int {
	return len(d.PDF)
}

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// pageDimensions holds width and height in inches for portrait orientation.
var pageDimensions = map[string][2]float64{
	PageSizeA4:     {8.27, 11.69},
	PageSizeLetter: {8.5, 11},
	PageSizeLegal:  {8.5, 14},
}

// Margin and scale bounds.
const (
	DefaultMarginMM = 10
	MaxMarginMM     = 50
	MinScale        = 0.1
	MaxScale        = 2
)

// Margins holds page margins in millimetres.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// UniformMargins returns mm on every side.
func UniformMargins(mm float64) *Margins {
	return &Margins{Top: mm, Right: mm, Bottom: mm, Left: mm}
}

// PDFOptions overrides the print settings. Zero values keep the defaults,
// except inside Margins where 0 means no margin.
type PDFOptions struct {
	Size         string   // "a4" (default), "letter", "legal"
	Landscape    bool
	Margins      *Margins // nil = DefaultMarginMM on every side
	Scale        float64  // 0 = 1
	PageRanges   string   // e.g. "1-2"; empty = all pages
	NoBackground bool     // omit CSS backgrounds
}

// Validate checks option ranges. A nil receiver is valid.
func (o *PDFOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.Size != "" {
		if _, ok := pageDimensions[strings.ToLower(o.Size)]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidPageSize, o.Size)
		}
	}
	if m := o.Margins; m != nil {
		for _, side := range []struct {
			name string
			mm   float64
		}{{"top", m.Top}, {"right", m.Right}, {"bottom", m.Bottom}, {"left", m.Left}} {
			if side.mm < 0 || side.mm > MaxMarginMM {
				return fmt.Errorf("%w: %s %.1fmm (must be between 0 and %d)", ErrInvalidMargin, side.name, side.mm, MaxMarginMM)
			}
		}
	}
	if o.Scale != 0 && (o.Scale < MinScale || o.Scale > MaxScale) {
		return fmt.Errorf("%w: %.2f (must be between %.1f and %.0f)", ErrInvalidScale, o.Scale, MinScale, float64(MaxScale))
	}
	return nil
}

// printSettings is PDFOptions resolved to concrete values.
type printSettings struct {
	WidthIn, HeightIn float64
	MarginIn          Margins // inches
	Landscape         bool
	Scale             float64
	PageRanges        string
	Background        bool
}

func (o *PDFOptions) resolve() printSettings {
	s := printSettings{
		WidthIn:    pageDimensions[PageSizeA4][0],
		HeightIn:   pageDimensions[PageSizeA4][1],
		MarginIn:   toInches(*UniformMargins(DefaultMarginMM)),
		Scale:      1,
		Background: true,
	}
	if o == nil {
		return s
	}
	if dims, ok := pageDimensions[strings.ToLower(o.Size)]; ok {
		s.WidthIn, s.HeightIn = dims[0], dims[1]
	}
	if o.Margins != nil {
		s.MarginIn = toInches(*o.Margins)
	}
	if o.Scale > 0 {
		s.Scale = o.Scale
	}
	s.Landscape = o.Landscape
	s.PageRanges = o.PageRanges
	s.Background = !o.NoBackground
	return s
}

func toInches(m Margins) Margins {
	const mmPerInch = 25.4
	return Margins{
		Top:    m.Top / mmPerInch,
		Right:  m.Right / mmPerInch,
		Bottom: m.Bottom / mmPerInch,
		Left:   m.Left / mmPerInch,
	}
}
