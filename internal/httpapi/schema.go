package httpapi

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// requestSchema describes POST /api/htmlpdf bodies. "language" and
// "answers" are accepted as aliases of "lang" and "report".
const requestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "lang":     {"type": "string", "maxLength": 35},
    "language": {"type": "string", "maxLength": 35},
    "baseUrl":  {"type": "string", "maxLength": 2048},
    "report":   {"$ref": "#/definitions/answers"},
    "answers":  {"$ref": "#/definitions/answers"}
  },
  "definitions": {
    "answers": {
      "type": "array",
      "maxItems": 500,
      "items": {
        "type": "object",
        "properties": {
          "key":      {"type": "string", "maxLength": 200},
          "question": {"type": "string", "maxLength": 2000},
          "type":     {"type": "string", "maxLength": 50}
        }
      }
    }
  }
}`

var compiledSchema = mustCompile(requestSchema)

func mustCompile(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("httpapi: invalid request schema: " + err.Error())
	}
	return s
}

// validateBody returns one message per schema violation, or nil.
func validateBody(body []byte) ([]string, error) {
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return msgs, nil
}

func joinDetails(msgs []string) string {
	return strings.Join(msgs, "; ")
}
