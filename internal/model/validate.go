package model

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(resumeSchema)

// Validate checks a raw record against the resume schema and returns one
// message per violation. Violations are advisory: normalization still
// produces a usable record.
func Validate(raw map[string]any) ([]string, error) {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if res.Valid() {
		return nil, nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return msgs, nil
}
