// Package schema validates page payloads and import maps against the JSON
// Schemas that document their wire shape.
package schema

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed page.schema.json
	PageSchema []byte

	//go:embed import-map.schema.json
	ImportMapSchema []byte
)

type Violation struct {
	Field       string
	Description string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Description
}

func ValidatePage(data []byte) ([]Violation, error) {
	return validate(PageSchema, data)
}

func ValidateImportMap(data []byte) ([]Violation, error) {
	return validate(ImportMapSchema, data)
}

// validate returns an error only when the document cannot be loaded at all.
// Schema mismatches come back as violations.
func validate(schema, data []byte) ([]Violation, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, Violation{
			Field:       e.Field(),
			Description: e.Description(),
		})
	}
	return violations, nil
}
