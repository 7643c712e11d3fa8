package analysis

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed result_schema.json
var resultSchemaJSON []byte

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

// ValidationError is a single schema violation.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// ValidationReport holds the outcome of a schema check.
type ValidationReport struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidateResultJSON checks a serialized result against the embedded
// schema. It reports violations; it does not repair them.
func ValidateResultJSON(doc []byte) (*ValidationReport, error) {
	schemaOnce.Do(func() {
		loader := gojsonschema.NewBytesLoader(resultSchemaJSON)
		compiledSchema, schemaErr = gojsonschema.NewSchema(loader)
	})
	if schemaErr != nil {
		return nil, fmt.Errorf("compiling result schema: %w", schemaErr)
	}

	outcome, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validating result: %w", err)
	}

	report := &ValidationReport{Valid: outcome.Valid()}
	if !outcome.Valid() {
		for _, verr := range outcome.Errors() {
			field := verr.Field()
			if field == "" {
				field = "root"
			}
			report.Errors = append(report.Errors, ValidationError{
				Path:    field,
				Message: verr.Description(),
			})
		}
	}
	return report, nil
}
