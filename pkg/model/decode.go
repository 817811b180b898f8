package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned by Decode when the payload holds no data.
var ErrEmptyDocument = errors.New("model: schema document is empty")

// Decode parses a schema document encoded as JSON or YAML and checks its
// structural invariants. Missing titles default to DefaultTitle.
func Decode(data []byte) (Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Schema{}, ErrEmptyDocument
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		schema = Schema{}
		if yamlErr := yaml.Unmarshal(data, &schema); yamlErr != nil {
			return Schema{}, fmt.Errorf("model: decode schema: invalid JSON or YAML: %w", errors.Join(err, yamlErr))
		}
	}

	if schema.Title == "" {
		schema.Title = DefaultTitle
	}
	if schema.Fields == nil {
		schema.Fields = []Field{}
	}
	for i := range schema.Steps {
		if schema.Steps[i].Fields == nil {
			schema.Steps[i].Fields = []Field{}
		}
	}
	if err := schema.Validate(); err != nil {
		return Schema{}, err
	}
	return schema, nil
}

// Validate reports structural problems: unsupported field types or
// conditions, duplicate ids within the live field set, and conditionals that
// reference their own field. Dangling dependsOn references are tolerated.
func (s Schema) Validate() error {
	var errs []error
	seen := make(map[string]struct{})
	check := func(where string, field Field) {
		if !field.Type.Valid() {
			errs = append(errs, fmt.Errorf("model: %s: field %q has unsupported type %q", where, field.ID, field.Type))
		}
		if field.ID != "" {
			if _, dup := seen[field.ID]; dup {
				errs = append(errs, fmt.Errorf("model: %s: duplicate field id %q", where, field.ID))
			}
			seen[field.ID] = struct{}{}
		}
		if cond := field.Conditional; cond != nil {
			if cond.DependsOn == field.ID {
				errs = append(errs, fmt.Errorf("model: %s: field %q depends on itself", where, field.ID))
			}
			if !cond.Condition.Valid() {
				errs = append(errs, fmt.Errorf("model: %s: field %q has unsupported condition %q", where, field.ID, cond.Condition))
			}
		}
	}

	if s.IsMultiStep {
		for _, step := range s.Steps {
			for _, field := range step.Fields {
				check("step "+step.ID, field)
			}
		}
	} else {
		for _, field := range s.Fields {
			check("fields", field)
		}
	}
	return errors.Join(errs...)
}
