package frontmatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Issue captures a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// SchemaError lists the schema violations found in a metadata mapping.
type SchemaError struct {
	Issues []Issue
	Cause  error
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts schema issues from an error returned by ValidateSchema.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) && schemaErr != nil {
		return schemaErr.Issues
	}
	return []Issue{{Message: err.Error()}}
}

// ValidateSchema checks a decoded mapping against a JSON schema (draft 2020).
// A nil or empty schema accepts everything.
func ValidateSchema(fm *Map, schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return wrapSchemaError(err)
	}

	instance, err := jsonInstance(fm)
	if err != nil {
		return &SchemaError{Cause: err}
	}

	if err := compiled.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &SchemaError{Issues: collectIssues(validationErr), Cause: err}
		}
		return &SchemaError{Cause: err}
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("frontmatter.json")
}

// jsonInstance round-trips the mapping through encoding/json so numbers and
// containers take the shapes the validator expects.
func jsonInstance(fm *Map) (any, error) {
	encoded, err := json.Marshal(fm.Any())
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var instance any
	if err := decoder.Decode(&instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	if err == nil {
		return nil
	}
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
