// Package schema derives tool input schemas from Go structs.
package schema

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// Generate produces an anthropic.ToolInputSchemaParam from a Go struct type T.
// Struct tags (json, jsonschema) drive the result; fields without omitempty
// are required.
func Generate[T any]() anthropic.ToolInputSchemaParam {
	var zero T
	r := &jsonschema.Reflector{DoNotReference: true}
	root := resolveRoot(r.Reflect(&zero))

	return anthropic.ToolInputSchemaParam{
		Properties: properties(root),
		Required:   root.Required,
	}
}

// GenerateJSON returns the schema of T as raw JSON.
func GenerateJSON[T any]() (json.RawMessage, error) {
	return json.Marshal(Generate[T]())
}

// resolveRoot follows a top-level $ref into $defs when the reflector emitted one.
func resolveRoot(s *jsonschema.Schema) *jsonschema.Schema {
	if s.Ref == "" || s.Definitions == nil {
		return s
	}
	for _, def := range s.Definitions {
		if def.Type == "object" {
			return def
		}
	}
	return s
}

// properties flattens an ordered property map into a plain map.
func properties(s *jsonschema.Schema) map[string]any {
	if s.Properties == nil || s.Properties.Len() == 0 {
		return map[string]any{}
	}
	props := make(map[string]any, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		props[pair.Key] = property(pair.Value)
	}
	return props
}

func property(s *jsonschema.Schema) map[string]any {
	m := make(map[string]any)

	if s.Type != "" {
		m["type"] = s.Type
	}
	// Nullable pointers come back as anyOf [T, null].
	for _, sub := range s.AnyOf {
		if sub.Type != "null" && sub.Type != "" {
			m["type"] = sub.Type
			break
		}
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Default != nil {
		m["default"] = s.Default
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	if s.MinLength != nil {
		m["minLength"] = *s.MinLength
	}
	if s.Properties != nil {
		m["type"] = "object"
		m["properties"] = properties(s)
		if len(s.Required) > 0 {
			m["required"] = s.Required
		}
	}
	if s.Items != nil {
		m["items"] = property(s.Items)
	}
	return m
}
