package schema

import (
	"encoding/json"
	"strconv"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSONSchema exports the descriptor as a JSON Schema object. Properties
// keep declared field order. When strict is true the schema closes over its
// declared properties (additionalProperties: false), mirroring how the
// validator treats unknown keys.
func (d Descriptor) JSONSchema(strict bool) *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	var required []string

	for _, f := range d.Fields {
		props.Set(f.Name, f.propertySchema())
		if f.Required {
			required = append(required, f.Name)
		}
	}

	s := &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
	if strict {
		s.AdditionalProperties = jsonschema.FalseSchema
	}
	return s
}

// propertySchema maps one field onto its JSON Schema property.
func (f Field) propertySchema() *jsonschema.Schema {
	s := &jsonschema.Schema{Description: f.Description}
	if f.Example != "" {
		s.Examples = []any{f.Example}
	}

	switch f.Type {
	case TypeString:
		s.Type = "string"
		for _, e := range f.Enum {
			s.Enum = append(s.Enum, e)
		}
		s.Pattern = f.Pattern
		s.MinLength = uintBound(f.Min)
		s.MaxLength = uintBound(f.Max)
	case TypeInt:
		s.Type = "integer"
		s.Minimum = numBound(f.Min)
		s.Maximum = numBound(f.Max)
	case TypeNumber:
		s.Type = "number"
		s.Minimum = numBound(f.Min)
		s.Maximum = numBound(f.Max)
	case TypeBool:
		s.Type = "boolean"
	case TypeStringList:
		s.Type = "array"
		s.Items = &jsonschema.Schema{Type: "string"}
		s.MinItems = uintBound(f.Min)
		s.MaxItems = uintBound(f.Max)
	}
	return s
}

func uintBound(v *float64) *uint64 {
	if v == nil || *v < 0 {
		return nil
	}
	u := uint64(*v)
	return &u
}

func numBound(v *float64) json.Number {
	if v == nil {
		return ""
	}
	return json.Number(strconv.FormatFloat(*v, 'f', -1, 64))
}
