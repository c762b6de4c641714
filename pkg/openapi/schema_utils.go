package openapi

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateSchema creates an OpenAPI schema from a Go struct using reflection
func GenerateSchema(v interface{}) *Schema {
	if v == nil {
		return nil
	}

	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return typeToSchema(t)
}

func typeToSchema(t reflect.Type) *Schema {
	// Handle special types
	if t == reflect.TypeOf(time.Time{}) {
		return &Schema{Type: "string", Format: "date-time"}
	}
	if t == reflect.TypeOf(uuid.UUID{}) {
		return &Schema{Type: "string", Format: "uuid"}
	}
	if t == reflect.TypeOf(time.Duration(0)) {
		return &Schema{Type: "integer", Format: "int64", Description: "nanoseconds"}
	}

	switch t.Kind() {
	case reflect.Struct:
		schema := &Schema{
			Type:       "object",
			Properties: make(map[string]*Schema),
		}

		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			jsonTag := field.Tag.Get("json")
			if jsonTag == "-" {
				continue
			}

			name, _, _ := strings.Cut(jsonTag, ",")

			// embedded structs without a json name are flattened, as encoding/json does
			if field.Anonymous && name == "" {
				if embedded := typeToSchema(field.Type); embedded != nil {
					for k, v := range embedded.Properties {
						schema.Properties[k] = v
					}
				}
				continue
			}
			if name == "" {
				name = field.Name
			}

			if propSchema := typeToSchema(field.Type); propSchema != nil {
				schema.Properties[name] = propSchema
			}
		}
		return schema

	case reflect.Slice, reflect.Array:
		return &Schema{
			Type:  "array",
			Items: typeToSchema(t.Elem()),
		}

	case reflect.Map:
		return &Schema{Type: "object"}

	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Ptr:
		return typeToSchema(t.Elem())

	default:
		return &Schema{Type: "string"} // Fallback
	}
}
