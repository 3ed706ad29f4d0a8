// Package config provides configuration handling for stubgen.
package config

// DefaultTypeMappings returns the TypeScript spelling of builtin and opaque
// Go types, keyed by canonical name.
func DefaultTypeMappings() map[string]string {
	return map[string]string{
		// Basic types
		"string":     "string",
		"bool":       "boolean",
		"int":        "number",
		"int8":       "number",
		"int16":      "number",
		"int32":      "number",
		"int64":      "number",
		"uint":       "number",
		"uint8":      "number",
		"uint16":     "number",
		"uint32":     "number",
		"uint64":     "number",
		"float32":    "number",
		"float64":    "number",
		"complex64":  "number",
		"complex128": "number",
		"uintptr":    "number",

		// Special types
		"[]byte":        "string", // base64 encoded
		"struct{}":      "Record<string, unknown>",
		"any":           "unknown",
		"error":         "string", // Error message
		"time.Time":     "string", // ISO 8601 string
		"time.Duration": "number", // Nanoseconds as number

		// UUID types (common libraries)
		"github.com/google/uuid.UUID":    "string",
		"github.com/gofrs/uuid.UUID":     "string",
		"github.com/satori/go.uuid.UUID": "string",

		// Decimal types
		"github.com/shopspring/decimal.Decimal": "string",
		"math/big.Int":                          "number",
		"math/big.Float":                        "string",

		// JSON types
		"encoding/json.RawMessage": "unknown",
		"encoding/json.Number":     "number",

		"net.IP": "string",
	}
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Directive:    "stubgen",
		OutputDir:    "build",
		Namespace:    "stubgen",
		EmitServices: true,
		EmitIndex:    true,
		Ignore: IgnoreOptions{
			// Resolved without source so that services using them do not
			// wait for packages that are never loaded.
			Broad: []string{
				"github.com/google/uuid.UUID",
				"github.com/gofrs/uuid.UUID",
				"github.com/satori/go.uuid.UUID",
				"github.com/shopspring/decimal.Decimal",
			},
		},
	}
}
