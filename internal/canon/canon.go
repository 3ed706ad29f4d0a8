// Package canon maps the many spellings of a Go type name onto one canonical
// identity and holds the ignore policies applied to canonical names.
package canon

import (
	"strings"
)

// Canonical names of the synthetic container and builtin types.
const (
	Any    = "any"
	Error  = "error"
	Slice  = "[]"
	Map    = "map"
	Bytes  = "[]byte"
	Object = "struct{}" // anonymous struct literals
	String = "string"
	Bool   = "bool"
)

// spellings collapses alternative builtin spellings onto one identity.
var spellings = map[string]string{
	"byte":         "uint8",
	"rune":         "int32",
	"interface{}":  Any,
	"interface {}": Any,
	"[]uint8":      Bytes,
	"struct {}":    Object,
}

// Canonicalize returns the canonical name for a raw declared type name.
// It is idempotent: Canonicalize(Canonicalize(x)) == Canonicalize(x).
func Canonicalize(raw string) string {
	name := strings.TrimSpace(raw)
	for {
		if rest, ok := strings.CutPrefix(name, "*"); ok {
			name = strings.TrimSpace(rest)
		} else if rest, ok := strings.CutPrefix(name, "builtin."); ok {
			name = rest
		} else {
			break
		}
	}
	if c, ok := spellings[name]; ok {
		return c
	}
	return name
}

// Spell renders a canonical name with its type arguments the way Go spells
// it: []T, map[K]V, Page[T].
func Spell(name string, args []string) string {
	name = Canonicalize(name)
	switch {
	case name == Slice && len(args) == 1:
		return Slice + args[0]
	case name == Map && len(args) == 2:
		return "map[" + args[0] + "]" + args[1]
	case len(args) > 0:
		return name + "[" + strings.Join(args, ",") + "]"
	}
	return name
}

// Qualify builds the canonical name of a declared type in package pkgPath.
// Builtins are never qualified.
func Qualify(pkgPath, name string) string {
	if pkgPath == "" || IsBuiltin(name) {
		return Canonicalize(name)
	}
	return Canonicalize(pkgPath + "." + name)
}

// Short returns the unqualified part of a canonical name.
func Short(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Package returns the package path part of a canonical name, or "" for
// builtins.
func Package(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

var builtins = map[string]bool{
	"bool": true, "string": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"byte": true, "rune": true,
	Slice: true, Map: true, Bytes: true, Object: true,
}

var numerics = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// IsBuiltin reports whether name denotes a predeclared or synthetic type.
func IsBuiltin(name string) bool {
	return builtins[Canonicalize(name)]
}

// IsNumeric reports whether name is a numeric predeclared type.
func IsNumeric(name string) bool {
	return numerics[Canonicalize(name)]
}
