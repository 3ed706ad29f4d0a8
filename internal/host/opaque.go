package host

import "stubgen/internal/canon"

// opaque is a declaration without structure: a builtin or a well-known type
// whose shape is never exported.
type opaque string

// Opaque returns a class-kinded declaration for name with no properties.
func Opaque(name string) Type { return opaque(canon.Canonicalize(name)) }

func (o opaque) Name() string             { return string(o) }
func (o opaque) Kind() Kind               { return KindClass }
func (o opaque) Doc() string              { return "" }
func (o opaque) TypeParams() []string     { return nil }
func (o opaque) Properties() []Property   { return nil }
func (o opaque) SuperTypes() []TypeUse    { return nil }
func (o opaque) AliasOf() (TypeUse, bool) { return TypeUse{}, false }
func (o opaque) Constants() []Constant    { return nil }
func (o opaque) Expandable() bool         { return false }

// MapTable is a SymbolTable backed by a map. Builtins resolve to opaque
// declarations.
type MapTable map[string]Type

// Lookup implements SymbolTable.
func (m MapTable) Lookup(name string) (Type, bool) {
	name = canon.Canonicalize(name)
	if t, ok := m[name]; ok {
		return t, true
	}
	if canon.IsBuiltin(name) {
		return Opaque(name), true
	}
	return nil, false
}
