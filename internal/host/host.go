// Package host describes the symbols the exporter reads from the host type
// system. The graph builder and the collector only depend on these
// interfaces; internal/parser implements them for Go source.
package host

import (
	"github.com/cockroachdb/errors"
)

// ErrUnresolved marks a reference to a symbol the symbol table does not know
// yet. It is expected while rounds are still running.
var ErrUnresolved = errors.New("unresolved symbol")

// Kind classifies a host declaration.
type Kind int

const (
	KindUnsupported Kind = iota
	KindClass
	KindInterface
	KindEnum
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindAlias:
		return "alias"
	default:
		return "unsupported"
	}
}

// TypeUse is a reference to a type at a use site.
type TypeUse struct {
	Name      string    // Raw name, canonicalized by consumers
	Nullable  bool      // Pointer or otherwise nil-able use
	Param     bool      // Name is a type parameter in scope
	Args      []TypeUse // Type arguments
	Anonymous bool      // Structurally anonymous (no declaration to resolve)
}

// Property is a declared field.
type Property struct {
	Name     string
	Type     TypeUse
	Optional bool
	Doc      string
}

// Constant is an enum-like constant; Literal is a raw JSON value.
type Constant struct {
	Name    string
	Literal []byte
}

// Type is a declaration in the host type system.
type Type interface {
	Name() string
	Kind() Kind
	Doc() string
	TypeParams() []string
	Properties() []Property
	SuperTypes() []TypeUse
	AliasOf() (TypeUse, bool)
	Constants() []Constant
	// Expandable reports whether subtypes inherit this type's properties.
	Expandable() bool
}

// Parameter is an operation parameter.
type Parameter struct {
	Name string
	Type TypeUse
}

// Operation is an annotated method of a service.
type Operation interface {
	Name() string
	Doc() string
	Params() []Parameter
	// Result returns the result type, or false for void.
	Result() (TypeUse, bool)
}

// Service is an annotated service declaration.
type Service interface {
	Name() string
	Doc() string
	Operations() ([]Operation, error)
}

// SymbolTable resolves canonical names to declarations.
type SymbolTable interface {
	Lookup(name string) (Type, bool)
}

// Resolve looks name up and wraps ErrUnresolved when it is missing.
func Resolve(symbols SymbolTable, name string) (Type, error) {
	t, ok := symbols.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnresolved, "%s", name)
	}
	return t, nil
}
