// Package model defines the intermediate representation exchanged between the
// graph builder and the source emitter.
package model

import (
	"encoding/json"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"stubgen/internal/canon"
)

// TypeKind represents the category of a client type.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
	KindEnum      TypeKind = "enum"
	KindAlias     TypeKind = "alias"
)

// Valid reports whether k is one of the four resolved kinds.
func (k TypeKind) Valid() bool {
	switch k {
	case KindClass, KindInterface, KindEnum, KindAlias:
		return true
	}
	return false
}

// ApiStubDocument is the self-contained artifact written by the builder and
// read back by the emitter.
type ApiStubDocument struct {
	Services    []ClientService `json:"services"`
	Definitions []ClientType    `json:"definitions"`
}

// Definition returns the definition with the given canonical name.
func (d *ApiStubDocument) Definition(name string) (ClientType, bool) {
	for _, t := range d.Definitions {
		if t.Name == name {
			return t, true
		}
	}
	return ClientType{}, false
}

// ClientService is an exported service and its operations.
type ClientService struct {
	TypeName   string            `json:"typeName"`      // Canonical name of the declaring type
	Operations []ClientOperation `json:"operations"`    // Operations in declaration order
	Doc        string            `json:"doc,omitempty"` // Documentation comment
}

// ClientOperation is one exported method of a service.
type ClientOperation struct {
	Name        string       `json:"name"`
	OverloadKey string       `json:"overloadKey"`
	Parameters  []ClientProp `json:"parameters"`
	ReturnType  *ClientProp  `json:"returnType"` // nil means void
	Doc         string       `json:"doc,omitempty"`
}

// ClientType is a canonical type entry.
type ClientType struct {
	Name          string        `json:"name"`                    // Canonical name (registry key)
	Kind          TypeKind      `json:"kind"`                    // Resolved kind
	SuperTypes    []TypeRef     `json:"superTypes,omitempty"`    // References, resolved against the registry
	Properties    []ClientProp  `json:"properties,omitempty"`    // Own and inherited properties
	EnumConstants *EnumValues   `json:"enumConstants,omitempty"` // Constants in declaration order
	IsAlias       bool          `json:"isAlias,omitempty"`       // Whether this entry aliases another type
	AliasTarget   string        `json:"aliasTarget,omitempty"`   // Canonical name of the aliased type
	AliasGenerics []TypeRef     `json:"aliasGenerics,omitempty"` // Use-site arguments of the alias target
	GenericSlots  []GenericSlot `json:"genericSlots,omitempty"`  // The type's own parameters
	Doc           string        `json:"doc,omitempty"`           // Documentation comment
}

// GenericSlot is a type parameter declared by a generic type.
type GenericSlot struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
}

// TypeRef references a type by canonical name at a use site.
type TypeRef struct {
	Name      string    `json:"name,omitempty"`
	Nullable  bool      `json:"nullable,omitempty"`
	Generic   bool      `json:"generic,omitempty"`   // Name is a type parameter of the enclosing entry
	Args      []TypeRef `json:"args,omitempty"`      // Actual type arguments
	Anonymous bool      `json:"anonymous,omitempty"` // Structurally anonymous use, never emitted
}

// Spelling renders the reference with its arguments, ignoring nullability.
func (r TypeRef) Spelling() string {
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.Spelling()
	}
	return canon.Spell(r.Name, args)
}

// ClientProp is a property, parameter or return value.
type ClientProp struct {
	Name         string    `json:"name"`
	TypeName     string    `json:"typeName"`
	Nullable     bool      `json:"nullable,omitempty"`
	Optional     bool      `json:"optional,omitempty"`
	Generic      bool      `json:"generic,omitempty"`
	UsedGenerics []TypeRef `json:"usedGenerics,omitempty"`
	Anonymous    bool      `json:"anonymous,omitempty"` // Structurally anonymous type, never emitted
	Doc          string    `json:"doc,omitempty"`
}

// Ref returns the use-site reference described by the property.
func (p ClientProp) Ref() TypeRef {
	return TypeRef{
		Name:      p.TypeName,
		Nullable:  p.Nullable,
		Generic:   p.Generic,
		Args:      p.UsedGenerics,
		Anonymous: p.Anonymous,
	}
}

// PropFromRef builds a property named name whose type is ref.
func PropFromRef(name string, ref TypeRef) ClientProp {
	return ClientProp{
		Name:         name,
		TypeName:     ref.Name,
		Nullable:     ref.Nullable,
		Generic:      ref.Generic,
		UsedGenerics: ref.Args,
		Anonymous:    ref.Anonymous,
	}
}

// EnumValues keeps enum constants in declaration order. Values are raw JSON
// literals so that the emitter can tell strings from other literal kinds.
type EnumValues = orderedmap.OrderedMap[string, json.RawMessage]

// NewEnumValues returns an empty ordered constant map.
func NewEnumValues() *EnumValues {
	return orderedmap.New[string, json.RawMessage]()
}

// StringLiteral encodes s as a string-valued constant.
func StringLiteral(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

// NumberLiteral encodes a numeric constant from its exact decimal text.
func NumberLiteral(text string) json.RawMessage {
	return json.RawMessage(text)
}

// BoolLiteral encodes a boolean constant.
func BoolLiteral(v bool) json.RawMessage {
	return json.RawMessage(strconv.FormatBool(v))
}

// Clone returns a copy of t whose slices do not alias the original.
func (t ClientType) Clone() ClientType {
	c := t
	c.SuperTypes = append([]TypeRef(nil), t.SuperTypes...)
	c.Properties = append([]ClientProp(nil), t.Properties...)
	c.AliasGenerics = append([]TypeRef(nil), t.AliasGenerics...)
	c.GenericSlots = append([]GenericSlot(nil), t.GenericSlots...)
	if t.EnumConstants != nil {
		c.EnumConstants = NewEnumValues()
		for pair := t.EnumConstants.Oldest(); pair != nil; pair = pair.Next() {
			c.EnumConstants.Set(pair.Key, pair.Value)
		}
	}
	return c
}
