package generator

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// Scope is a top-level declaration of a source file.
type Scope interface {
	isScope()
}

// Member is an interface property with its type already rendered.
type Member struct {
	Name     string
	Type     string
	Optional bool
	Doc      string
}

// Interface renders an exported interface declaration.
type Interface struct {
	Name     Name
	Generics []Name
	Extends  []string
	Members  []Member
	Doc      string
}

// TypeAlias renders "export type Name = expr".
type TypeAlias struct {
	Name     Name
	Generics []Name
	Expr     string
	Doc      string
}

// EnumMember is an enum constant. Literal is a JSON value.
type EnumMember struct {
	Name    string
	Literal json.RawMessage
}

// Enum renders an exported enum declaration.
type Enum struct {
	Name    Name
	Members []EnumMember
	Doc     string
}

// Utility is a body produced directly by its creator.
type Utility struct {
	Body string
}

func (Interface) isScope() {}
func (TypeAlias) isScope() {}
func (Enum) isScope()      {}
func (Utility) isScope()   {}

// RenderScope returns the text of s, ending in a newline.
func RenderScope(s Scope) (string, error) {
	switch s := s.(type) {
	case Interface:
		return renderInterface(s)
	case TypeAlias:
		return renderTypeAlias(s)
	case Enum:
		return renderEnum(s)
	case Utility:
		if s.Body == "" || strings.HasSuffix(s.Body, "\n") {
			return s.Body, nil
		}
		return s.Body + "\n", nil
	default:
		return "", errors.AssertionFailedf("unknown scope variant %T", s)
	}
}

func renderInterface(s Interface) (string, error) {
	name, err := RenderName(s.Name)
	if err != nil {
		return "", err
	}
	generics, err := genericsClause(s.Generics)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	writeDoc(&b, s.Doc, "")
	b.WriteString("export interface " + name + generics)
	if len(s.Extends) > 0 {
		b.WriteString(" extends " + strings.Join(s.Extends, ", "))
	}
	b.WriteString(" {\n")
	for _, m := range s.Members {
		writeDoc(&b, m.Doc, "  ")
		b.WriteString("  " + propertyName(m.Name))
		if m.Optional {
			b.WriteString("?")
		}
		b.WriteString(": " + m.Type + "\n")
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func renderTypeAlias(s TypeAlias) (string, error) {
	name, err := RenderName(s.Name)
	if err != nil {
		return "", err
	}
	generics, err := genericsClause(s.Generics)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeDoc(&b, s.Doc, "")
	b.WriteString("export type " + name + generics + " = " + s.Expr + "\n")
	return b.String(), nil
}

func renderEnum(s Enum) (string, error) {
	name, err := RenderName(s.Name)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	writeDoc(&b, s.Doc, "")
	b.WriteString("export enum " + name + " {\n")
	for i, m := range s.Members {
		literal, err := enumLiteral(m.Literal)
		if err != nil {
			return "", errors.Wrapf(err, "enum %s: constant %s", name, m.Name)
		}
		b.WriteString("  " + m.Name + " = " + literal)
		if i < len(s.Members)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// enumLiteral single-quotes string values and keeps every other literal
// verbatim.
func enumLiteral(raw json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(text, `"`) {
		if text == "" {
			return "", errors.New("empty literal")
		}
		return text, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.Wrap(err, "decoding string literal")
	}
	return quote(s), nil
}

// quote renders s as a single-quoted TypeScript string.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return "'" + r.Replace(s) + "'"
}

// propertyName quotes names that are not valid identifiers.
func propertyName(name string) string {
	for i, r := range name {
		ok := r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !ok {
			return quote(name)
		}
	}
	if name == "" {
		return quote(name)
	}
	return name
}

func writeDoc(b *strings.Builder, doc, indent string) {
	text := formatDocComment(doc)
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(indent + line + "\n")
	}
}
