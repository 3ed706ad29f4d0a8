// Package graph expands root types into a deduplicated, cycle-safe registry of
// client type entries.
package graph

import (
	"github.com/cockroachdb/errors"

	"stubgen/internal/canon"
	"stubgen/internal/host"
	"stubgen/internal/model"
)

// ErrUnsupportedKind is returned for declarations that are none of class,
// interface, enum or alias. It is fatal for the round.
var ErrUnsupportedKind = errors.New("unsupported declaration kind")

// Policies are the ignore policies applied by the projection pass.
type Policies struct {
	Broad  *canon.Policy
	Narrow *canon.Policy
}

// DefaultPolicies returns the builtin broad and narrow policies.
func DefaultPolicies() Policies {
	return Policies{Broad: canon.Broad(), Narrow: canon.Narrow()}
}

// Builder expands type uses against a symbol table. A Builder owns its
// registry and must not be shared between goroutines.
type Builder struct {
	symbols  host.SymbolTable
	policies Policies
	reg      *registry
}

// NewBuilder creates a Builder with an empty registry.
func NewBuilder(symbols host.SymbolTable, policies Policies) *Builder {
	return &Builder{
		symbols:  symbols,
		policies: policies,
		reg:      newRegistry(),
	}
}

// Build expands every root and returns the resulting graph.
func (b *Builder) Build(roots []host.TypeUse) (*Graph, error) {
	for _, root := range roots {
		if _, err := b.Resolve(root); err != nil {
			return nil, err
		}
	}
	return b.Graph(), nil
}

// Graph snapshots the registry built so far.
func (b *Builder) Graph() *Graph {
	return &Graph{entries: b.reg.freeze(), order: append([]string(nil), b.reg.order...), policies: b.policies}
}

// Resolve converts a use into a reference, expanding the referenced
// declaration and every type argument into the registry.
func (b *Builder) Resolve(use host.TypeUse) (model.TypeRef, error) {
	ref := model.TypeRef{
		Name:      canon.Canonicalize(use.Name),
		Nullable:  use.Nullable,
		Anonymous: use.Anonymous,
	}
	if use.Anonymous {
		return ref, nil
	}
	if use.Param {
		ref.Generic = true
		return ref, nil
	}
	if err := b.expand(ref.Name); err != nil {
		return model.TypeRef{}, err
	}
	for _, arg := range use.Args {
		argRef, err := b.Resolve(arg)
		if err != nil {
			return model.TypeRef{}, err
		}
		ref.Args = append(ref.Args, argRef)
	}
	return ref, nil
}

func (b *Builder) expand(name string) error {
	// The presence check comes before any descent; a placeholder for name is
	// registered before its members are visited.
	if b.reg.has(name) {
		return nil
	}
	decl, err := host.Resolve(b.symbols, name)
	if err != nil {
		return err
	}

	entry := &model.ClientType{Name: name, Doc: decl.Doc()}
	switch decl.Kind() {
	case host.KindClass:
		entry.Kind = model.KindClass
	case host.KindInterface:
		entry.Kind = model.KindInterface
	case host.KindEnum:
		entry.Kind = model.KindEnum
	case host.KindAlias:
		entry.Kind = model.KindAlias
	default:
		return errors.Wrapf(ErrUnsupportedKind, "%s", name)
	}
	for i, p := range decl.TypeParams() {
		entry.GenericSlots = append(entry.GenericSlots, model.GenericSlot{Position: i, Name: p})
	}
	b.reg.insertIfAbsent(entry)

	switch entry.Kind {
	case model.KindAlias:
		return b.expandAlias(entry, decl)
	case model.KindEnum:
		return b.expandEnum(entry, decl)
	default:
		return b.expandOrdinary(entry, decl)
	}
}

func (b *Builder) expandAlias(entry *model.ClientType, decl host.Type) error {
	entry.IsAlias = true
	target, ok := decl.AliasOf()
	if !ok {
		return errors.Newf("alias %s has no target", entry.Name)
	}
	ref, err := b.Resolve(target)
	if err != nil {
		return errors.Wrapf(err, "alias %s", entry.Name)
	}
	entry.AliasTarget = ref.Name
	entry.AliasGenerics = ref.Args
	return nil
}

func (b *Builder) expandEnum(entry *model.ClientType, decl host.Type) error {
	entry.EnumConstants = model.NewEnumValues()
	for _, c := range decl.Constants() {
		entry.EnumConstants.Set(c.Name, c.Literal)
	}
	return b.expandSupers(entry, decl)
}

func (b *Builder) expandOrdinary(entry *model.ClientType, decl host.Type) error {
	for _, p := range decl.Properties() {
		ref, err := b.Resolve(p.Type)
		if err != nil {
			return errors.Wrapf(err, "property %s.%s", entry.Name, p.Name)
		}
		prop := model.PropFromRef(p.Name, ref)
		prop.Optional = p.Optional
		prop.Doc = p.Doc
		entry.Properties = append(entry.Properties, prop)
	}
	if entry.Kind == model.KindClass {
		if err := b.expandEmbedded(entry, decl); err != nil {
			return err
		}
	} else if err := b.expandSupers(entry, decl); err != nil {
		return err
	}
	entry.Properties = b.mergeInherited(entry)
	return nil
}

// expandEmbedded resolves the embedded types of a struct. Object types stay
// supertypes; an embedded enum or scalar is serialized under its type name,
// so it becomes a property of that name unless an own property shadows it.
func (b *Builder) expandEmbedded(entry *model.ClientType, decl host.Type) error {
	for _, s := range decl.SuperTypes() {
		ref, err := b.Resolve(s)
		if err != nil {
			return errors.Wrapf(err, "supertype of %s", entry.Name)
		}
		if ref.Anonymous || ref.Generic || b.isObject(ref.Name) {
			entry.SuperTypes = append(entry.SuperTypes, ref)
			continue
		}
		name := canon.Short(ref.Name)
		if hasProperty(entry.Properties, name) {
			continue
		}
		entry.Properties = append(entry.Properties, model.PropFromRef(name, ref))
	}
	return nil
}

// isObject reports whether name is a class or interface, following aliases.
func (b *Builder) isObject(name string) bool {
	seen := make(map[string]bool)
	for !seen[name] {
		seen[name] = true
		if canon.IsBuiltin(name) {
			return false
		}
		decl, ok := b.symbols.Lookup(name)
		if !ok {
			return false
		}
		switch decl.Kind() {
		case host.KindClass, host.KindInterface:
			return true
		case host.KindAlias:
			target, ok := decl.AliasOf()
			if !ok {
				return false
			}
			name = canon.Canonicalize(target.Name)
		default:
			return false
		}
	}
	return false
}

func hasProperty(props []model.ClientProp, name string) bool {
	for _, p := range props {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (b *Builder) expandSupers(entry *model.ClientType, decl host.Type) error {
	for _, s := range decl.SuperTypes() {
		ref, err := b.Resolve(s)
		if err != nil {
			return errors.Wrapf(err, "supertype of %s", entry.Name)
		}
		entry.SuperTypes = append(entry.SuperTypes, ref)
	}
	return nil
}

// mergeInherited appends the properties of expandable supertypes that are not
// shadowed by an own property. Type parameters of a generic supertype are
// replaced by the arguments used in the embedding.
func (b *Builder) mergeInherited(entry *model.ClientType) []model.ClientProp {
	props := entry.Properties
	seen := make(map[string]bool, len(props))
	for _, p := range props {
		seen[p.Name] = true
	}
	for _, super := range entry.SuperTypes {
		if super.Anonymous || super.Generic {
			continue
		}
		decl, ok := b.symbols.Lookup(super.Name)
		if !ok || !decl.Expandable() {
			continue
		}
		bindings := make(map[string]model.TypeRef)
		for i, param := range decl.TypeParams() {
			if i < len(super.Args) {
				bindings[param] = super.Args[i]
			}
		}
		for _, p := range b.reg.properties(super.Name) {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			props = append(props, substituteProp(p, bindings))
		}
	}
	return props
}

func substituteProp(p model.ClientProp, bindings map[string]model.TypeRef) model.ClientProp {
	if len(bindings) == 0 {
		return p
	}
	ref := substitute(p.Ref(), bindings)
	out := model.PropFromRef(p.Name, ref)
	out.Optional = p.Optional
	out.Doc = p.Doc
	return out
}

func substitute(ref model.TypeRef, bindings map[string]model.TypeRef) model.TypeRef {
	if ref.Generic {
		if bound, ok := bindings[ref.Name]; ok {
			bound.Nullable = bound.Nullable || ref.Nullable
			return bound
		}
		return ref
	}
	if len(ref.Args) == 0 {
		return ref
	}
	args := make([]model.TypeRef, len(ref.Args))
	for i, a := range ref.Args {
		args[i] = substitute(a, bindings)
	}
	ref.Args = args
	return ref
}
