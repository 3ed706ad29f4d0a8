package graph

import (
	"stubgen/internal/model"
)

// Graph is a frozen registry. It keeps every supertype edge; Project derives
// the emitted view.
type Graph struct {
	entries  map[string]model.ClientType
	order    []string
	policies Policies
}

// Len returns the number of entries, ignored ones included.
func (g *Graph) Len() int { return len(g.entries) }

// Entry returns a copy of the working entry for name.
func (g *Graph) Entry(name string) (model.ClientType, bool) {
	e, ok := g.entries[name]
	if !ok {
		return model.ClientType{}, false
	}
	return e.Clone(), true
}

// Names returns the canonical names in the order they were registered.
func (g *Graph) Names() []string {
	return append([]string(nil), g.order...)
}

// Project returns copies of the entries with their supertype lists trimmed
// to what is emitted, leaving out entries matched by the broad policy.
// The graph itself is not modified.
func (g *Graph) Project() map[string]model.ClientType {
	out := make(map[string]model.ClientType, len(g.entries))
	for name, e := range g.entries {
		if g.policies.Broad.Match(name) {
			continue
		}
		c := e.Clone()
		c.SuperTypes = nil
		for _, s := range e.SuperTypes {
			if !g.keepSuper(s) {
				continue
			}
			c.SuperTypes = append(c.SuperTypes, trimmedRef(s))
		}
		out[name] = c
	}
	return out
}

// Definitions returns the projected entries sorted by canonical name.
func (g *Graph) Definitions() []model.ClientType {
	projected := g.Project()
	defs := make([]model.ClientType, 0, len(projected))
	for _, name := range sortedNames(projected) {
		defs = append(defs, projected[name])
	}
	return defs
}

func (g *Graph) keepSuper(s model.TypeRef) bool {
	if s.Anonymous || s.Name == "" || s.Generic {
		return false
	}
	return !g.policies.Narrow.Match(s.Name) && !g.policies.Broad.Match(s.Name)
}

// trimmedRef keeps the identity of a supertype reference and its arguments.
func trimmedRef(s model.TypeRef) model.TypeRef {
	return model.TypeRef{Name: s.Name, Args: s.Args}
}
