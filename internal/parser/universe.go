package parser

import (
	"stubgen/internal/canon"
	"stubgen/internal/host"
)

// Universe is the symbol table accumulated over the packages loaded so far.
// Builtins and names matched by the opaque policy resolve without a source
// declaration.
type Universe struct {
	packages map[string]*Package
	order    []string
	opaque   *canon.Policy
}

// NewUniverse creates an empty symbol table.
func NewUniverse(opaque *canon.Policy) *Universe {
	return &Universe{
		packages: make(map[string]*Package),
		opaque:   opaque,
	}
}

// Add registers pkg, replacing an earlier load of the same path.
func (u *Universe) Add(pkg *Package) {
	if _, ok := u.packages[pkg.Path]; !ok {
		u.order = append(u.order, pkg.Path)
	}
	u.packages[pkg.Path] = pkg
}

// Package returns the loaded package with the given import path.
func (u *Universe) Package(path string) (*Package, bool) {
	pkg, ok := u.packages[path]
	return pkg, ok
}

// Lookup implements host.SymbolTable.
func (u *Universe) Lookup(name string) (host.Type, bool) {
	name = canon.Canonicalize(name)
	if pkg, ok := u.packages[canon.Package(name)]; ok {
		if d, ok := pkg.Types[name]; ok {
			return d, true
		}
	}
	if canon.IsBuiltin(name) || u.opaque.Match(name) {
		return host.Opaque(name), true
	}
	return nil, false
}

// Services returns the annotated services of every loaded package in load
// order.
func (u *Universe) Services() []host.Service {
	var out []host.Service
	for _, path := range u.order {
		out = append(out, u.packages[path].Candidates()...)
	}
	return out
}
