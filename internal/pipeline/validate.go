package pipeline

import (
	"stubgen/internal/canon"
	"stubgen/internal/host"
)

// validator checks that every symbol reachable from a service resolves in
// the current symbol table. A validator is used for a single service: the
// visited set only guards against cycles. An exhaustive validator keeps
// walking after the first miss and records every missing name.
type validator struct {
	symbols    host.SymbolTable
	visited    map[string]bool
	exhaustive bool
	missing    []string
}

func newValidator(symbols host.SymbolTable) *validator {
	return &validator{symbols: symbols, visited: make(map[string]bool)}
}

// valid reports whether s can be resolved this round. Signature errors are
// not deferrals: they are left for the resolving step to report.
func valid(symbols host.SymbolTable, s host.Service) bool {
	return newValidator(symbols).service(s)
}

// Missing returns the canonical names referenced by services that the
// symbol table cannot resolve, in discovery order.
func Missing(symbols host.SymbolTable, services []host.Service) []string {
	v := newValidator(symbols)
	v.exhaustive = true
	for _, s := range services {
		v.service(s)
	}
	return v.missing
}

func (v *validator) service(s host.Service) bool {
	ops, err := s.Operations()
	if err != nil {
		return true
	}
	ok := true
	for _, op := range ops {
		for _, p := range op.Params() {
			if !v.use(p.Type) {
				ok = false
				if !v.exhaustive {
					return false
				}
			}
		}
		if r, has := op.Result(); has && !v.use(r) {
			ok = false
			if !v.exhaustive {
				return false
			}
		}
	}
	return ok
}

func (v *validator) use(u host.TypeUse) bool {
	if u.Anonymous || u.Param {
		return true
	}
	ok := true
	for _, a := range u.Args {
		if !v.use(a) {
			ok = false
			if !v.exhaustive {
				return false
			}
		}
	}
	return v.name(canon.Canonicalize(u.Name)) && ok
}

func (v *validator) name(name string) bool {
	if v.visited[name] {
		return true
	}
	v.visited[name] = true

	t, found := v.symbols.Lookup(name)
	if !found {
		v.missing = append(v.missing, name)
		return false
	}

	var uses []host.TypeUse
	for _, p := range t.Properties() {
		uses = append(uses, p.Type)
	}
	uses = append(uses, t.SuperTypes()...)
	if target, has := t.AliasOf(); has {
		uses = append(uses, target)
	}

	ok := true
	for _, u := range uses {
		if !v.use(u) {
			ok = false
			if !v.exhaustive {
				return false
			}
		}
	}
	return ok
}
