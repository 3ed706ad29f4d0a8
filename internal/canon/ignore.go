package canon

import "strings"

// Policy is a predicate set over canonical names.
type Policy struct {
	names    map[string]bool
	prefixes []string
}

// NewPolicy returns a policy matching the given names. An entry ending in
// "*" matches every canonical name with that prefix.
func NewPolicy(entries ...string) *Policy {
	p := &Policy{names: make(map[string]bool)}
	p.Add(entries...)
	return p
}

// Add extends the policy with more entries.
func (p *Policy) Add(entries ...string) {
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.HasSuffix(e, "*") {
			p.prefixes = append(p.prefixes, strings.TrimSuffix(e, "*"))
			continue
		}
		p.names[Canonicalize(e)] = true
	}
}

// Match reports whether the canonical form of name is covered by the policy.
func (p *Policy) Match(name string) bool {
	if p == nil {
		return false
	}
	name = Canonicalize(name)
	if p.names[name] {
		return true
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Broad excludes opaque and structural builtins from the registry listing and
// from emitted supertype lists.
func Broad(extra ...string) *Policy {
	p := NewPolicy(
		"time.Time", "time.Duration", "time.Location",
		"encoding/json.RawMessage", "encoding/json.Number",
		"math/big.Int", "math/big.Float",
		"net/url.URL", "net.IP",
	)
	for name := range builtins {
		p.Add(name)
	}
	p.Add(extra...)
	return p
}

// Narrow excludes types only from supertype lists: the root object type, the
// numeric kinds and the enum base type.
func Narrow(extra ...string) *Policy {
	p := NewPolicy(Any, String)
	for name := range numerics {
		p.Add(name)
	}
	p.Add(extra...)
	return p
}
