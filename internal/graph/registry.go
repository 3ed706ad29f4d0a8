package graph

import (
	"sort"

	"stubgen/internal/model"
)

// registry is the single-owner arena of entries built during one round.
// Entries can only be added through insertIfAbsent, which is what keeps the
// cycle guard sound.
type registry struct {
	entries map[string]*model.ClientType
	order   []string
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*model.ClientType)}
}

func (r *registry) has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// insertIfAbsent adds entry unless its name is already taken and reports
// whether it was added.
func (r *registry) insertIfAbsent(entry *model.ClientType) bool {
	if r.has(entry.Name) {
		return false
	}
	r.entries[entry.Name] = entry
	r.order = append(r.order, entry.Name)
	return true
}

func (r *registry) properties(name string) []model.ClientProp {
	if e, ok := r.entries[name]; ok {
		return e.Properties
	}
	return nil
}

// freeze copies the registry into an immutable snapshot.
func (r *registry) freeze() map[string]model.ClientType {
	out := make(map[string]model.ClientType, len(r.entries))
	for name, e := range r.entries {
		out[name] = e.Clone()
	}
	return out
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
