// Package collector converts annotated service declarations into client
// services, feeding every parameter and return type into the graph builder.
package collector

import (
	"strings"

	"github.com/cockroachdb/errors"

	"stubgen/internal/canon"
	"stubgen/internal/host"
	"stubgen/internal/model"
)

// Resolver resolves a type use into a reference, registering the referenced
// type. *graph.Builder implements it.
type Resolver interface {
	Resolve(use host.TypeUse) (model.TypeRef, error)
}

// Collector walks services and their operations.
type Collector struct {
	resolver Resolver
	roots    []host.TypeUse
}

// New creates a Collector resolving types through r.
func New(r Resolver) *Collector {
	return &Collector{resolver: r}
}

// Roots returns every parameter and return type seen so far, in discovery
// order.
func (c *Collector) Roots() []host.TypeUse {
	return append([]host.TypeUse(nil), c.roots...)
}

// Collect converts services in the given order.
func (c *Collector) Collect(services []host.Service) ([]model.ClientService, error) {
	out := make([]model.ClientService, 0, len(services))
	for _, s := range services {
		cs, err := c.collectService(s)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}

func (c *Collector) collectService(s host.Service) (model.ClientService, error) {
	owner := canon.Canonicalize(s.Name())
	ops, err := s.Operations()
	if err != nil {
		return model.ClientService{}, errors.Wrapf(err, "service %s", owner)
	}
	cs := model.ClientService{
		TypeName:   owner,
		Operations: make([]model.ClientOperation, 0, len(ops)),
		Doc:        s.Doc(),
	}
	for _, op := range ops {
		co, err := c.collectOperation(owner, op)
		if err != nil {
			return model.ClientService{}, errors.Wrapf(err, "service %s", owner)
		}
		cs.Operations = append(cs.Operations, co)
	}
	return cs, nil
}

func (c *Collector) collectOperation(owner string, op host.Operation) (model.ClientOperation, error) {
	co := model.ClientOperation{
		Name:       op.Name(),
		Doc:        op.Doc(),
		Parameters: []model.ClientProp{},
	}
	typeNames := make([]string, 0, len(op.Params()))
	for _, p := range op.Params() {
		prop, err := c.resolve(p.Name, p.Type)
		if err != nil {
			return model.ClientOperation{}, errors.Wrapf(err, "parameter %s of %s", p.Name, op.Name())
		}
		co.Parameters = append(co.Parameters, prop)
		typeNames = append(typeNames, prop.Ref().Spelling())
	}
	if result, ok := op.Result(); ok {
		prop, err := c.resolve("", result)
		if err != nil {
			return model.ClientOperation{}, errors.Wrapf(err, "result of %s", op.Name())
		}
		co.ReturnType = &prop
	}
	co.OverloadKey = OverloadKey(owner, op.Name(), typeNames)
	return co, nil
}

func (c *Collector) resolve(name string, use host.TypeUse) (model.ClientProp, error) {
	c.roots = append(c.roots, use)
	ref, err := c.resolver.Resolve(use)
	if err != nil {
		return model.ClientProp{}, err
	}
	return model.PropFromRef(name, ref), nil
}

// OverloadKey derives the deterministic key of an operation from its owner,
// name and ordered parameter type names.
func OverloadKey(owner, operation string, paramTypes []string) string {
	names := make([]string, len(paramTypes))
	for i, t := range paramTypes {
		names[i] = canon.Canonicalize(t)
	}
	return canon.Canonicalize(owner) + "#" + operation + "::" + strings.Join(names, ":")
}
