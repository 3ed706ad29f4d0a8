package graph

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubgen/internal/host"
	"stubgen/internal/model"
)

const pkg = "example.com/shop."

func class(name string, props ...host.Property) *host.Decl {
	return &host.Decl{TypeName: pkg + name, TypeKind: host.KindClass, Props: props}
}

func prop(name string, use host.TypeUse) host.Property {
	return host.Property{Name: name, Type: use}
}

func table(decls ...*host.Decl) host.MapTable {
	t := host.MapTable{}
	for _, d := range decls {
		t[d.TypeName] = d
	}
	return t
}

func build(t *testing.T, symbols host.SymbolTable, roots ...string) *Graph {
	t.Helper()
	uses := make([]host.TypeUse, len(roots))
	for i, r := range roots {
		uses[i] = host.Named(r)
	}
	g, err := NewBuilder(symbols, DefaultPolicies()).Build(uses)
	require.NoError(t, err)
	return g
}

func TestBuildSelfReference(t *testing.T) {
	node := class("Node",
		prop("value", host.Named("string")),
		prop("next", host.Nullable(host.Named(pkg+"Node"))),
	)

	g := build(t, table(node), pkg+"Node")

	defs := g.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, pkg+"Node", defs[0].Name)
	assert.Equal(t, model.KindClass, defs[0].Kind)
	require.Len(t, defs[0].Properties, 2)
	assert.Equal(t, model.ClientProp{Name: "next", TypeName: pkg + "Node", Nullable: true}, defs[0].Properties[1])
}

func TestBuildIndirectCycle(t *testing.T) {
	a := class("A", prop("b", host.Named(pkg+"B")))
	b := class("B", prop("a", host.Named(pkg+"A")))

	g := build(t, table(a, b), pkg+"A")

	assert.Equal(t, []string{pkg + "A", pkg + "B"}, g.Names())
	require.Len(t, g.Definitions(), 2)
}

func TestBuildDeduplicates(t *testing.T) {
	shared := class("Money", prop("amount", host.Named("int64")))
	order := class("Order", prop("total", host.Named(pkg+"Money")))
	invoice := class("Invoice", prop("due", host.Named(pkg+"Money")))
	symbols := table(shared, order, invoice)

	g := build(t, symbols, pkg+"Order", pkg+"Invoice", pkg+"Order")

	count := 0
	for _, name := range g.Names() {
		if name == pkg+"Money" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, g.Definitions(), 3)
}

func TestBuildCollapsesSpellings(t *testing.T) {
	packet := class("Packet",
		prop("a", host.Named("byte")),
		prop("b", host.Named("uint8")),
		prop("c", host.Nullable(host.Named("*uint8"))),
	)

	g := build(t, table(packet), pkg+"Packet")

	count := 0
	for _, name := range g.Names() {
		if name == "uint8" {
			count++
		}
		assert.NotEqual(t, "byte", name)
	}
	assert.Equal(t, 1, count)

	entry, ok := g.Entry(pkg + "Packet")
	require.True(t, ok)
	for _, p := range entry.Properties {
		assert.Equal(t, "uint8", p.TypeName)
	}
}

func TestBroadIgnoredPropertyTypeIsLinked(t *testing.T) {
	event := class("Event", prop("at", host.Named("time.Time")))
	symbols := table(event)
	symbols["time.Time"] = host.Opaque("time.Time")

	g := build(t, symbols, pkg+"Event")

	_, ok := g.Entry("time.Time")
	assert.True(t, ok, "working graph keeps the entry")
	defs := g.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "time.Time", defs[0].Properties[0].TypeName)
}

func TestProjectionFiltersSupertypes(t *testing.T) {
	base := &host.Decl{TypeName: pkg + "Base", TypeKind: host.KindInterface}
	widget := &host.Decl{
		TypeName: pkg + "Widget",
		TypeKind: host.KindInterface,
		Supers: []host.TypeUse{
			{Anonymous: true},
			host.Named("any"),
			host.Named(pkg + "Base"),
			host.Named("error"),
		},
	}

	g := build(t, table(base, widget), pkg+"Widget")

	entry, ok := g.Entry(pkg + "Widget")
	require.True(t, ok)
	assert.Len(t, entry.SuperTypes, 4, "working graph keeps every edge")

	projected := g.Project()[pkg+"Widget"]
	assert.Equal(t, []model.TypeRef{{Name: pkg + "Base"}}, projected.SuperTypes)

	entry, _ = g.Entry(pkg + "Widget")
	assert.Len(t, entry.SuperTypes, 4, "projection does not mutate the graph")
}

func TestOnlyAnonymousSupertype(t *testing.T) {
	widget := &host.Decl{
		TypeName: pkg + "Widget",
		TypeKind: host.KindInterface,
		Supers:   []host.TypeUse{{Anonymous: true}},
	}

	g := build(t, table(widget), pkg+"Widget")

	entry, _ := g.Entry(pkg + "Widget")
	assert.Len(t, entry.SuperTypes, 1)
	assert.Empty(t, g.Definitions()[0].SuperTypes)
}

func TestUnresolvedSymbol(t *testing.T) {
	order := class("Order", prop("customer", host.Named("example.com/crm.Customer")))

	_, err := NewBuilder(table(order), DefaultPolicies()).Build([]host.TypeUse{host.Named(pkg + "Order")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, host.ErrUnresolved))
	assert.Contains(t, err.Error(), "example.com/crm.Customer")
}

func TestUnsupportedKind(t *testing.T) {
	handler := &host.Decl{TypeName: pkg + "Handler", TypeKind: host.KindUnsupported}
	job := class("Job", prop("run", host.Named(pkg+"Handler")))

	_, err := NewBuilder(table(handler, job), DefaultPolicies()).Build([]host.TypeUse{host.Named(pkg + "Job")})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedKind))
}

func TestAlias(t *testing.T) {
	user := class("User", prop("name", host.Named("string")))
	users := &host.Decl{
		TypeName: pkg + "Users",
		TypeKind: host.KindAlias,
		Alias:    &host.TypeUse{Name: "[]", Args: []host.TypeUse{host.Named(pkg + "User")}},
	}

	g := build(t, table(user, users), pkg+"Users")

	entry, ok := g.Entry(pkg + "Users")
	require.True(t, ok)
	assert.True(t, entry.IsAlias)
	assert.Equal(t, model.KindAlias, entry.Kind)
	assert.Equal(t, "[]", entry.AliasTarget)
	assert.Equal(t, []model.TypeRef{{Name: pkg + "User"}}, entry.AliasGenerics)

	_, ok = g.Entry(pkg + "User")
	assert.True(t, ok, "alias target arguments are expanded")
}

func TestEnumKeepsDeclarationOrder(t *testing.T) {
	color := &host.Decl{
		TypeName: pkg + "Color",
		TypeKind: host.KindEnum,
		Supers:   []host.TypeUse{host.Named("string")},
		Consts: []host.Constant{
			{Name: "RED", Literal: model.StringLiteral("r")},
			{Name: "COUNT", Literal: model.NumberLiteral("3")},
			{Name: "BLUE", Literal: model.StringLiteral("b")},
		},
	}

	g := build(t, table(color), pkg+"Color")

	defs := g.Definitions()
	require.Len(t, defs, 1)
	require.NotNil(t, defs[0].EnumConstants)
	var keys []string
	for pair := defs[0].EnumConstants.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"RED", "COUNT", "BLUE"}, keys)
	assert.Empty(t, defs[0].Properties)
	assert.Empty(t, defs[0].SuperTypes, "enum base type is narrow-ignored")

	entry, _ := g.Entry(pkg + "Color")
	assert.Equal(t, []model.TypeRef{{Name: "string"}}, entry.SuperTypes)
}

func TestExpandableSupertypeProperties(t *testing.T) {
	stamps := &host.Decl{
		TypeName:    pkg + "Timestamps",
		TypeKind:    host.KindClass,
		IsExpanding: true,
		Props: []host.Property{
			prop("createdAt", host.Named("string")),
			prop("id", host.Named("int")),
		},
	}
	plain := class("Plain", prop("hidden", host.Named("string")))
	order := &host.Decl{
		TypeName: pkg + "Order",
		TypeKind: host.KindClass,
		Props:    []host.Property{prop("id", host.Named("string"))},
		Supers:   []host.TypeUse{host.Named(pkg + "Timestamps"), host.Named(pkg + "Plain")},
	}

	g := build(t, table(stamps, plain, order), pkg+"Order")

	entry, _ := g.Entry(pkg + "Order")
	var names []string
	for _, p := range entry.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"id", "createdAt"}, names)
	assert.Equal(t, "string", entry.Properties[0].TypeName, "own property shadows the inherited one")
}

func TestGenericSupertypeSubstitution(t *testing.T) {
	envelope := &host.Decl{
		TypeName:    pkg + "Envelope",
		TypeKind:    host.KindClass,
		Params:      []string{"T"},
		IsExpanding: true,
		Props: []host.Property{
			prop("data", host.TypeUse{Name: "T", Param: true}),
			prop("items", host.Named("[]", host.TypeUse{Name: "T", Param: true})),
		},
	}
	reply := &host.Decl{
		TypeName: pkg + "Reply",
		TypeKind: host.KindClass,
		Supers:   []host.TypeUse{host.Named(pkg+"Envelope", host.Named("string"))},
	}

	g := build(t, table(envelope, reply), pkg+"Reply")

	generic, _ := g.Entry(pkg + "Envelope")
	assert.Equal(t, []model.GenericSlot{{Position: 0, Name: "T"}}, generic.GenericSlots)
	assert.Equal(t, model.ClientProp{Name: "data", TypeName: "T", Generic: true}, generic.Properties[0])

	entry, _ := g.Entry(pkg + "Reply")
	require.Len(t, entry.Properties, 2)
	assert.Equal(t, model.ClientProp{Name: "data", TypeName: "string"}, entry.Properties[0])
	assert.Equal(t, model.ClientProp{
		Name:         "items",
		TypeName:     "[]",
		UsedGenerics: []model.TypeRef{{Name: "string"}},
	}, entry.Properties[1])

	projected := g.Project()[pkg+"Reply"]
	assert.Equal(t, []model.TypeRef{{Name: pkg + "Envelope", Args: []model.TypeRef{{Name: "string"}}}}, projected.SuperTypes)
}

func TestDefinitionsSorted(t *testing.T) {
	b := class("B", prop("a", host.Named(pkg+"A")))
	a := class("A")

	g := build(t, table(a, b), pkg+"B")

	defs := g.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, pkg+"A", defs[0].Name)
	assert.Equal(t, pkg+"B", defs[1].Name)
}

func TestEmbeddedScalarsBecomeProperties(t *testing.T) {
	status := &host.Decl{
		TypeName: pkg + "Status",
		TypeKind: host.KindEnum,
		Supers:   []host.TypeUse{host.Named("string")},
		Consts:   []host.Constant{{Name: "Active", Literal: model.StringLiteral("active")}},
	}
	level := &host.Decl{TypeName: pkg + "Level", TypeKind: host.KindAlias, Alias: &host.TypeUse{Name: "int"}}
	base := class("Base", prop("id", host.Named("string")))
	ref := &host.Decl{TypeName: pkg + "Ref", TypeKind: host.KindAlias, Alias: &host.TypeUse{Name: pkg + "Base"}}
	item := &host.Decl{
		TypeName: pkg + "Item",
		TypeKind: host.KindClass,
		Props:    []host.Property{prop("Level", host.Named("string"))},
		Supers: []host.TypeUse{
			host.Named(pkg + "Status"),
			host.Nullable(host.Named(pkg + "Level")),
			host.Named(pkg + "Base"),
			host.Named(pkg + "Ref"),
		},
	}

	g := build(t, table(status, level, base, ref, item), pkg+"Item")

	entry, ok := g.Entry(pkg + "Item")
	require.True(t, ok)
	assert.Equal(t, []model.TypeRef{{Name: pkg + "Base"}, {Name: pkg + "Ref"}}, entry.SuperTypes)
	assert.Equal(t, []model.ClientProp{
		{Name: "Level", TypeName: "string"},
		{Name: "Status", TypeName: pkg + "Status"},
	}, entry.Properties, "an own property shadows an embedded scalar")
}

func TestInterfaceEmbeddingKeepsEdges(t *testing.T) {
	status := &host.Decl{TypeName: pkg + "Status", TypeKind: host.KindEnum}
	shape := &host.Decl{
		TypeName: pkg + "Shape",
		TypeKind: host.KindInterface,
		Supers:   []host.TypeUse{host.Named(pkg + "Status")},
	}

	g := build(t, table(status, shape), pkg+"Shape")

	entry, _ := g.Entry(pkg + "Shape")
	assert.Len(t, entry.SuperTypes, 1)
	assert.Empty(t, entry.Properties)
}
