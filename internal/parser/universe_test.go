package parser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubgen/internal/canon"
	"stubgen/internal/host"
)

const (
	shopPath = "stubgen/examples/shop"
	apiPath  = "stubgen/examples/shop/api"
)

func loadShop(t *testing.T) *Universe {
	t.Helper()
	p := New("")
	models, err := p.ParseSource(shopPath, filepath.Join("..", "..", "examples", "shop", "models.go"), nil)
	require.NoError(t, err)
	api, err := p.ParseSource(apiPath, filepath.Join("..", "..", "examples", "shop", "api", "service.go"), nil)
	require.NoError(t, err)

	u := NewUniverse(canon.Broad("github.com/google/uuid.UUID"))
	u.Add(models)
	u.Add(api)
	return u
}

func TestExampleModels(t *testing.T) {
	u := loadShop(t)
	models, ok := u.Package(shopPath)
	require.True(t, ok)

	role := models.Types[shopPath+".Role"]
	require.NotNil(t, role)
	assert.Equal(t, host.KindEnum, role.Kind())
	assert.Equal(t, []host.Constant{
		{Name: "RoleAdmin", Literal: []byte(`"admin"`)},
		{Name: "RoleMember", Literal: []byte(`"member"`)},
	}, role.Constants())

	status := models.Types[shopPath+".OrderStatus"]
	require.NotNil(t, status)
	assert.Len(t, status.Constants(), 3)

	assert.True(t, models.Types[shopPath+".Timestamps"].Expandable())
	assert.Equal(t, []host.TypeUse{host.Named(shopPath + ".Timestamps")}, models.Types[shopPath+".Order"].SuperTypes())

	for _, p := range models.Types[shopPath+".User"].Properties() {
		assert.NotEqual(t, "password", p.Name)
	}
	assert.Equal(t, host.KindAlias, models.Types[shopPath+".ProductCategory"].Kind())
	assert.Equal(t, []string{"T"}, models.Types[shopPath+".Page"].TypeParams())
}

func TestExampleServices(t *testing.T) {
	u := loadShop(t)

	services := u.Services()
	require.Len(t, services, 2)
	assert.Equal(t, apiPath+".Orders", services[0].Name())
	assert.Equal(t, apiPath+".Catalog", services[1].Name())

	ops, err := services[0].Operations()
	require.NoError(t, err)
	var names []string
	for _, op := range ops {
		names = append(names, op.Name())
	}
	assert.Equal(t, []string{"Get", "List", "Cancel"}, names)

	list, _ := ops[1].Result()
	assert.Equal(t, host.Named(shopPath+".Page", host.Named(shopPath+".Order")), list)
	assert.Equal(t, []host.Parameter{
		{Name: "userID", Type: host.Named("github.com/google/uuid.UUID")},
		{Name: "cursor", Type: host.Named("string")},
	}, ops[1].Params())
}

func TestUniverseLookup(t *testing.T) {
	u := loadShop(t)

	tests := []struct {
		name  string
		found bool
		kind  host.Kind
	}{
		{shopPath + ".User", true, host.KindClass},
		{"*" + shopPath + ".User", true, host.KindClass},
		{"string", true, host.KindClass},
		{"time.Time", true, host.KindClass},
		{"github.com/google/uuid.UUID", true, host.KindClass},
		{shopPath + ".Missing", false, 0},
		{"example.com/crm.Customer", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := u.Lookup(tt.name)
			assert.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.kind, d.Kind())
			}
		})
	}
}

func TestUniverseAddReplaces(t *testing.T) {
	u := NewUniverse(nil)
	first := &Package{Path: shopPath, Types: map[string]*host.Decl{}}
	second := &Package{Path: shopPath, Types: map[string]*host.Decl{
		shopPath + ".User": {TypeName: shopPath + ".User", TypeKind: host.KindClass},
	}}

	u.Add(first)
	_, ok := u.Lookup(shopPath + ".User")
	assert.False(t, ok)

	u.Add(second)
	_, ok = u.Lookup(shopPath + ".User")
	assert.True(t, ok)
	assert.Empty(t, u.Services())
}
