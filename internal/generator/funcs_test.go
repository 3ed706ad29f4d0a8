package generator

import (
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubgen/internal/config"
)

func TestCasing(t *testing.T) {
	tests := []struct {
		in     string
		camel  string
		pascal string
		snake  string
		kebab  string
	}{
		{"GetUser", "getUser", "GetUser", "get_user", "get-user"},
		{"user_id", "userId", "UserId", "user_id", "user-id"},
		{"UserID", "userId", "UserId", "user_id", "user-id"},
		{"HTTPServer", "httpServer", "HttpServer", "http_server", "http-server"},
		{"example.com/crm", "exampleComCrm", "ExampleComCrm", "example_com_crm", "example-com-crm"},
		{"ListV2Orders", "listV2Orders", "ListV2Orders", "list_v2_orders", "list-v2-orders"},
		{"", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.camel, camelCase(tt.in))
			assert.Equal(t, tt.pascal, pascalCase(tt.in))
			assert.Equal(t, tt.snake, snakeCase(tt.in))
			assert.Equal(t, tt.kebab, kebabCase(tt.in))
		})
	}
}

func TestFormatDocComment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  ", ""},
		{"single line", "Returns a user.", "/** Returns a user. */"},
		{"multi line", "First.\n\nSecond.", "/**\n * First.\n *\n * Second.\n */"},
		{"closing marker", "a */ b", "/** a *\\/ b */"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDocComment(tt.in))
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "  a\n  b", indent("  ", "a\nb"))
	assert.Equal(t, "", indent("  ", ""))
	assert.Equal(t, `'it\'s'`, quote("it's"))
	assert.Equal(t, "userId", propertyName("userId"))
	assert.Equal(t, "'2fa'", propertyName("2fa"))
	assert.Equal(t, "''", propertyName(""))
}

func TestTemplateFuncsOmitUnusedHelpers(t *testing.T) {
	funcs := templateFuncs(config.New())

	for _, name := range []string{"comment", "default", "ternary"} {
		assert.NotContains(t, funcs, name)
	}
}

func TestTemplateFuncs(t *testing.T) {
	tmpl, err := template.New("t").Funcs(templateFuncs(config.New())).
		Parse(`{{clientName "example.com/shop.Orders"}} {{shortName "example.com/shop.User"}} {{mapType "bool"}} {{mapType "example.com/shop.User"}} {{kebabCase "ListOrders"}}`)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, tmpl.Execute(&b, nil))
	assert.Equal(t, "OrdersClient User boolean example.com/shop.User list-orders", b.String())
}
