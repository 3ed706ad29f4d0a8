package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubgen/internal/model"
)

func sampleDocument() *model.ApiStubDocument {
	ret := model.ClientProp{TypeName: pkg + "Widget", Nullable: true}
	return &model.ApiStubDocument{
		Services: []model.ClientService{{
			TypeName: pkg + "Widgets",
			Operations: []model.ClientOperation{
				{
					Name:        "Get",
					OverloadKey: pkg + "Widgets#Get::string",
					Parameters:  []model.ClientProp{{Name: "id", TypeName: "string"}},
					ReturnType:  &ret,
				},
				{
					Name:        "Delete",
					OverloadKey: pkg + "Widgets#Delete::string",
					Parameters:  []model.ClientProp{{Name: "id", TypeName: "string"}},
				},
			},
		}},
		Definitions: []model.ClientType{{
			Name:       pkg + "Widget",
			Kind:       model.KindInterface,
			Properties: []model.ClientProp{{Name: "id", TypeName: "string"}},
			Doc:        "Widget is a widget.",
		}},
	}
}

func TestDirSinkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	doc := sampleDocument()

	path, err := DirSink{Dir: dir}.Write(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DefaultNamespace), filepath.Dir(path))
	base := filepath.Base(path)
	require.True(t, strings.HasSuffix(base, "-api-stub.json"), base)
	_, err = uuid.Parse(strings.TrimSuffix(base, "-api-stub.json"))
	assert.NoError(t, err, "file name starts with a uuid")

	read, err := ReadDocument(path)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, read); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestDirSinkNamespace(t *testing.T) {
	dir := t.TempDir()

	path, err := DirSink{Dir: dir, Namespace: "billing"}.Write(context.Background(), sampleDocument())

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "billing"), filepath.Dir(path))
}

func TestEncodeKeepsEnumOrder(t *testing.T) {
	color := model.ClientType{Name: pkg + "Color", Kind: model.KindEnum, EnumConstants: model.NewEnumValues()}
	color.EnumConstants.Set("RED", model.StringLiteral("r"))
	color.EnumConstants.Set("COUNT", model.NumberLiteral("3"))
	color.EnumConstants.Set("BLUE", model.StringLiteral("b"))
	doc := &model.ApiStubDocument{Services: []model.ClientService{}, Definitions: []model.ClientType{color}}

	data, err := Encode(doc)
	require.NoError(t, err)
	text := string(data)
	red := strings.Index(text, `"RED": "r"`)
	count := strings.Index(text, `"COUNT": 3`)
	blue := strings.Index(text, `"BLUE": "b"`)
	require.True(t, red >= 0 && count >= 0 && blue >= 0, text)
	assert.Less(t, red, count)
	assert.Less(t, count, blue)

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	read, err := ReadDocument(path)
	require.NoError(t, err)
	var keys []string
	for pair := read.Definitions[0].EnumConstants.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"RED", "COUNT", "BLUE"}, keys)
	v, _ := read.Definitions[0].EnumConstants.Get("COUNT")
	assert.JSONEq(t, "3", string(v))
}

func TestVoidOperationEncodesNullReturn(t *testing.T) {
	data, err := Encode(sampleDocument())
	require.NoError(t, err)

	assert.Contains(t, string(data), `"returnType": null`)
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	sink := DirSink{Dir: dir}

	first, err := sink.Write(context.Background(), sampleDocument())
	require.NoError(t, err)
	second, err := sink.Write(context.Background(), sampleDocument())
	require.NoError(t, err)

	older := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(first, older, older))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultNamespace, "notes.txt"), []byte("x"), 0o644))

	latest, err := Latest(dir, "")
	require.NoError(t, err)
	assert.Equal(t, second, latest)
}

func TestLatestEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, DefaultNamespace), 0o755))

	_, err := Latest(dir, "")
	assert.Error(t, err)
}

func TestMemorySink(t *testing.T) {
	sink := &MemorySink{}

	location, err := sink.Write(context.Background(), sampleDocument())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "memory://"))
	assert.Len(t, sink.Documents(), 1)
}
