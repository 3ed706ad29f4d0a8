// Package generator renders API stub document entries as TypeScript source
// files.
package generator

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"stubgen/internal/canon"
	"stubgen/internal/config"
	"stubgen/internal/logger"
	"stubgen/internal/model"
)

// defaultServiceTemplate renders a service as a client interface.
const defaultServiceTemplate = `{{with docComment .Doc}}{{.}}
{{end}}export interface {{.Name}} {
{{- range .Operations}}
{{- with docComment .Doc}}
{{indent "  " .}}{{end}}
  {{camelCase .Name}}({{range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Name}}{{if $p.Optional}}?{{end}}: {{$p.Type}}{{end}}): Promise<{{.Returns}}>
{{- end}}
}
`

// Generator renders the entries of one document.
type Generator struct {
	config   *config.Config
	template *template.Template
	log      *zap.SugaredLogger

	defs  map[string]model.ClientType
	names map[string]string // canonical name to emitted name
	// emitted holds the canonical names that get a file; references to
	// anything else render as unknown.
	emitted map[string]bool
}

// New creates a Generator for doc. Every definition of doc is available
// for rendering.
func New(cfg *config.Config, doc *model.ApiStubDocument) *Generator {
	g := &Generator{
		config:  cfg,
		log:     logger.Named("generator"),
		defs:    make(map[string]model.ClientType, len(doc.Definitions)),
		emitted: make(map[string]bool, len(doc.Definitions)),
	}
	g.template = template.Must(template.New("service").
		Funcs(templateFuncs(cfg)).
		Parse(defaultServiceTemplate))

	var requests []nameRequest
	for _, d := range doc.Definitions {
		g.defs[d.Name] = d
		g.emitted[d.Name] = true
		requests = append(requests, definitionName(d.Name))
	}
	for _, s := range doc.Services {
		requests = append(requests, serviceName(s.TypeName))
	}
	g.names = assignNames(requests)
	return g
}

// LoadTemplate replaces the service template with the template in path.
func (g *Generator) LoadTemplate(path string) error {
	tmpl, err := template.New(filepath.Base(path)).
		Funcs(templateFuncs(g.config)).
		ParseFiles(path)
	if err != nil {
		return errors.Wrap(err, "loading template")
	}
	g.template = tmpl
	return nil
}

// Generate renders the selected definitions, the services and the index
// barrel. Definitions referenced by selected ones are emitted as well unless
// explicitly excluded.
func (g *Generator) Generate(doc *model.ApiStubDocument) ([]*SourceFile, error) {
	var services []model.ClientService
	if g.config.Options.EmitServices {
		for _, s := range doc.Services {
			if g.config.ShouldIncludeType(s.TypeName) {
				services = append(services, s)
			}
		}
	}
	selected := g.selection(doc, services)
	g.emitted = selected

	var files []*SourceFile
	for _, d := range doc.Definitions {
		if !selected[d.Name] {
			continue
		}
		f, err := g.Render(d)
		if err != nil {
			return nil, errors.Wrapf(err, "rendering %s", d.Name)
		}
		files = append(files, f)
	}
	for _, s := range services {
		f, err := g.RenderService(s)
		if err != nil {
			return nil, errors.Wrapf(err, "rendering service %s", s.TypeName)
		}
		files = append(files, f)
	}
	if g.config.Options.EmitIndex && len(files) > 0 {
		files = append(files, Index(files))
	}

	g.log.Debugw("rendered files", logger.FieldCount, len(files))
	return files, nil
}

// selection returns the definitions to emit: those passing the include and
// exclude lists plus everything they or the services reference.
func (g *Generator) selection(doc *model.ApiStubDocument, services []model.ClientService) map[string]bool {
	selected := make(map[string]bool)
	var queue []string
	add := func(name string) {
		if _, ok := g.defs[name]; !ok || selected[name] {
			return
		}
		selected[name] = true
		queue = append(queue, name)
	}
	for _, d := range doc.Definitions {
		if g.config.ShouldIncludeType(d.Name) {
			add(d.Name)
		}
	}
	follow := func(ref model.TypeRef) {
		walkRef(ref, func(name string) {
			if excluded(g.config, name) {
				return
			}
			add(name)
		})
	}
	for _, s := range services {
		for _, op := range s.Operations {
			for _, p := range op.Parameters {
				follow(p.Ref())
			}
			if op.ReturnType != nil {
				follow(op.ReturnType.Ref())
			}
		}
	}
	for len(queue) > 0 {
		d := g.defs[queue[0]]
		queue = queue[1:]
		for _, p := range d.Properties {
			follow(p.Ref())
		}
		for _, s := range d.SuperTypes {
			follow(s)
		}
		if d.IsAlias {
			follow(model.TypeRef{Name: d.AliasTarget, Args: d.AliasGenerics})
		}
	}
	return selected
}

func excluded(cfg *config.Config, name string) bool {
	for _, t := range cfg.Options.ExcludeTypes {
		if t == name || t == canon.Short(name) {
			return true
		}
	}
	return false
}

func walkRef(ref model.TypeRef, visit func(string)) {
	if ref.Anonymous || ref.Generic {
		return
	}
	visit(ref.Name)
	for _, a := range ref.Args {
		walkRef(a, visit)
	}
}

// Render produces the file for one definition.
func (g *Generator) Render(entry model.ClientType) (*SourceFile, error) {
	name := g.emittedName(entry.Name)
	if name == "" {
		return nil, ErrAnonymousName
	}
	f := NewSourceFile(name)

	var generics []Name
	slots := append([]model.GenericSlot(nil), entry.GenericSlots...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Position < slots[j].Position })
	for _, s := range slots {
		generics = append(generics, Generic{Name: s.Name})
	}

	switch {
	case entry.IsAlias || entry.Kind == model.KindAlias:
		expr, err := g.typeExpr(model.TypeRef{Name: entry.AliasTarget, Args: entry.AliasGenerics}, f)
		if err != nil {
			return nil, err
		}
		f.Scopes = append(f.Scopes, TypeAlias{Name: Plain{Name: name}, Generics: generics, Expr: expr, Doc: entry.Doc})

	case entry.Kind == model.KindEnum:
		enum := Enum{Name: Plain{Name: name}, Doc: entry.Doc}
		if entry.EnumConstants != nil {
			for pair := entry.EnumConstants.Oldest(); pair != nil; pair = pair.Next() {
				enum.Members = append(enum.Members, EnumMember{Name: pair.Key, Literal: pair.Value})
			}
		}
		f.Scopes = append(f.Scopes, enum)

	case entry.Kind == model.KindClass || entry.Kind == model.KindInterface:
		iface := Interface{Name: Plain{Name: name}, Generics: generics, Doc: entry.Doc}
		for _, s := range entry.SuperTypes {
			// A supertype without a file of its own has nothing to extend.
			if s.Anonymous || (!s.Generic && !g.emitted[s.Name]) {
				continue
			}
			expr, err := g.typeExpr(model.TypeRef{Name: s.Name, Generic: s.Generic, Args: s.Args}, f)
			if err != nil {
				return nil, err
			}
			iface.Extends = append(iface.Extends, expr)
		}
		for _, p := range entry.Properties {
			expr, err := g.typeExpr(p.Ref(), f)
			if err != nil {
				return nil, errors.Wrapf(err, "property %s", p.Name)
			}
			iface.Members = append(iface.Members, Member{Name: p.Name, Type: expr, Optional: p.Optional, Doc: p.Doc})
		}
		f.Scopes = append(f.Scopes, iface)

	default:
		return nil, errors.Newf("%s: unknown kind %q", entry.Name, entry.Kind)
	}

	f.Exports = append(f.Exports, LocallyDeclared{Name: Plain{Name: name}})
	return f, nil
}

type serviceData struct {
	Name       string
	Doc        string
	Operations []operationData
}

type operationData struct {
	Name    string
	Doc     string
	Params  []paramData
	Returns string
}

type paramData struct {
	Name     string
	Type     string
	Optional bool
}

// RenderService produces the client interface file of a service.
func (g *Generator) RenderService(svc model.ClientService) (*SourceFile, error) {
	name, ok := g.names[serviceKey(svc.TypeName)]
	if !ok {
		name = ServiceName(svc.TypeName)
	}
	f := NewSourceFile(name)

	data := serviceData{Name: name, Doc: svc.Doc}
	for _, op := range svc.Operations {
		od := operationData{Name: op.Name, Doc: op.Doc, Returns: "void"}
		for _, p := range op.Parameters {
			expr, err := g.typeExpr(p.Ref(), f)
			if err != nil {
				return nil, errors.Wrapf(err, "%s parameter %s", op.Name, p.Name)
			}
			od.Params = append(od.Params, paramData{Name: p.Name, Type: expr, Optional: p.Optional})
		}
		if op.ReturnType != nil {
			expr, err := g.typeExpr(op.ReturnType.Ref(), f)
			if err != nil {
				return nil, errors.Wrapf(err, "%s result", op.Name)
			}
			od.Returns = expr
		}
		data.Operations = append(data.Operations, od)
	}

	var body strings.Builder
	if err := g.template.Execute(&body, data); err != nil {
		return nil, errors.Wrapf(err, "executing template for %s", svc.TypeName)
	}
	f.Scopes = append(f.Scopes, Utility{Body: body.String()})
	f.Exports = append(f.Exports, LocallyDeclared{Name: Plain{Name: name}})
	return f, nil
}

// ServiceName is the emitted name of the client interface of a service.
func ServiceName(typeName string) string {
	return canon.Short(typeName) + "Client"
}

// Index returns a barrel re-exporting every file once.
func Index(files []*SourceFile) *SourceFile {
	index := NewSourceFile(indexName)
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		from := "./" + f.FileName
		if seen[from] {
			continue
		}
		seen[from] = true
		index.Exports = append(index.Exports, StarReexport{From: from})
	}
	return index
}

// typeExpr renders ref as a TypeScript type expression, importing the
// definitions it references into f.
func (g *Generator) typeExpr(ref model.TypeRef, f *SourceFile) (string, error) {
	if ref.Anonymous || ref.Name == "" {
		return "", ErrAnonymousName
	}

	var text string
	switch {
	case ref.Generic:
		text = ref.Name

	case ref.Name == canon.Slice && len(ref.Args) == 1:
		elem, err := g.typeExpr(ref.Args[0], f)
		if err != nil {
			return "", err
		}
		if strings.Contains(elem, " ") {
			elem = "(" + elem + ")"
		}
		text = elem + "[]"

	case ref.Name == canon.Map && len(ref.Args) == 2:
		key, err := g.typeExpr(ref.Args[0], f)
		if err != nil {
			return "", err
		}
		value, err := g.typeExpr(ref.Args[1], f)
		if err != nil {
			return "", err
		}
		text = "Record<" + key + ", " + value + ">"

	default:
		if mapped, ok := g.config.MapType(ref.Name); ok {
			text = mapped
			break
		}
		if !g.emitted[ref.Name] {
			text = "unknown"
			break
		}
		name := g.emittedName(ref.Name)
		f.Use(name, "./"+name)
		text = name
		if len(ref.Args) > 0 {
			args := make([]string, len(ref.Args))
			for i, a := range ref.Args {
				arg, err := g.typeExpr(a, f)
				if err != nil {
					return "", err
				}
				args[i] = arg
			}
			text += "<" + strings.Join(args, ", ") + ">"
		}
	}

	if ref.Nullable {
		text += " | null"
	}
	return text, nil
}

func (g *Generator) emittedName(canonical string) string {
	if name, ok := g.names[canonical]; ok {
		return name
	}
	return canon.Short(canonical)
}

// indexName is the file name of the barrel; no entry may take it.
const indexName = "index"

// nameRequest asks for an emitted name. Key identifies the requester in the
// resulting map; short and pkg drive collision handling.
type nameRequest struct {
	key   string
	short string
	pkg   string
}

func definitionName(canonical string) nameRequest {
	return nameRequest{key: canonical, short: canon.Short(canonical), pkg: canon.Package(canonical)}
}

func serviceName(typeName string) nameRequest {
	return nameRequest{key: serviceKey(typeName), short: ServiceName(typeName), pkg: canon.Package(typeName)}
}

// serviceKey keeps service names apart from definitions of the same
// canonical name.
func serviceKey(typeName string) string {
	return "service " + typeName
}

// assignNames maps request keys to emitted names. Short names are used
// unless several requests share one; those are prefixed with their package
// name, or with their whole package path if that still collides. Names
// still taken after that get a numeric suffix in request order.
func assignNames(requests []nameRequest) map[string]string {
	byShort := make(map[string][]nameRequest)
	for _, r := range requests {
		byShort[r.short] = append(byShort[r.short], r)
	}

	candidate := make(map[string]string, len(requests))
	for short, group := range byShort {
		if len(group) == 1 {
			candidate[group[0].key] = short
			continue
		}
		taken := make(map[string]int)
		full := make(map[string]int)
		for _, r := range group {
			taken[packagePrefix(r.pkg)]++
			full[pascalCase(r.pkg)]++
		}
		for _, r := range group {
			switch prefix := packagePrefix(r.pkg); {
			case taken[prefix] == 1:
				candidate[r.key] = prefix + short
			case full[pascalCase(r.pkg)] == 1:
				candidate[r.key] = pascalCase(r.pkg) + short
			default:
				candidate[r.key] = short
			}
		}
	}

	out := make(map[string]string, len(requests))
	used := map[string]bool{indexName: true}
	for _, r := range requests {
		if _, done := out[r.key]; done {
			continue
		}
		name := candidate[r.key]
		for n := 2; used[name]; n++ {
			name = candidate[r.key] + strconv.Itoa(n)
		}
		used[name] = true
		out[r.key] = name
	}
	return out
}

func packagePrefix(pkg string) string {
	if i := strings.LastIndexByte(pkg, '/'); i >= 0 {
		pkg = pkg[i+1:]
	}
	return pascalCase(pkg)
}
