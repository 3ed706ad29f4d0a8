// Package parser reads Go source into host declarations: types, enum-like
// constants and annotated services.
package parser

import (
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"stubgen/internal/canon"
	"stubgen/internal/host"
)

// DefaultDirective is the comment directive prefix, as in //stubgen:service.
const DefaultDirective = "stubgen"

// Directive names understood after the prefix.
const (
	dirService   = "service"
	dirOperation = "operation"
	dirExpand    = "expand"
	dirIgnore    = "ignore"
)

// Package holds the declarations of one Go package.
type Package struct {
	Path     string                // Import path
	Name     string                // Package name
	Types    map[string]*host.Decl // Declarations keyed by canonical name
	Services []*host.ServiceDecl   // Annotated services in source order
	order    []string
}

// TypeNames returns the canonical names of the package's declarations in
// source order.
func (p *Package) TypeNames() []string {
	return append([]string(nil), p.order...)
}

// Candidates returns the annotated services as host services.
func (p *Package) Candidates() []host.Service {
	out := make([]host.Service, len(p.Services))
	for i, s := range p.Services {
		out[i] = s
	}
	return out
}

// Parser parses Go source files and extracts host declarations.
type Parser struct {
	fset      *token.FileSet
	directive string
}

// New creates a new Parser using the given directive prefix.
func New(directive string) *Parser {
	if directive == "" {
		directive = DefaultDirective
	}
	return &Parser{
		fset:      token.NewFileSet(),
		directive: directive,
	}
}

// FileSet returns the file set positions are recorded in.
func (p *Parser) FileSet() *token.FileSet { return p.fset }

// ParseSource parses a single file from src (a string, []byte or nil to read
// filename) as package pkgPath.
func (p *Parser) ParseSource(pkgPath, filename string, src any) (*Package, error) {
	file, err := parser.ParseFile(p.fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	return p.ParseFiles(pkgPath, []*ast.File{file})
}

// ParseFiles extracts the declarations of already parsed files belonging to
// package pkgPath.
func (p *Parser) ParseFiles(pkgPath string, files []*ast.File) (*Package, error) {
	if len(files) == 0 {
		return nil, errors.Newf("package %s has no files", pkgPath)
	}
	pkg := &Package{
		Path:  pkgPath,
		Name:  files[0].Name.Name,
		Types: make(map[string]*host.Decl),
	}
	b := &pkgBuilder{
		parser:   p,
		pkg:      pkg,
		consts:   newConstTable(),
		services: make(map[string]*serviceInfo),
	}
	for _, f := range files {
		b.collectTypes(f)
	}
	for _, f := range files {
		b.collectConsts(f)
	}
	for _, f := range files {
		b.collectMethods(f)
	}
	b.finish()
	return pkg, nil
}

// pkgBuilder accumulates the declarations of one package across its files.
type pkgBuilder struct {
	parser   *Parser
	pkg      *Package
	consts   *constTable
	services map[string]*serviceInfo
	svcOrder []string
	// defined records types declared over a basic type; they become enums
	// when typed constants exist.
	defined map[string]string
}

// fileScope resolves identifiers within one file.
type fileScope struct {
	pkgPath string
	imports map[string]string // local name -> import path
	params  map[string]bool   // type parameters in scope
}

func (s fileScope) withParams(names []string) fileScope {
	params := make(map[string]bool, len(s.params)+len(names))
	for k := range s.params {
		params[k] = true
	}
	for _, n := range names {
		params[n] = true
	}
	s.params = params
	return s
}

func (b *pkgBuilder) scope(file *ast.File) fileScope {
	return fileScope{
		pkgPath: b.pkg.Path,
		imports: extractImports(file),
	}
}

// extractImports maps each import's local name to its path.
func extractImports(file *ast.File) map[string]string {
	imports := make(map[string]string)
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		name := guessPackageName(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = path
	}
	return imports
}

// guessPackageName derives the conventional package name from an import
// path: gopkg.in/yaml.v3 -> yaml, example.com/api/v2 -> api, go-foo -> foo.
func guessPackageName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(name) {
		name = parts[len(parts)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 && isMajorVersion(name[i+1:]) {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.ReplaceAll(name, "-", "_")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// collectTypes extracts every type declaration of a file.
func (b *pkgBuilder) collectTypes(file *ast.File) {
	scope := b.scope(file)
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			b.extractType(typeSpec, doc, scope)
		}
	}
}

// extractType converts one type spec into a declaration.
func (b *pkgBuilder) extractType(spec *ast.TypeSpec, doc *ast.CommentGroup, scope fileScope) {
	dirs := b.parser.directives(doc)
	if dirs[dirIgnore] {
		return
	}
	name := canon.Qualify(b.pkg.Path, spec.Name.Name)
	params := typeParamNames(spec.TypeParams)
	scope = scope.withParams(params)

	d := &host.Decl{
		TypeName:    name,
		Comment:     commentText(doc),
		Params:      params,
		IsExpanding: dirs[dirExpand],
	}

	switch typeExpr := spec.Type.(type) {
	case *ast.StructType:
		d.TypeKind = host.KindClass
		d.Props, d.Supers = b.extractFields(typeExpr.Fields, scope)

	case *ast.InterfaceType:
		d.TypeKind = host.KindInterface
		d.Supers = extractEmbeddedInterfaces(typeExpr, scope)

	case *ast.FuncType, *ast.ChanType:
		d.TypeKind = host.KindUnsupported

	default:
		use, ok := typeUse(typeExpr, scope)
		if !ok {
			d.TypeKind = host.KindUnsupported
			break
		}
		d.TypeKind = host.KindAlias
		d.Alias = &use
		if !spec.Assign.IsValid() && len(use.Args) == 0 && !use.Param && isBasic(use.Name) {
			if b.defined == nil {
				b.defined = make(map[string]string)
			}
			b.defined[name] = use.Name
		}
	}

	if dirs[dirService] {
		b.addService(name, d.Comment, typeParamNames(spec.TypeParams), spec.Type, scope)
	}

	if _, exists := b.pkg.Types[name]; !exists {
		b.pkg.order = append(b.pkg.order, name)
	}
	b.pkg.Types[name] = d
}

func isBasic(name string) bool {
	switch name {
	case canon.Slice, canon.Map, canon.Bytes, canon.Object, canon.Any, canon.Error:
		return false
	}
	return canon.IsBuiltin(name)
}

func typeParamNames(fl *ast.FieldList) []string {
	if fl == nil {
		return nil
	}
	var names []string
	for _, f := range fl.List {
		for _, n := range f.Names {
			names = append(names, n.Name)
		}
	}
	return names
}

// extractFields extracts properties and embedded supertypes from a struct.
func (b *pkgBuilder) extractFields(fieldList *ast.FieldList, scope fileScope) ([]host.Property, []host.TypeUse) {
	if fieldList == nil {
		return nil, nil
	}

	var props []host.Property
	var supers []host.TypeUse
	for _, f := range fieldList.List {
		if b.parser.directives(f.Doc)[dirIgnore] {
			continue
		}
		tag := parseTag(f.Tag)
		if tag.Skip {
			continue
		}
		use, ok := typeUse(f.Type, scope)
		if !ok {
			// func and chan fields have no JSON form
			continue
		}
		doc := fieldComment(f)

		if len(f.Names) == 0 {
			embedded := embeddedName(f.Type)
			if !ast.IsExported(embedded) {
				continue
			}
			if tag.Name == "" {
				supers = append(supers, use)
				continue
			}
			// A tagged embedded field is serialized as a named property.
			props = append(props, host.Property{Name: tag.Name, Type: use, Optional: tag.Omitempty, Doc: doc})
			continue
		}

		for _, name := range f.Names {
			if !ast.IsExported(name.Name) {
				continue
			}
			propName := name.Name
			if tag.Name != "" {
				propName = tag.Name
			}
			props = append(props, host.Property{Name: propName, Type: use, Optional: tag.Omitempty, Doc: doc})
		}
	}
	return props, supers
}

// embeddedName returns the type name of an embedded field.
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	}
	return ""
}

// extractEmbeddedInterfaces returns the embedded elements of an interface.
// Literal interfaces and type-set terms are recorded as anonymous uses.
func extractEmbeddedInterfaces(it *ast.InterfaceType, scope fileScope) []host.TypeUse {
	if it.Methods == nil {
		return nil
	}
	var supers []host.TypeUse
	for _, f := range it.Methods.List {
		if len(f.Names) > 0 {
			continue
		}
		switch f.Type.(type) {
		case *ast.Ident, *ast.SelectorExpr, *ast.IndexExpr, *ast.IndexListExpr:
			if use, ok := typeUse(f.Type, scope); ok {
				supers = append(supers, use)
				continue
			}
		}
		supers = append(supers, host.TypeUse{Anonymous: true})
	}
	return supers
}

// fieldTag is the JSON view of a struct tag.
type fieldTag struct {
	Name      string
	Omitempty bool
	Skip      bool
}

// parseTag parses the json key of a struct tag.
func parseTag(lit *ast.BasicLit) fieldTag {
	if lit == nil {
		return fieldTag{}
	}
	raw := strings.Trim(lit.Value, "`")
	value, ok := reflect.StructTag(raw).Lookup("json")
	if !ok {
		return fieldTag{}
	}
	parts := strings.Split(value, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return fieldTag{Skip: true}
	}
	tag := fieldTag{Name: parts[0]}
	for _, opt := range parts[1:] {
		if opt == "omitempty" || opt == "omitzero" {
			tag.Omitempty = true
		}
	}
	return tag
}

// directives returns the directive names present in a comment group.
func (p *Parser) directives(cg *ast.CommentGroup) map[string]bool {
	dirs := make(map[string]bool)
	if cg == nil {
		return dirs
	}
	prefix := "//" + p.directive + ":"
	for _, c := range cg.List {
		if !strings.HasPrefix(c.Text, prefix) {
			continue
		}
		rest := strings.TrimPrefix(c.Text, prefix)
		if f := strings.Fields(rest); len(f) > 0 {
			dirs[f[0]] = true
		}
	}
	return dirs
}

// fieldComment prefers the doc comment over the trailing line comment.
func fieldComment(f *ast.Field) string {
	if text := commentText(f.Doc); text != "" {
		return text
	}
	return commentText(f.Comment)
}

// commentText extracts text from a comment group. Directive lines are
// dropped by ast.CommentGroup.Text.
func commentText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return strings.TrimSpace(cg.Text())
}
