package parser

import (
	"fmt"
	"go/ast"

	"github.com/cockroachdb/errors"

	"stubgen/internal/canon"
	"stubgen/internal/host"
)

// ErrUnsupportedSignature is returned for operations whose signature has no
// client form, such as several non-error results or a func parameter.
var ErrUnsupportedSignature = errors.New("unsupported operation signature")

const contextType = "context.Context"

type serviceInfo struct {
	decl  *host.ServiceDecl
	scope fileScope
}

// addService registers an annotated type as a service. Interface methods are
// read immediately; methods of other types are gathered by collectMethods.
func (b *pkgBuilder) addService(name, doc string, params []string, typeExpr ast.Expr, scope fileScope) {
	if _, ok := b.services[name]; ok {
		return
	}
	info := &serviceInfo{
		decl:  &host.ServiceDecl{TypeName: name, Comment: doc},
		scope: scope.withParams(params),
	}
	b.services[name] = info
	b.svcOrder = append(b.svcOrder, name)

	it, ok := typeExpr.(*ast.InterfaceType)
	if !ok || it.Methods == nil {
		return
	}
	for _, m := range it.Methods.List {
		ft, ok := m.Type.(*ast.FuncType)
		if !ok || len(m.Names) == 0 || !b.parser.directives(m.Doc)[dirOperation] {
			continue
		}
		for _, n := range m.Names {
			b.addOperation(info, n.Name, commentText(m.Doc), ft, info.scope)
		}
	}
}

// collectMethods attaches annotated methods to the services declared on
// their receiver type.
func (b *pkgBuilder) collectMethods(file *ast.File) {
	scope := b.scope(file)
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}
		if !b.parser.directives(fn.Doc)[dirOperation] {
			continue
		}
		recv, params := receiverName(fn.Recv.List[0].Type)
		info, ok := b.services[canon.Qualify(b.pkg.Path, recv)]
		if !ok {
			continue
		}
		b.addOperation(info, fn.Name.Name, commentText(fn.Doc), fn.Type, scope.withParams(params))
	}
}

// receiverName returns the base type name of a receiver and the names it
// binds to the type's parameters.
func receiverName(expr ast.Expr) (string, []string) {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name, nil
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		name, _ := receiverName(t.X)
		return name, identNames([]ast.Expr{t.Index})
	case *ast.IndexListExpr:
		name, _ := receiverName(t.X)
		return name, identNames(t.Indices)
	}
	return "", nil
}

func identNames(exprs []ast.Expr) []string {
	var names []string
	for _, e := range exprs {
		if id, ok := e.(*ast.Ident); ok {
			names = append(names, id.Name)
		}
	}
	return names
}

func (b *pkgBuilder) addOperation(info *serviceInfo, name, doc string, ft *ast.FuncType, scope fileScope) {
	if !ast.IsExported(name) {
		return
	}
	op, err := convertSignature(name, doc, ft, scope)
	if err != nil {
		if info.decl.Err == nil {
			info.decl.Err = errors.Wrapf(err, "%s.%s", canon.Short(info.decl.TypeName), name)
		}
		return
	}
	info.decl.Ops = append(info.decl.Ops, op)
}

// convertSignature maps a Go method signature onto an operation. A leading
// context.Context parameter and a trailing error result are not part of the
// client surface.
func convertSignature(name, doc string, ft *ast.FuncType, scope fileScope) (*host.OperationDecl, error) {
	op := &host.OperationDecl{OpName: name, Comment: doc}

	index := 0
	if ft.Params != nil {
		for _, f := range ft.Params.List {
			use, ok := typeUse(f.Type, scope)
			if !ok {
				return nil, errors.Wrapf(ErrUnsupportedSignature, "parameter of type %T", f.Type)
			}
			names := fieldNames(f)
			for _, n := range names {
				if index == 0 && canon.Canonicalize(use.Name) == contextType && !use.Nullable {
					index++
					continue
				}
				if n == "" || n == "_" {
					n = fmt.Sprintf("arg%d", index)
				}
				op.Args = append(op.Args, host.Parameter{Name: n, Type: use})
				index++
			}
		}
	}

	var results []host.TypeUse
	if ft.Results != nil {
		for _, f := range ft.Results.List {
			use, ok := typeUse(f.Type, scope)
			if !ok {
				return nil, errors.Wrapf(ErrUnsupportedSignature, "result of type %T", f.Type)
			}
			for range fieldNames(f) {
				results = append(results, use)
			}
		}
	}
	if n := len(results); n > 0 && results[n-1].Name == canon.Error && !results[n-1].Nullable {
		results = results[:n-1]
	}
	switch len(results) {
	case 0:
	case 1:
		op.Returns = &results[0]
	default:
		return nil, errors.Wrapf(ErrUnsupportedSignature, "%d results", len(results))
	}
	return op, nil
}

// fieldNames returns the declared names of a field, or one empty name for
// an unnamed field.
func fieldNames(f *ast.Field) []string {
	if len(f.Names) == 0 {
		return []string{""}
	}
	names := make([]string, len(f.Names))
	for i, n := range f.Names {
		names[i] = n.Name
	}
	return names
}

func (b *pkgBuilder) finishServices() {
	for _, name := range b.svcOrder {
		b.pkg.Services = append(b.pkg.Services, b.services[name].decl)
	}
}
