package parser

import (
	"go/ast"

	"stubgen/internal/canon"
	"stubgen/internal/host"
)

// typeUse converts a type expression into a host type use. It reports false
// for types without a JSON form (funcs, channels).
func typeUse(expr ast.Expr, scope fileScope) (host.TypeUse, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		if scope.params[t.Name] {
			return host.TypeUse{Name: t.Name, Param: true}, true
		}
		if canon.IsBuiltin(t.Name) || t.Name == "any" || t.Name == "error" {
			return host.Named(canon.Canonicalize(t.Name)), true
		}
		return host.Named(canon.Qualify(scope.pkgPath, t.Name)), true

	case *ast.SelectorExpr:
		// Package-qualified type (e.g., time.Time)
		ident, ok := t.X.(*ast.Ident)
		if !ok {
			return host.TypeUse{}, false
		}
		path, ok := scope.imports[ident.Name]
		if !ok {
			path = ident.Name
		}
		return host.Named(canon.Qualify(path, t.Sel.Name)), true

	case *ast.StarExpr:
		elem, ok := typeUse(t.X, scope)
		if !ok {
			return host.TypeUse{}, false
		}
		return host.Nullable(elem), true

	case *ast.ArrayType:
		if t.Len == nil && isByte(t.Elt) {
			return host.Named(canon.Bytes), true
		}
		elem, ok := typeUse(t.Elt, scope)
		if !ok {
			return host.TypeUse{}, false
		}
		return host.Named(canon.Slice, elem), true

	case *ast.Ellipsis:
		// Variadic parameter, treat as slice
		elem, ok := typeUse(t.Elt, scope)
		if !ok {
			return host.TypeUse{}, false
		}
		return host.Named(canon.Slice, elem), true

	case *ast.MapType:
		key, ok := typeUse(t.Key, scope)
		if !ok {
			return host.TypeUse{}, false
		}
		value, ok := typeUse(t.Value, scope)
		if !ok {
			return host.TypeUse{}, false
		}
		return host.Named(canon.Map, key, value), true

	case *ast.InterfaceType:
		return host.Named(canon.Any), true

	case *ast.StructType:
		return host.Named(canon.Object), true

	case *ast.IndexExpr:
		return instantiate(t.X, []ast.Expr{t.Index}, scope)

	case *ast.IndexListExpr:
		return instantiate(t.X, t.Indices, scope)

	case *ast.ParenExpr:
		return typeUse(t.X, scope)

	default:
		return host.TypeUse{}, false
	}
}

// instantiate converts a generic instantiation such as Page[User].
func instantiate(base ast.Expr, indices []ast.Expr, scope fileScope) (host.TypeUse, bool) {
	use, ok := typeUse(base, scope)
	if !ok {
		return host.TypeUse{}, false
	}
	for _, idx := range indices {
		arg, ok := typeUse(idx, scope)
		if !ok {
			return host.TypeUse{}, false
		}
		use.Args = append(use.Args, arg)
	}
	return use, true
}

func isByte(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && canon.Canonicalize(ident.Name) == "uint8"
}
