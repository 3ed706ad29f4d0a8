package parser

import (
	"go/ast"
	"go/constant"
	"go/token"
	"strconv"

	"stubgen/internal/canon"
	"stubgen/internal/host"
	"stubgen/internal/model"
)

// constTable evaluates package constants and groups the exported ones by
// their declared type.
type constTable struct {
	values map[string]constant.Value
	byType map[string][]host.Constant
}

func newConstTable() *constTable {
	return &constTable{
		values: make(map[string]constant.Value),
		byType: make(map[string][]host.Constant),
	}
}

// collectConsts evaluates every const block of a file. Omitted value lists
// repeat the previous spec's type and expressions with the next iota.
func (b *pkgBuilder) collectConsts(file *ast.File) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.CONST {
			continue
		}
		var lastType ast.Expr
		var lastValues []ast.Expr
		for i, spec := range genDecl.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			typ, values := vs.Type, vs.Values
			if len(values) == 0 {
				typ, values = lastType, lastValues
			} else {
				lastType, lastValues = typ, values
			}
			for j, name := range vs.Names {
				if j >= len(values) {
					break
				}
				v, ok := b.consts.eval(values[j], int64(i))
				if !ok {
					continue
				}
				b.consts.values[name.Name] = v
				if !ast.IsExported(name.Name) {
					continue
				}
				typeName := b.constType(typ, values[j])
				if typeName == "" {
					continue
				}
				if lit, ok := literal(v); ok {
					b.consts.byType[typeName] = append(b.consts.byType[typeName], host.Constant{Name: name.Name, Literal: lit})
				}
			}
		}
	}
}

// constType returns the canonical name of a constant's declared type, taken
// from the spec or from a conversion such as Color("red").
func (b *pkgBuilder) constType(typ, value ast.Expr) string {
	if id, ok := typ.(*ast.Ident); ok {
		return canon.Qualify(b.pkg.Path, id.Name)
	}
	if typ != nil {
		return ""
	}
	if call, ok := value.(*ast.CallExpr); ok && len(call.Args) == 1 {
		if id, ok := call.Fun.(*ast.Ident); ok && !canon.IsBuiltin(id.Name) {
			return canon.Qualify(b.pkg.Path, id.Name)
		}
	}
	return ""
}

func (t *constTable) eval(expr ast.Expr, iota int64) (constant.Value, bool) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		v := constant.MakeFromLiteral(e.Value, e.Kind, 0)
		return v, v.Kind() != constant.Unknown

	case *ast.Ident:
		switch e.Name {
		case "iota":
			return constant.MakeInt64(iota), true
		case "true":
			return constant.MakeBool(true), true
		case "false":
			return constant.MakeBool(false), true
		}
		v, ok := t.values[e.Name]
		return v, ok

	case *ast.ParenExpr:
		return t.eval(e.X, iota)

	case *ast.CallExpr:
		// Conversion such as Color("red") or int64(1)
		if len(e.Args) != 1 {
			return nil, false
		}
		return t.eval(e.Args[0], iota)

	case *ast.UnaryExpr:
		x, ok := t.eval(e.X, iota)
		if !ok {
			return nil, false
		}
		switch {
		case e.Op == token.NOT && x.Kind() == constant.Bool,
			(e.Op == token.ADD || e.Op == token.SUB) && (x.Kind() == constant.Int || x.Kind() == constant.Float),
			e.Op == token.XOR && x.Kind() == constant.Int:
			return constant.UnaryOp(e.Op, x, 0), true
		}
		return nil, false

	case *ast.BinaryExpr:
		x, ok := t.eval(e.X, iota)
		if !ok {
			return nil, false
		}
		y, ok := t.eval(e.Y, iota)
		if !ok {
			return nil, false
		}
		return binaryOp(x, e.Op, y)
	}
	return nil, false
}

func binaryOp(x constant.Value, op token.Token, y constant.Value) (constant.Value, bool) {
	isBool := x.Kind() == constant.Bool || y.Kind() == constant.Bool
	isString := x.Kind() == constant.String || y.Kind() == constant.String
	switch {
	case isBool && (x.Kind() != y.Kind() || (op != token.LAND && op != token.LOR && op != token.EQL && op != token.NEQ)):
		return nil, false
	case isString && x.Kind() != y.Kind():
		return nil, false
	case !isBool && (op == token.LAND || op == token.LOR):
		return nil, false
	case isString && op != token.ADD && op != token.EQL && op != token.NEQ &&
		op != token.LSS && op != token.LEQ && op != token.GTR && op != token.GEQ:
		return nil, false
	}
	switch op {
	case token.SHL, token.SHR:
		s, ok := constant.Uint64Val(constant.ToInt(y))
		if !ok || x.Kind() != constant.Int {
			return nil, false
		}
		return constant.Shift(x, op, uint(s)), true
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		if x.Kind() != y.Kind() {
			return nil, false
		}
		return constant.MakeBool(constant.Compare(x, op, y)), true
	case token.QUO, token.REM:
		if constant.Sign(y) == 0 {
			return nil, false
		}
		if op == token.QUO && x.Kind() == constant.Int && y.Kind() == constant.Int {
			op = token.QUO_ASSIGN
		}
	}
	switch op {
	case token.REM, token.AND, token.OR, token.XOR, token.AND_NOT:
		if x.Kind() != constant.Int || y.Kind() != constant.Int {
			return nil, false
		}
	}
	v := constant.BinaryOp(x, op, y)
	return v, v.Kind() != constant.Unknown
}

// literal encodes a constant value as a raw JSON literal.
func literal(v constant.Value) ([]byte, bool) {
	switch v.Kind() {
	case constant.String:
		return model.StringLiteral(constant.StringVal(v)), true
	case constant.Int:
		return model.NumberLiteral(v.ExactString()), true
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return model.NumberLiteral(strconv.FormatFloat(f, 'g', -1, 64)), true
	case constant.Bool:
		return model.BoolLiteral(constant.BoolVal(v)), true
	}
	return nil, false
}

// finish turns defined basic types with typed constants into enums.
func (b *pkgBuilder) finish() {
	for name, underlying := range b.defined {
		consts := b.consts.byType[name]
		d, ok := b.pkg.Types[name]
		if !ok || len(consts) == 0 {
			continue
		}
		d.TypeKind = host.KindEnum
		d.Alias = nil
		d.Consts = consts
		d.Supers = []host.TypeUse{host.Named(underlying)}
	}
	b.finishServices()
}
