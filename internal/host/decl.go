package host

// Decl is a plain-data Type.
type Decl struct {
	TypeName    string
	TypeKind    Kind
	Comment     string
	Params      []string
	Props       []Property
	Supers      []TypeUse
	Alias       *TypeUse
	Consts      []Constant
	IsExpanding bool
}

func (d *Decl) Name() string           { return d.TypeName }
func (d *Decl) Kind() Kind             { return d.TypeKind }
func (d *Decl) Doc() string            { return d.Comment }
func (d *Decl) TypeParams() []string   { return d.Params }
func (d *Decl) Properties() []Property { return d.Props }
func (d *Decl) SuperTypes() []TypeUse  { return d.Supers }
func (d *Decl) Constants() []Constant  { return d.Consts }
func (d *Decl) Expandable() bool       { return d.IsExpanding }

func (d *Decl) AliasOf() (TypeUse, bool) {
	if d.Alias == nil {
		return TypeUse{}, false
	}
	return *d.Alias, true
}

// OperationDecl is a plain-data Operation.
type OperationDecl struct {
	OpName  string
	Comment string
	Args    []Parameter
	Returns *TypeUse
}

func (o *OperationDecl) Name() string        { return o.OpName }
func (o *OperationDecl) Doc() string         { return o.Comment }
func (o *OperationDecl) Params() []Parameter { return o.Args }

func (o *OperationDecl) Result() (TypeUse, bool) {
	if o.Returns == nil {
		return TypeUse{}, false
	}
	return *o.Returns, true
}

// ServiceDecl is a plain-data Service. Err, when set, is returned by
// Operations and describes a signature the exporter cannot represent.
type ServiceDecl struct {
	TypeName string
	Comment  string
	Ops      []*OperationDecl
	Err      error
}

func (s *ServiceDecl) Name() string { return s.TypeName }
func (s *ServiceDecl) Doc() string  { return s.Comment }

func (s *ServiceDecl) Operations() ([]Operation, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	ops := make([]Operation, len(s.Ops))
	for i, op := range s.Ops {
		ops[i] = op
	}
	return ops, nil
}

// Named returns a use of a named type.
func Named(name string, args ...TypeUse) TypeUse {
	return TypeUse{Name: name, Args: args}
}

// Nullable returns a nil-able use of u.
func Nullable(u TypeUse) TypeUse {
	u.Nullable = true
	return u
}
