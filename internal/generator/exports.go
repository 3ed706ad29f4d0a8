package generator

import (
	"github.com/cockroachdb/errors"
)

// Export is an export statement of a source file.
type Export interface {
	isExport()
}

// LocallyDeclared marks a name the file already exports through its
// declaration. It renders nothing.
type LocallyDeclared struct {
	Name Name
}

// Named renders "export { a, b as c }".
type Named struct {
	Names []Name
}

// NamespaceReexport renders "export * as X from 'path'".
type NamespaceReexport struct {
	From string
	As   Name
}

// StarReexport renders "export * from 'path'".
type StarReexport struct {
	From string
}

// NamedReexport renders "export { a, b as c } from 'path'".
type NamedReexport struct {
	From  string
	Names []Name
}

func (LocallyDeclared) isExport()   {}
func (Named) isExport()             {}
func (NamespaceReexport) isExport() {}
func (StarReexport) isExport()      {}
func (NamedReexport) isExport()     {}

// RenderExport returns the statement for e, or "" for LocallyDeclared.
func RenderExport(e Export) (string, error) {
	switch e := e.(type) {
	case LocallyDeclared:
		if _, err := RenderName(e.Name); err != nil {
			return "", err
		}
		return "", nil
	case Named:
		list, err := renderNames(e.Names)
		if err != nil {
			return "", err
		}
		return "export { " + list + " }", nil
	case NamespaceReexport:
		as, err := RenderName(e.As)
		if err != nil {
			return "", err
		}
		return "export * as " + as + " from " + quote(e.From), nil
	case StarReexport:
		return "export * from " + quote(e.From), nil
	case NamedReexport:
		list, err := renderNames(e.Names)
		if err != nil {
			return "", err
		}
		return "export { " + list + " } from " + quote(e.From), nil
	default:
		return "", errors.AssertionFailedf("unknown export variant %T", e)
	}
}

// Import is an import clause of a source file.
type Import struct {
	Names []Name
	From  string
}

// Render returns "import { A, B } from './A'".
func (i Import) Render() (string, error) {
	list, err := renderNames(i.Names)
	if err != nil {
		return "", err
	}
	return "import { " + list + " } from " + quote(i.From), nil
}
