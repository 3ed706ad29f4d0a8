package generator

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrAnonymousName is returned when an Anonymous name reaches a position
// that needs text.
var ErrAnonymousName = errors.New("anonymous name cannot be rendered")

// Name is an identifier as it appears in emitted source.
type Name interface {
	isName()
}

// Anonymous has no textual form.
type Anonymous struct{}

// Aliased renders as "Name as As" inside import and export clauses.
type Aliased struct {
	Name string
	As   string
}

// Plain renders as itself.
type Plain struct {
	Name string
}

// Generic is a type parameter inside a generics clause.
type Generic struct {
	Name string
}

// PathQualified renders as path/name, or name when Path is empty.
type PathQualified struct {
	Name string
	Path string
}

func (Anonymous) isName()     {}
func (Aliased) isName()       {}
func (Plain) isName()         {}
func (Generic) isName()       {}
func (PathQualified) isName() {}

// RenderName returns the text of n.
func RenderName(n Name) (string, error) {
	switch n := n.(type) {
	case Anonymous:
		return "", ErrAnonymousName
	case Aliased:
		if n.Name == "" || n.As == "" {
			return "", ErrAnonymousName
		}
		if n.Name == n.As {
			return n.Name, nil
		}
		return n.Name + " as " + n.As, nil
	case Plain:
		return nonEmpty(n.Name)
	case Generic:
		return nonEmpty(n.Name)
	case PathQualified:
		if n.Path == "" {
			return nonEmpty(n.Name)
		}
		return n.Path + "/" + n.Name, nil
	default:
		return "", errors.AssertionFailedf("unknown name variant %T", n)
	}
}

func nonEmpty(s string) (string, error) {
	if s == "" {
		return "", ErrAnonymousName
	}
	return s, nil
}

// renderNames renders names separated by ", ".
func renderNames(names []Name) (string, error) {
	parts := make([]string, len(names))
	for i, n := range names {
		text, err := RenderName(n)
		if err != nil {
			return "", err
		}
		parts[i] = text
	}
	return strings.Join(parts, ", "), nil
}

// genericsClause renders "<T, U>", or "" when there are no parameters.
func genericsClause(params []Name) (string, error) {
	if len(params) == 0 {
		return "", nil
	}
	list, err := renderNames(params)
	if err != nil {
		return "", err
	}
	return "<" + list + ">", nil
}
