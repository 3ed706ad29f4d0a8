package parser

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"
)

// loadMode asks only for names and syntax; types are resolved by the
// exporter's own symbol table so that missing packages surface as deferrals.
const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax

// Loader loads Go packages from disk through go/packages.
type Loader struct {
	parser *Parser
	dir    string
}

// NewLoader creates a Loader resolving patterns relative to dir.
func NewLoader(p *Parser, dir string) *Loader {
	return &Loader{parser: p, dir: dir}
}

// Load loads the packages matching patterns.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     l.dir,
		Fset:    l.parser.fset,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %v", patterns)
	}
	if len(pkgs) == 0 {
		return nil, errors.WithHint(errors.Newf("no packages found for %v", patterns),
			"check the pattern and the working directory")
	}

	out := make([]*Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.Newf("package %s: %v", pkg.PkgPath, pkg.Errors)
		}
		parsed, err := l.parser.ParseFiles(pkg.PkgPath, pkg.Syntax)
		if err != nil {
			return nil, err
		}
		parsed.Name = pkg.Name
		out = append(out, parsed)
	}
	return out, nil
}
