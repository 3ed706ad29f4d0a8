package generator

import (
	"strings"
)

// Extension is the extension of every emitted file.
const Extension = ".ts"

// SourceFile is one emitted file.
type SourceFile struct {
	FileName  string
	Extension string
	Imports   []Import
	Scopes    []Scope
	Exports   []Export

	usedNames map[string]bool
}

// NewSourceFile creates an empty file whose own name is already in use, so
// that it never imports itself.
func NewSourceFile(name string) *SourceFile {
	return &SourceFile{
		FileName:  name,
		Extension: Extension,
		usedNames: map[string]bool{name: true},
	}
}

// Path returns the file name with its extension.
func (f *SourceFile) Path() string {
	return f.FileName + f.Extension
}

// Uses reports whether name is declared by or imported into the file.
func (f *SourceFile) Uses(name string) bool {
	return f.usedNames[name]
}

// Use imports name from the sibling module from. Imports keep first-use
// order and are grouped by source path.
func (f *SourceFile) Use(name, from string) {
	if f.usedNames[name] {
		return
	}
	f.usedNames[name] = true
	for i := range f.Imports {
		if f.Imports[i].From == from {
			f.Imports[i].Names = append(f.Imports[i].Names, Plain{Name: name})
			return
		}
	}
	f.Imports = append(f.Imports, Import{Names: []Name{Plain{Name: name}}, From: from})
}

// Render produces the final text: the import block, a blank line, the
// declarations, then the exports after another blank line.
func (f *SourceFile) Render() (string, error) {
	var sections []string

	if len(f.Imports) > 0 {
		lines := make([]string, 0, len(f.Imports))
		for _, imp := range f.Imports {
			line, err := imp.Render()
			if err != nil {
				return "", err
			}
			lines = append(lines, line)
		}
		sections = append(sections, strings.Join(lines, "\n")+"\n")
	}

	for _, s := range f.Scopes {
		text, err := RenderScope(s)
		if err != nil {
			return "", err
		}
		if text != "" {
			sections = append(sections, text)
		}
	}

	var exports []string
	for _, e := range f.Exports {
		line, err := RenderExport(e)
		if err != nil {
			return "", err
		}
		if line != "" {
			exports = append(exports, line)
		}
	}
	if len(exports) > 0 {
		sections = append(sections, strings.Join(exports, "\n")+"\n")
	}

	return strings.Join(sections, "\n"), nil
}
