package generator

import (
	"slices"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"stubgen/internal/canon"
	"stubgen/internal/config"
)

// templateFuncs returns custom template functions.
func templateFuncs(cfg *config.Config) template.FuncMap {
	return template.FuncMap{
		// Type mapping
		"mapType": func(goType string) string {
			if mapped, ok := cfg.MapType(goType); ok {
				return mapped
			}
			return goType
		},

		// Names
		"shortName":  canon.Short,
		"clientName": ServiceName,

		// String manipulation
		"camelCase":  camelCase,
		"pascalCase": pascalCase,
		"snakeCase":  snakeCase,
		"kebabCase":  kebabCase,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"trim":       strings.TrimSpace,
		"replace":    strings.ReplaceAll,
		"hasPrefix":  strings.HasPrefix,
		"hasSuffix":  strings.HasSuffix,
		"quote":      quote,

		// List helpers
		"join":     strings.Join,
		"contains": func(list []string, s string) bool { return slices.Contains(list, s) },

		// Comment formatting
		"docComment": formatDocComment,
		"indent":     indent,

		// Misc
		"notLast": func(i, length int) bool { return i < length-1 },
	}
}

// camelCase converts to camelCase.
func camelCase(s string) string {
	pascal := pascalCase(s)
	r, size := utf8.DecodeRuneInString(pascal)
	if size == 0 {
		return ""
	}
	return string(unicode.ToLower(r)) + pascal[size:]
}

// pascalCase converts to PascalCase.
func pascalCase(s string) string {
	var b strings.Builder
	for _, word := range splitWords(s) {
		r, size := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(strings.ToLower(word[size:]))
	}
	return b.String()
}

func snakeCase(s string) string { return joinLower(s, "_") }

func kebabCase(s string) string { return joinLower(s, "-") }

// joinLower lowercases the words of s and joins them with sep.
func joinLower(s, sep string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, sep)
}

// splitWords breaks an identifier or import path into words. Runes other
// than letters and digits separate words; an upper case letter starts one
// after a lower case letter or at the end of an acronym.
func splitWords(s string) []string {
	runes := []rune(s)
	var words []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			words = append(words, string(runes[start:end]))
			start = -1
		}
	}
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if unicode.IsUpper(r) && startsWord(runes, i) {
			flush(i)
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(runes))
	return words
}

func startsWord(runes []rune, i int) bool {
	if i == 0 {
		return false
	}
	return unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))
}

// formatDocComment renders text as a TypeScript doc comment.
func formatDocComment(comment string) string {
	comment = strings.TrimSpace(strings.ReplaceAll(comment, "*/", "*\\/"))
	if comment == "" {
		return ""
	}
	lines := strings.Split(comment, "\n")
	if len(lines) == 1 {
		return "/** " + comment + " */"
	}
	var b strings.Builder
	b.WriteString("/**\n")
	for _, line := range lines {
		b.WriteString(strings.TrimRight(" * "+strings.TrimSpace(line), " "))
		b.WriteByte('\n')
	}
	b.WriteString(" */")
	return b.String()
}

// indent prefixes every line of text.
func indent(prefix, text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
