package react

import (
	"strconv"
	"strings"
	"unicode"
)

// jsString quotes s as a double-quoted JavaScript string literal. Only the
// characters the literal syntax requires are escaped.
func jsString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				if r < 0x10 {
					b.WriteByte('0')
				}
				b.WriteString(strconv.FormatInt(int64(r), 16))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// jsxText wraps s in a JSX expression so braces and angle brackets in user
// text are never parsed as markup.
func jsxText(s string) string {
	return "{" + jsString(s) + "}"
}

// jsArray renders a string array literal.
func jsArray(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = jsString(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// blockComment keeps s safe inside a /* */ comment.
func blockComment(s string) string {
	s = strings.ReplaceAll(s, "*/", "* /")
	return strings.Join(strings.Fields(s), " ")
}

// ComponentName derives the exported component name: the title with all
// whitespace removed, suffixed with Form. Titles with no usable characters
// fall back to UntitledForm. Characters that cannot appear in an identifier
// are dropped and a leading digit is prefixed with an underscore.
func ComponentName(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsSpace(r) {
			continue
		}
		if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "Untitled"
	}
	if r := []rune(name)[0]; unicode.IsDigit(r) {
		name = "_" + name
	}
	return name + "Form"
}
