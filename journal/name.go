package journal

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// asteriskMarker replaces literal asterisks in filenames. The percent-encoding
// used for journal names leaves '*' untouched, but it is not a safe filename
// character on all platforms.
const asteriskMarker = "_ATK_"

// Sanitize returns the filename used to store the journal with the given name.
//
// The name is percent-encoded as a URL query component, leaving only ASCII
// letters, digits and the characters ".-*_" unescaped, and encoding spaces as
// '+'. Each '*' is then replaced by "_ATK_".
//
// Two kinds of name are encoded differently from that plain mapping so that
// every filename decodes to exactly one name. An '_' that is followed by "ATK"
// is escaped as "%5F", and the names "." and ".." have their dots escaped as
// "%2E". The filenames of all other names are unchanged.
//
// It returns an empty string if name can not be used as a journal name.
func Sanitize(name string) string {
	if name == "" || !utf8.ValidString(name) {
		return ""
	}

	dots := name == "." || name == ".."

	var w strings.Builder
	w.Grow(len(name))

	for i := 0; i < len(name); i++ {
		c := name[i]

		switch {
		case c == '*':
			w.WriteString(asteriskMarker)
		case c == '_' && strings.HasPrefix(name[i+1:], "ATK"):
			// Escape underscores that would otherwise be indistinguishable from
			// the start of an asterisk marker.
			writeEscaped(&w, c)
		case c == '.' && dots:
			writeEscaped(&w, c)
		case c == ' ':
			w.WriteByte('+')
		case isUnreserved(c):
			w.WriteByte(c)
		default:
			writeEscaped(&w, c)
		}
	}

	return w.String()
}

// Desanitize returns the journal name that is stored in the file with the given
// name. It is the inverse of [Sanitize].
//
// It returns an empty string if filename is not a valid sanitized name.
func Desanitize(filename string) string {
	name, err := url.QueryUnescape(
		strings.ReplaceAll(filename, asteriskMarker, "*"),
	)
	if err != nil || !utf8.ValidString(name) {
		return ""
	}

	return name
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z':
		return true
	case 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return true
	}

	return c == '.' || c == '-' || c == '_'
}

func writeEscaped(w *strings.Builder, c byte) {
	const hex = "0123456789ABCDEF"

	w.WriteByte('%')
	w.WriteByte(hex[c>>4])
	w.WriteByte(hex[c&0xf])
}
