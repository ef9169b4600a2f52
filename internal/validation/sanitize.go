package validation

import (
	"html"
	"strings"

	"github.com/dmitrijs2005/watchkeeper/internal/common"
)

// entities are the escapes Sanitize produces. An '&' that already starts one
// of them is copied as is.
var entities = []string{"&lt;", "&gt;", "&amp;", "&quot;", "&#x27;", "&#x2F;"}

// Sanitize cleans free text before it is stored or shown:
//
//  1. trims surrounding whitespace;
//  2. escapes < > & " ' / in one left-to-right pass;
//  3. drops runes outside printable ASCII, Latin-1 Supplement and Latin Extended-A;
//  4. truncates to MaxNameLength runes without cutting an entity in half.
//
// Sanitize(Sanitize(s)) == Sanitize(s) for every s.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	s = escape(s)
	s = strings.Map(keepRune, s)
	s = truncate(s, common.MaxNameLength)
	return strings.TrimSpace(s)
}

// Unescape reverses the entity escaping so that text sanitized by a client
// and raw text are validated the same way.
func Unescape(s string) string {
	return html.UnescapeString(s)
}

func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			if e := entityAt(s[i:]); e != "" {
				b.WriteString(e)
				i += len(e) - 1
				continue
			}
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#x27;")
		case '/':
			b.WriteString("&#x2F;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func entityAt(s string) string {
	for _, e := range entities {
		if strings.HasPrefix(s, e) {
			return e
		}
	}
	return ""
}

func keepRune(r rune) rune {
	switch {
	case r >= 0x20 && r <= 0x7E:
		return r
	case r >= 0xA0 && r <= 0x17F:
		return r
	}
	return -1
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := runes[:max]

	// every '&' left by escape opens an entity closed by ';'
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == ';' {
			break
		}
		if cut[i] == '&' {
			cut = cut[:i]
			break
		}
	}
	return string(cut)
}
