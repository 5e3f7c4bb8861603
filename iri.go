package ogdch

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// URIToIRI validates uri and decodes its percent encoded UTF-8 sequences
// into characters, leaving ASCII escapes alone so that reserved
// characters keep their meaning.
func URIToIRI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" || parsed.Host == "-" {
		return "", fmt.Errorf("%w: %q does not have a valid scheme or host", ErrInvalidURI, uri)
	}

	var b strings.Builder
	for i := 0; i < len(uri); {
		if uri[i] != '%' {
			b.WriteByte(uri[i])
			i++
			continue
		}

		decoded, n := decodePercentRun(uri[i:])
		if n == 0 {
			b.WriteByte('%')
			i++
			continue
		}
		b.WriteString(decoded)
		i += n
	}
	return b.String(), nil
}

// decodePercentRun decodes consecutive %XX escapes at the start of s and
// returns the text to emit and the number of bytes consumed.
func decodePercentRun(s string) (string, int) {
	var raw []byte
	consumed := 0
	for consumed+2 < len(s) && s[consumed] == '%' {
		hi, okHi := unhex(s[consumed+1])
		lo, okLo := unhex(s[consumed+2])
		if !okHi || !okLo {
			break
		}
		raw = append(raw, hi<<4|lo)
		consumed += 3
	}
	if consumed == 0 {
		return "", 0
	}

	var b strings.Builder
	escaped := s[:consumed]
	for pos := 0; pos < len(raw); {
		r, size := utf8.DecodeRune(raw[pos:])
		switch {
		case r == utf8.RuneError && size <= 1:
			// not UTF-8, keep the escape
			b.WriteString(escaped[pos*3 : pos*3+3])
			pos++
		case size == 1:
			// ASCII stays escaped
			b.WriteString(escaped[pos*3 : pos*3+3])
			pos++
		default:
			b.WriteRune(r)
			pos += size
		}
	}
	return b.String(), consumed
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
