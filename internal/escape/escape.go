// Package escape converts raw text into the body of a JSON string
// literal. It is the single shared escaping routine for the whole
// encoder; surrounding quotes are the caller's job.
package escape

import "unicode/utf8"

// Mode selects how text outside printable ASCII is escaped.
type Mode uint8

const (
	// ModeBytes escapes per 8-bit code unit: every byte outside
	// [0x20,0x7E] becomes its own \u00xx sequence. Multi-byte UTF-8
	// text therefore comes out as several \u00xx fragments, one per
	// byte. This is the historical behavior and the default.
	ModeBytes Mode = iota

	// ModeRunes escapes per Unicode code point: non-ASCII runes become
	// \uXXXX escapes, with surrogate pairs above the BMP and the
	// replacement character escape for invalid UTF-8.
	ModeRunes
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeBytes:
		return "bytes"
	case ModeRunes:
		return "runes"
	default:
		return "unknown"
	}
}

const hexDigits = "0123456789abcdef"

// Escape returns the JSON string-literal body for s under ModeBytes.
func Escape(s string) string {
	return EscapeMode(s, ModeBytes)
}

// EscapeMode returns the JSON string-literal body for s. The result
// carries no surrounding quotes. Output is never shorter than the
// input and at most six times its length, which is what callers
// pre-sizing buffers should assume.
func EscapeMode(s string, mode Mode) string {
	// Fast path: nothing to escape.
	if !needsEscape(s) {
		return s
	}

	buf := make([]byte, 0, len(s)+8)
	if mode == ModeRunes {
		buf = appendRunes(buf, s)
	} else {
		buf = appendBytes(buf, s)
	}
	return string(buf)
}

// Append appends the escaped body of s to dst under the given mode
// and returns the extended slice, like append.
func Append(dst []byte, s string, mode Mode) []byte {
	if !needsEscape(s) {
		return append(dst, s...)
	}
	if mode == ModeRunes {
		return appendRunes(dst, s)
	}
	return appendBytes(dst, s)
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < 0x20 || b > 0x7e || b == '"' || b == '\\' {
			return true
		}
	}
	return false
}

// shortEscape returns the two-character escape for b, or 0 if b has
// none.
func shortEscape(b byte) byte {
	switch b {
	case '"':
		return '"'
	case '\\':
		return '\\'
	case '\b':
		return 'b'
	case '\f':
		return 'f'
	case '\n':
		return 'n'
	case '\r':
		return 'r'
	case '\t':
		return 't'
	}
	return 0
}

func appendBytes(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case shortEscape(b) != 0:
			dst = append(dst, '\\', shortEscape(b))
		case b >= 0x20 && b <= 0x7e:
			dst = append(dst, b)
		default:
			dst = appendHex(dst, rune(b))
		}
	}
	return dst
}

func appendRunes(dst []byte, s string) []byte {
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			switch {
			case shortEscape(b) != 0:
				dst = append(dst, '\\', shortEscape(b))
			case b >= 0x20 && b <= 0x7e:
				dst = append(dst, b)
			default:
				dst = appendHex(dst, rune(b))
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = appendHex(dst, utf8.RuneError)
			i++
			continue
		}
		if r > 0xffff {
			// Surrogate pair per RFC 8259 section 7.
			r -= 0x10000
			dst = appendHex(dst, 0xd800+(r>>10))
			dst = appendHex(dst, 0xdc00+(r&0x3ff))
		} else {
			dst = appendHex(dst, r)
		}
		i += size
	}
	return dst
}

// appendHex appends \uXXXX with four lowercase hex digits. r must fit
// in 16 bits.
func appendHex(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[(r>>12)&0xf],
		hexDigits[(r>>8)&0xf],
		hexDigits[(r>>4)&0xf],
		hexDigits[r&0xf])
}
