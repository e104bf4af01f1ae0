package torrent

import (
	"strings"
	"unicode/utf8"
)

// safe_decode turns a raw byte string into displayable text. Torrent names and
// paths are regularly in some arbitrary code page, even under 'name.utf-8'
// keys. When the bytes are not UTF-8, printable ASCII (0x20-0x7e) is kept and
// every other byte becomes '.'. Guessing the actual code page isn't worth a
// heavyweight detection library for strings that mostly don't matter
func safe_decode(data []byte) string {
	if is_utf8_with_surrogates(data) {
		return string(data)
	}

	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		if b >= 0x20 && b <= 0x7e {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// is_utf8_with_surrogates is utf8.Valid, except that three-byte encodings of
// unpaired surrogates (ed a0-bf xx) are allowed through. Historical results
// were computed with that tolerance, so names must keep decoding the same way
func is_utf8_with_surrogates(data []byte) bool {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			if i+2 < len(data) && data[i] == 0xed && data[i+1] >= 0xa0 && data[i+1] <= 0xbf && data[i+2] >= 0x80 && data[i+2] <= 0xbf {
				i += 3
				continue
			}
			return false
		}
		i += size
	}
	return true
}
