package bencode

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"strconv"
)

// Raw is a pre-encoded bencode fragment, emitted verbatim by Encode. Used to
// splice bytes obtained elsewhere (e.g. an info dictionary downloaded from a
// peer) into a larger structure without a decode/encode cycle altering them
type Raw []byte

// Encode serialises a value into bencode bytes. Plain maps emit their keys
// sorted by raw bytes (the canonical form), while *Dict values emit entries in
// stored order, so a value from DecodeOrdered round trips byte-for-byte.
// Only returns an error for types with no bencode representation
func Encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode_value(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode_value(buf *bytes.Buffer, value any) error {
	switch t := value.(type) {
	case Raw:
		buf.Write(t)
	case *big.Int:
		buf.WriteByte('i')
		buf.WriteString(t.String())
		buf.WriteByte('e')
	case int:
		buf.WriteByte('i')
		buf.WriteString(strconv.Itoa(t))
		buf.WriteByte('e')
	case int64:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatInt(t, 10))
		buf.WriteByte('e')
	case string:
		buf.WriteString(strconv.Itoa(len(t)))
		buf.WriteByte(':')
		buf.WriteString(t)
	case []byte:
		buf.WriteString(strconv.Itoa(len(t)))
		buf.WriteByte(':')
		buf.Write(t)
	case []any:
		buf.WriteByte('l')
		for _, item := range t {
			if err := encode_value(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		sort.Strings(keys) // raw byte order, not locale collation
		buf.WriteByte('d')
		for _, key := range keys {
			buf.WriteString(strconv.Itoa(len(key)))
			buf.WriteByte(':')
			buf.WriteString(key)
			if err := encode_value(buf, t[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
	case *Dict:
		buf.WriteByte('d')
		for _, entry := range t.Entries() {
			buf.WriteString(strconv.Itoa(len(entry.Key)))
			buf.WriteByte(':')
			buf.WriteString(entry.Key)
			if err := encode_value(buf, entry.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
	default:
		return fmt.Errorf("cannot encode a value of type %T", value)
	}
	return nil
}
