package dump

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/chrispritchard/torsum/internal/bencode"
)

// Renders a decoded torrent structure in an indented, human-readable layout:
// dictionary keys sorted, path lists joined with '/', binary blobs shown as a
// placeholder rather than spraying raw bytes at the terminal

// Write walks the value, passing each rendered line to out
func Write(out func(string), value any) error {
	return write_value(out, value, "")
}

func write_value(out func(string), value any, header string) error {
	blank := strings.Repeat(" ", len(header))

	switch t := value.(type) {
	case *big.Int:
		out(header + t.String())
	case string:
		out(header + display_string(t))
	case []any:
		h := header
		for i, item := range t {
			if err := write_value(out, item, fmt.Sprintf("%s[%d]", h, i)); err != nil {
				return err
			}
			h = blank
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		entries := make([]bencode.Entry, 0, len(t))
		for _, key := range keys {
			entries = append(entries, bencode.Entry{Key: key, Value: t[key]})
		}
		return write_entries(out, entries, header)
	case *bencode.Dict:
		entries := append([]bencode.Entry{}, t.Entries()...)
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
		return write_entries(out, entries, header)
	default:
		return fmt.Errorf("unknown value type: %T", value)
	}
	return nil
}

func write_entries(out func(string), entries []bencode.Entry, header string) error {
	blank := strings.Repeat(" ", len(header))

	h := header
	for _, entry := range entries {
		key := entry.Key
		if !utf8.ValidString(key) {
			key = hex.EncodeToString([]byte(key))
		}

		sub := entry.Value
		if key == "path" || key == "path.utf-8" {
			if joined, ok := join_path(sub); ok {
				sub = joined
			}
		}

		switch t := sub.(type) {
		case *big.Int:
			out(fmt.Sprintf("%s%s: %s", h, key, t.String()))
		case string:
			out(fmt.Sprintf("%s%s: %s", h, key, display_string(t)))
		case []any, map[string]any, *bencode.Dict:
			out(h + key + ":")
			if err := write_value(out, t, blank+"  "); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown value type: %T", sub)
		}
		h = blank
	}
	return nil
}

func display_string(value string) string {
	if len(value) == 0 || !utf8.ValidString(value) {
		return fmt.Sprintf("<binary data of %d bytes>", len(value))
	}
	return value
}

// join_path flattens a path list into 'a/b/c' when every segment is readable text
func join_path(value any) (string, bool) {
	list, ok := value.([]any)
	if !ok {
		return "", false
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok || !utf8.ValidString(s) {
			return "", false
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "/"), true
}
