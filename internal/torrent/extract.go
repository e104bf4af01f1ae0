package torrent

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/chrispritchard/torsum/internal/bencode"
)

// Extracts the file list and identifying metadata from a decoded torrent.
// Input must come from bencode.DecodeOrdered so the info dictionary can be
// re-encoded byte-for-byte when its hashes are calculated. Handles many
// different buggy client implementations, and attempts to make some sense of
// those bugs - every malformed field falls back to a default rather than failing.

// Extract produces a TorrentMetadata from a decoded torrent structure.
// decode_names false skips all name/path decoding (cheap path for hash-only
// batch work); max_files caps the file list when 0 or greater, negative means
// no cap
func Extract(value any, decode_names bool, max_files int) TorrentMetadata {
	info, ok := value.(*bencode.Dict)
	if !ok {
		// not a dictionary at all - nothing to extract, no info bytes to hash
		return TorrentMetadata{
			Version:   1,
			PieceHash: hex_sha1(nil),
			FilesHash: files_fingerprint(nil),
			V1Hash:    "unknown",
			V2Hash:    "unknown",
		}
	}

	// the info dictionary is the core of the torrent; bare info dictionaries
	// (no wrapper) are also accepted
	if sub, exists := info.Get("info"); exists {
		if dict, ok := sub.(*bencode.Dict); ok {
			info = dict
		}
	}

	metadata := TorrentMetadata{Version: 1}
	metadata.PieceLength = as_int(info.GetOr("piece length", nil))
	metadata.Name = resolve_name(info, decode_names)

	tree, has_tree := info.Get("file tree")
	if tree_dict, ok := tree.(*bencode.Dict); has_tree && ok {
		// v2 layout
		metadata.Files = []TorrentFile{}
		walk_file_tree(tree_dict, nil, &metadata.Files)
	} else if info.Has("files") {
		// v1 multi-file layout
		metadata.Files = multi_file_entries(info, metadata.Name, decode_names, max_files)
	} else if (info.Has("name.utf-8") || info.Has("name")) && info.Has("length") {
		// v1 single-file layout: the torrent's name is the filename
		metadata.Files = []TorrentFile{{Path: metadata.Name, Size: as_size(info.GetOr("length", nil))}}
	} else {
		metadata.Files = []TorrentFile{}
	}

	pieces := ""
	if v, exists := info.Get("pieces"); exists {
		if s, ok := v.(string); ok {
			pieces = s
		}
	}
	metadata.PieceHash = hex_sha1([]byte(pieces))
	first := pieces
	if len(first) > 20 {
		first = first[:20]
	}
	metadata.FirstChunk = hex.EncodeToString([]byte(first))
	metadata.FilesHash = files_fingerprint(metadata.Files)

	if v, exists := info.Get("meta version"); exists {
		if n, ok := v.(*big.Int); ok && n.IsInt64() {
			metadata.Version = n.Int64()
		}
	}
	// a v2 torrent carrying v1-compatible piece data is a hybrid
	metadata.Hybrid = metadata.Version >= 2 && info.Has("pieces")

	metadata.V1Hash, metadata.V2Hash = ComputeHashes(info)
	return metadata
}

// resolve_name applies the shared naming rule: prefer 'name.utf-8' over
// 'name', unwrap lists, stringify integers, then decode. An empty result
// becomes the literal "torrent" so downloads always have a folder name
func resolve_name(info *bencode.Dict, decode_names bool) string {
	if !decode_names {
		return ""
	}

	raw, exists := info.Get("name.utf-8")
	if !exists {
		raw = info.GetOr("name", "")
	}
	if list, ok := raw.([]any); ok {
		if len(list) > 0 {
			raw = list[0]
		} else {
			raw = ""
		}
	}
	if n, ok := raw.(*big.Int); ok {
		raw = n.String()
	}
	text, ok := raw.(string)
	if !ok {
		text = ""
	}

	name := safe_decode([]byte(text))
	if name == "" {
		return "torrent"
	}
	return name
}

// walk_file_tree recurses the v2 'file tree' structure. A node holding a
// single entry with an empty key is a file; everything else is a directory
func walk_file_tree(node *bencode.Dict, prefix []string, files *[]TorrentFile) {
	for _, entry := range node.Entries() {
		child, ok := entry.Value.(*bencode.Dict)
		if !ok {
			continue
		}

		segments := append(append([]string{}, prefix...), safe_decode([]byte(entry.Key)))
		if child.Has("") && child.Len() == 1 {
			size := int64(0)
			if leaf, _ := child.Get(""); leaf != nil {
				if leaf_dict, ok := leaf.(*bencode.Dict); ok {
					size = as_int(leaf_dict.GetOr("length", nil))
				}
			}
			*files = append(*files, TorrentFile{Path: strings.Join(segments, "/"), Size: size})
		} else {
			walk_file_tree(child, segments, files)
		}
	}
}

func multi_file_entries(info *bencode.Dict, name string, decode_names bool, max_files int) []TorrentFile {
	files := []TorrentFile{}
	list, ok := info.GetOr("files", nil).([]any)
	if !ok {
		return files
	}

	for index, item := range list {
		if max_files >= 0 && len(files) >= max_files {
			break
		}
		entry, ok := item.(*bencode.Dict)
		if !ok {
			entry = bencode.NewDict() // junk entries still produce a placeholder file
		}

		path := ""
		if decode_names {
			segments := []string{name}
			for _, part := range path_parts(entry) {
				switch t := part.(type) {
				case *big.Int:
					segments = append(segments, t.String())
				case string:
					segments = append(segments, safe_decode([]byte(t)))
				}
			}
			if len(segments) == 1 {
				segments = append(segments, fmt.Sprintf("<no filename for file #%d>", index+1))
			}
			path = strings.Join(segments, "/")
		}

		files = append(files, TorrentFile{Path: path, Size: as_size(entry.GetOr("length", nil))})
	}
	return files
}

// path.utf-8 is preferred over path; a single value is wrapped as a
// one-element list, and a dictionary (seen in the wild) counts as no path
func path_parts(entry *bencode.Dict) []any {
	parts, exists := entry.Get("path.utf-8")
	if !exists {
		parts = entry.GetOr("path", []any{})
	}
	if _, ok := parts.(*bencode.Dict); ok {
		return []any{}
	}
	if list, ok := parts.([]any); ok {
		return list
	}
	return []any{parts}
}

// as_int returns the value when it is an integer fitting 64 bits, else 0
func as_int(value any) int64 {
	if n, ok := value.(*big.Int); ok && n.IsInt64() {
		return n.Int64()
	}
	return 0
}

// as_size handles the odd length values real torrents contain: a list is
// unwrapped to its first element, and a byte string is parsed as decimal
func as_size(value any) int64 {
	if list, ok := value.([]any); ok {
		if len(list) == 0 {
			return 0
		}
		value = list[0]
	}
	if s, ok := value.(string); ok {
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return as_int(value)
}

// files_fingerprint hashes the file list sorted by (name, size), giving a
// fingerprint that is stable under reordering of the original list
func files_fingerprint(files []TorrentFile) string {
	sorted_files := append([]TorrentFile{}, files...)
	sort.Slice(sorted_files, func(i, j int) bool {
		if sorted_files[i].Path != sorted_files[j].Path {
			return sorted_files[i].Path < sorted_files[j].Path
		}
		return sorted_files[i].Size < sorted_files[j].Size
	})

	hash := sha1.New()
	for _, f := range sorted_files {
		hash.Write([]byte(f.Path))
		hash.Write([]byte(strconv.FormatInt(f.Size, 10)))
	}
	return hex.EncodeToString(hash.Sum(nil))
}

func hex_sha1(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
