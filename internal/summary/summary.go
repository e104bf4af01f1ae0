package summary

import (
	"sort"
	"strings"

	"github.com/chrispritchard/torsum/internal/bencode"
	"github.com/chrispritchard/torsum/internal/torrent"
)

// Assembles the JSON summary object for a torrent file - the record shape
// stored in the torrent cache. v2-only fields are left out for v1 torrents

type Summary struct {
	InfoHash      string                `json:"ih"`
	Files         []torrent.TorrentFile `json:"files"`
	Name          string                `json:"name"`
	FileCount     int                   `json:"files_count"`
	FileSize      int64                 `json:"files_size"`
	PieceLength   int64                 `json:"piece_length"`
	ContentLength int                   `json:"content_length"`
	Extensions    string                `json:"extensions"`
	Version       int64                 `json:"bt_version"`
	InfoHashV2    string                `json:"ih_v2,omitempty"`
	Hybrid        *bool                 `json:"bt_hybrid,omitempty"`
}

// Summarize decodes a torrent file and assembles its summary. max_files caps
// the file list when 0 or greater, negative means no cap
func Summarize(data []byte, max_files int) (Summary, error) {
	decoded, err := bencode.DecodeOrdered(data)
	if err != nil {
		return Summary{}, err
	}

	metadata := torrent.Extract(decoded, true, max_files)

	var total_size int64
	extensions := map[string]struct{}{}
	for _, f := range metadata.Files {
		total_size += f.Size
		// a name without a dot contributes the whole name, matching how the
		// cache has always recorded extensions
		parts := strings.Split(f.Path, ".")
		extensions[strings.ToLower(parts[len(parts)-1])] = struct{}{}
	}
	extension_list := make([]string, 0, len(extensions))
	for e := range extensions {
		extension_list = append(extension_list, e)
	}
	sort.Strings(extension_list)

	result := Summary{
		InfoHash:      metadata.V1Hash,
		Files:         metadata.Files,
		Name:          metadata.Name,
		FileCount:     len(metadata.Files),
		FileSize:      total_size,
		PieceLength:   metadata.PieceLength,
		ContentLength: len(data),
		Extensions:    strings.Join(extension_list, ","),
		Version:       metadata.Version,
	}
	if metadata.Version >= 2 {
		result.InfoHashV2 = metadata.V2Hash
		hybrid := metadata.Hybrid
		result.Hybrid = &hybrid
	}
	return result, nil
}
