package torrent

// TorrentMetadata is the best-effort description of a torrent file: its name,
// file list and the identifying hashes. Every field has a fallback - the input
// corpus is full of buggy producers, so extraction never fails outright
type TorrentMetadata struct {
	Name        string
	Files       []TorrentFile
	PieceLength int64
	Version     int64
	Hybrid      bool
	PieceHash   string
	FirstChunk  string
	FilesHash   string
	V1Hash      string
	V2Hash      string
}

type TorrentFile struct {
	Path string `json:"name"`
	Size int64  `json:"size"`
}
