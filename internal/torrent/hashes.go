package torrent

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"

	"github.com/chrispritchard/torsum/internal/bencode"
)

// ComputeHashes re-encodes the info dictionary exactly as it appeared on disk
// (stored entry order, duplicates included) and hashes those bytes. The v2
// hash is calculated even for v1 torrents as a dedup signal. An unencodable
// value yields the sentinel "unknown" rather than an error
func ComputeHashes(info any) (v1_hash string, v2_hash string) {
	encoded, err := bencode.Encode(info)
	if err != nil {
		return "unknown", "unknown"
	}

	v1 := sha1.Sum(encoded)
	v2 := sha256.Sum256(encoded)
	return hex.EncodeToString(v1[:]), hex.EncodeToString(v2[:])
}
