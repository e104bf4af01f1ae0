package summary

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	jackpal "github.com/jackpal/bencode-go"
)

func TestSummarizeSingleFile(t *testing.T) {
	raw := []byte("d8:announce23:http://tracker.test/ann4:infod6:lengthi10e4:name8:file.txt12:piece lengthi16384e6:pieces20:aaaaaaaaaaaaaaaaaaaaee")

	got, err := Summarize(raw, -1)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if got.InfoHash != "79af8ce6b0b335dbcf99c060cbf3b3fbdbeaf94e" {
		t.Errorf("InfoHash = %q", got.InfoHash)
	}
	if got.Name != "file.txt" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.FileCount != 1 || got.FileSize != 10 {
		t.Errorf("FileCount/FileSize = %d/%d, want 1/10", got.FileCount, got.FileSize)
	}
	if got.PieceLength != 16384 {
		t.Errorf("PieceLength = %d", got.PieceLength)
	}
	if got.ContentLength != len(raw) {
		t.Errorf("ContentLength = %d, want %d", got.ContentLength, len(raw))
	}
	if got.Extensions != "txt" {
		t.Errorf("Extensions = %q", got.Extensions)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d", got.Version)
	}
	if got.InfoHashV2 != "" || got.Hybrid != nil {
		t.Errorf("v2 fields should be unset for a v1 torrent: %q %v", got.InfoHashV2, got.Hybrid)
	}
}

func TestSummarizeV2IncludesV2Fields(t *testing.T) {
	raw := []byte("d9:file treed3:dird8:file.txtd0:d6:lengthi10eeeee12:meta versioni2e4:name3:dir12:piece lengthi65536e6:pieces20:bbbbbbbbbbbbbbbbbbbbe")

	got, err := Summarize(raw, -1)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
	if got.InfoHashV2 != "9b5b1d653a7f3edfa75772f025625d22c4bb4f618da2b8cf4b1e9ce732c12549" {
		t.Errorf("InfoHashV2 = %q", got.InfoHashV2)
	}
	if got.Hybrid == nil || !*got.Hybrid {
		t.Errorf("Hybrid = %v, want true", got.Hybrid)
	}

	encoded, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	for _, field := range []string{`"ih_v2"`, `"bt_hybrid"`, `"files_count":1`} {
		if !strings.Contains(string(encoded), field) {
			t.Errorf("marshalled summary missing %s: %s", field, encoded)
		}
	}
}

func TestSummarizeJSONOmitsV2FieldsForV1(t *testing.T) {
	raw := []byte("d4:infod6:lengthi5e4:name1:a12:piece lengthi16eee")

	got, err := Summarize(raw, -1)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	encoded, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if strings.Contains(string(encoded), "ih_v2") || strings.Contains(string(encoded), "bt_hybrid") {
		t.Errorf("v1 summary should not carry v2 fields: %s", encoded)
	}
}

func TestSummarizeRejectsInvalidData(t *testing.T) {
	if _, err := Summarize([]byte("not a torrent"), -1); err == nil {
		t.Errorf("Summarize() accepted invalid data")
	}
}

// Builds a torrent with an independent bencode implementation and runs it
// through the whole pipeline
func TestSummarizeJackpalFixture(t *testing.T) {
	type fixture_info struct {
		Length      int64  `bencode:"length"`
		Name        string `bencode:"name"`
		PieceLength int64  `bencode:"piece length"`
		Pieces      string `bencode:"pieces"`
	}
	type fixture_torrent struct {
		Announce string       `bencode:"announce"`
		Info     fixture_info `bencode:"info"`
	}

	var buf bytes.Buffer
	err := jackpal.Marshal(&buf, fixture_torrent{
		Announce: "http://tracker.test/ann",
		Info: fixture_info{
			Length:      2048,
			Name:        "fixture.bin",
			PieceLength: 1024,
			Pieces:      strings.Repeat("x", 40),
		},
	})
	if err != nil {
		t.Fatalf("jackpal Marshal() error = %v", err)
	}

	got, err := Summarize(buf.Bytes(), -1)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if got.Name != "fixture.bin" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.FileCount != 1 || got.FileSize != 2048 {
		t.Errorf("FileCount/FileSize = %d/%d, want 1/2048", got.FileCount, got.FileSize)
	}
	if got.PieceLength != 1024 {
		t.Errorf("PieceLength = %d", got.PieceLength)
	}
	if got.Extensions != "bin" {
		t.Errorf("Extensions = %q", got.Extensions)
	}
	if len(got.InfoHash) != 40 {
		t.Errorf("InfoHash = %q, want a 40 character hex digest", got.InfoHash)
	}
}
