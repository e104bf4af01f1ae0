package dump

import (
	"reflect"
	"testing"

	"github.com/chrispritchard/torsum/internal/bencode"
)

func TestWriteRendersTorrentStructure(t *testing.T) {
	raw := "d8:announce3:url4:infod5:filesld6:lengthi5e4:pathl1:a5:b.txteee4:name3:dir6:pieces2:\xff\xfeee"
	decoded, err := bencode.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var lines []string
	if err := Write(func(line string) { lines = append(lines, line) }, decoded); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := []string{
		"announce: url",
		"info:",
		"  files:",
		"    [0]length: 5",
		"       path: a/b.txt",
		"  name: dir",
		"  pieces: <binary data of 2 bytes>",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Write() produced:\n%q\nwant:\n%q", lines, want)
	}
}

func TestWriteOrderedDictSortsKeysForDisplay(t *testing.T) {
	decoded, err := bencode.DecodeOrdered([]byte("d4:spami1e4:eggsi2ee"))
	if err != nil {
		t.Fatalf("DecodeOrdered() error = %v", err)
	}

	var lines []string
	if err := Write(func(line string) { lines = append(lines, line) }, decoded); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := []string{
		"eggs: 2",
		"spam: 1",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Write() = %q, want %q", lines, want)
	}
}

func TestWriteHexEncodesBinaryKeys(t *testing.T) {
	decoded, err := bencode.Decode([]byte("d2:\xff\xfei1ee"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var lines []string
	if err := Write(func(line string) { lines = append(lines, line) }, decoded); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := []string{"fffe: 1"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Write() = %q, want %q", lines, want)
	}
}

func TestWriteRejectsUnknownTypes(t *testing.T) {
	if err := Write(func(string) {}, 3.14); err == nil {
		t.Errorf("Write() accepted an unknown type")
	}
}
