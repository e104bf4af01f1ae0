package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/chrispritchard/torsum/internal/bencode"
	"github.com/chrispritchard/torsum/internal/dump"
	"github.com/chrispritchard/torsum/internal/summary"
	"github.com/chrispritchard/torsum/internal/torrent"
	"github.com/chrispritchard/torsum/internal/util"
)

var (
	workers   int
	max_files int
	no_names  bool
)

func main() {
	flag.IntVar(&workers, "workers", 8, "number of torrents to process at once during scan")
	flag.IntVar(&max_files, "max-files", -1, "max number of files to report per torrent, -1 for all")
	flag.BoolVar(&no_names, "no-names", false, "skip name decoding during scan, reporting hashes only")
	flag.Usage = print_usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		print_usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "decode":
		err = cmd_decode(args[1])
	case "filenames":
		err = cmd_filenames(args[1])
	case "pretty":
		err = cmd_pretty(args[1])
	case "summary":
		err = cmd_summary(args[1])
	case "scan":
		err = cmd_scan(args[1:])
	default:
		print_usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func print_usage() {
	fmt.Println("Usage: torsum [options] <command> <torrent-file...>")
	fmt.Println("  decode <file>     = Convert a .torrent file to a human-readable version")
	fmt.Println("  filenames <file>  = Convert a .torrent file to a list of files")
	fmt.Println("  pretty <file>     = Convert a .torrent file to a decoded summary")
	fmt.Println("  summary <file>    = Convert a .torrent file to a JSON summary")
	fmt.Println("  scan <files...>   = Summarise many .torrent files in parallel")
	flag.PrintDefaults()
}

func cmd_decode(path string) error {
	data, err := read_torrent(path)
	if err != nil {
		return err
	}
	decoded, err := bencode.Decode(data)
	if err != nil {
		return fmt.Errorf("unable to parse torrent file: %v", err)
	}

	fmt.Printf("----- Contents of '%s' -----\n", path)
	return dump.Write(func(line string) { fmt.Println(line) }, decoded)
}

func cmd_filenames(path string) error {
	data, err := read_torrent(path)
	if err != nil {
		return err
	}
	decoded, err := bencode.Decode(data)
	if err != nil {
		return fmt.Errorf("unable to parse torrent file: %v", err)
	}

	root, ok := decoded.(map[string]any)
	if !ok {
		return fmt.Errorf("invalid torrent: root is not a dict")
	}
	info, ok := root["info"].(map[string]any)
	if !ok {
		return fmt.Errorf("invalid torrent: no info dictionary")
	}
	name, _ := info["name"].(string)

	files, ok := info["files"].([]any)
	if !ok {
		fmt.Println(name)
		return nil
	}
	for _, file := range files {
		entry, ok := file.(map[string]any)
		if !ok {
			continue
		}
		parts := []string{name}
		if list, ok := entry["path"].([]any); ok {
			for _, part := range list {
				if s, ok := part.(string); ok {
					parts = append(parts, s)
				}
			}
		}
		fmt.Println(strings.Join(parts, "/"))
	}
	return nil
}

func cmd_pretty(path string) error {
	data, err := read_torrent(path)
	if err != nil {
		return err
	}
	decoded, err := bencode.DecodeOrdered(data)
	if err != nil {
		return fmt.Errorf("unable to parse torrent file: %v", err)
	}
	metadata := torrent.Extract(decoded, true, max_files)

	var total_size int64
	for _, f := range metadata.Files {
		total_size += f.Size
	}

	header("Name")
	fmt.Println(metadata.Name)
	header("Piece Length")
	fmt.Println(metadata.PieceLength)
	header("Files")
	for _, f := range metadata.Files {
		fmt.Printf("%s (%d)\n", f.Path, f.Size)
	}
	header("Extra")
	fmt.Printf("File count: %d\n", len(metadata.Files))
	fmt.Printf("Data size: %d\n", total_size)
	fmt.Printf("piece_hash: %s\n", metadata.PieceHash)
	fmt.Printf("first_chunk: %s\n", metadata.FirstChunk)
	fmt.Printf("files_hash: %s\n", metadata.FilesHash)
	fmt.Printf("torrent_version: %d\n", metadata.Version)
	fmt.Printf("hybrid: %v\n", metadata.Hybrid)
	fmt.Printf("v1_hash: %s\n", metadata.V1Hash)
	fmt.Printf("v2_hash: %s\n", metadata.V2Hash)
	return nil
}

func header(value string) {
	line := "----- " + value + " " + strings.Repeat("-", 70-len(value))
	if term.IsTerminal(int(os.Stdout.Fd())) {
		colorstring.Println("[blue]" + line)
	} else {
		fmt.Println(line)
	}
}

func cmd_summary(path string) error {
	data, err := read_torrent(path)
	if err != nil {
		return err
	}
	result, err := summary.Summarize(data, max_files)
	if err != nil {
		return fmt.Errorf("unable to parse torrent file: %v", err)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

// cmd_scan processes many torrents at once - decoding, extraction and hashing
// of independent files share no state, so they fan out across workers freely
func cmd_scan(paths []string) error {
	var bar *progressbar.ProgressBar
	if term.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressbar.Default(int64(len(paths)), "scanning")
	}

	ops := make([]util.Op[string], len(paths))
	for i, path := range paths {
		local_path := path
		ops[i] = func() (string, error) {
			defer func() {
				if bar != nil {
					bar.Add(1)
				}
			}()
			return scan_one(local_path)
		}
	}

	results, errors := util.Concurrent(context.Background(), ops, int64(workers))

	failed := 0
	for i := range results {
		if errors[i] != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", paths[i], errors[i])
			continue
		}
		fmt.Println(results[i])
	}
	if failed > 0 {
		return fmt.Errorf("failed to process %d of %d torrents", failed, len(paths))
	}
	return nil
}

func scan_one(path string) (string, error) {
	data, err := read_torrent(path)
	if err != nil {
		return "", err
	}

	if no_names {
		decoded, err := bencode.DecodeOrdered(data)
		if err != nil {
			return "", fmt.Errorf("unable to parse torrent file: %v", err)
		}
		metadata := torrent.Extract(decoded, false, max_files)
		return fmt.Sprintf("%s %s %s", metadata.V1Hash, metadata.V2Hash, path), nil
	}

	result, err := summary.Summarize(data, max_files)
	if err != nil {
		return "", fmt.Errorf("unable to parse torrent file: %v", err)
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func read_torrent(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read file at path %s: %v", path, err)
	}
	return data, nil
}
