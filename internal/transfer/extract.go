// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transfer

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/ssget/pkg/types"
)

// maxEntryNameLen bounds archive entry names; longer names are rejected as
// unsafe before anything is extracted.
const maxEntryNameLen = 255

// Extractor unpacks a downloaded tar.gz archive into the archive's own
// directory and selects the matrix file inside it.
type Extractor struct {
	// KeepArchive leaves the source archive in place after extraction.
	KeepArchive bool
}

// entry describes one archive member, captured during enumeration.
type entry struct {
	name string
	size int64
	dir  bool
}

// Extract unpacks archivePath and returns the path of the main matrix file.
//
// All entries are enumerated and validated before a single byte is written:
// absolute paths, parent-directory traversal segments, and names longer than
// 255 characters reject the whole archive with UnsafeArchiveError. If
// extraction fails partway, every file it would have produced is removed so
// no partial state remains.
func (x Extractor) Extract(archivePath string) (string, error) {
	entries, err := enumerate(archivePath)
	if err != nil {
		return "", err
	}

	destDir := filepath.Dir(archivePath)
	extracted, err := extractAll(archivePath, destDir, entries)
	if err != nil {
		for _, ent := range entries {
			if !ent.dir {
				os.Remove(filepath.Join(destDir, filepath.FromSlash(ent.name)))
			}
		}
		return "", &types.ExtractionError{Archive: archivePath, Err: err}
	}

	main := selectMainFile(extracted)
	if main == "" {
		return "", &types.ExtractionError{Archive: archivePath, Err: fmt.Errorf("archive contains no files")}
	}

	if !x.KeepArchive {
		os.Remove(archivePath)
	}
	return main, nil
}

// enumerate reads the archive's member list and validates every name.
func enumerate(archivePath string) ([]entry, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, &types.ExtractionError{Archive: archivePath, Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, &types.ExtractionError{Archive: archivePath, Err: err}
	}
	defer gz.Close()

	var entries []entry
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &types.ExtractionError{Archive: archivePath, Err: err}
		}
		if err := validateEntryName(hdr.Name); err != nil {
			return nil, err
		}
		switch hdr.Typeflag {
		case tar.TypeReg:
			entries = append(entries, entry{name: hdr.Name, size: hdr.Size})
		case tar.TypeDir:
			entries = append(entries, entry{name: hdr.Name, dir: true})
		}
	}
	return entries, nil
}

// validateEntryName rejects entry names that could escape the extraction
// directory or abuse the filesystem.
func validateEntryName(name string) error {
	if name == "" {
		return &types.UnsafeArchiveError{Entry: name, Reason: "empty name"}
	}
	if len(name) > maxEntryNameLen {
		return &types.UnsafeArchiveError{Entry: name, Reason: "name exceeds 255 characters"}
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return &types.UnsafeArchiveError{Entry: name, Reason: "absolute path"}
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return &types.UnsafeArchiveError{Entry: name, Reason: "parent directory reference"}
		}
	}
	return nil
}

// extractAll writes the validated entries into destDir and returns the paths
// of the extracted regular files.
func extractAll(archivePath, destDir string, entries []entry) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var extracted []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		target := filepath.Join(destDir, filepath.FromSlash(hdr.Name))
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return nil, err
			}
			out, err := os.Create(target)
			if err != nil {
				return nil, err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return nil, err
			}
			if err := out.Close(); err != nil {
				return nil, err
			}
			extracted = append(extracted, target)
		}
	}
	return extracted, nil
}

// selectMainFile picks the matrix file among the extracted paths. Matrix
// Market files win over Rutherford-Boeing files, which win over anything
// else; the largest file breaks ties within a tier.
func selectMainFile(paths []string) string {
	const lowestTier = 2
	best := ""
	bestTier := lowestTier + 1
	var bestSize int64 = -1

	for _, p := range paths {
		tier := fileTier(p)
		size := int64(0)
		if info, err := os.Stat(p); err == nil {
			size = info.Size()
		}
		if tier < bestTier || (tier == bestTier && size > bestSize) {
			best, bestTier, bestSize = p, tier, size
		}
	}
	return best
}

// fileTier ranks a file by how likely it is to be the matrix payload.
func fileTier(path string) int {
	switch {
	case strings.HasSuffix(path, ".mtx"):
		return 0
	case strings.HasSuffix(path, ".rua"),
		strings.HasSuffix(path, ".rsa"),
		strings.HasSuffix(path, ".rb"):
		return 1
	default:
		return 2
	}
}
