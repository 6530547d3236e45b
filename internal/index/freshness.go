package index

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SanityCheck verifies the minimal structural validity of an index artifact.
// It does not attempt to verify the producing tool's version: a fresh,
// structurally valid artifact is trusted, and version mismatches surface
// later as decode plugin failures.
type SanityCheck func(indexPath string) error

// Needs reports whether indexPath must be (re)built for sourcePath. It is
// deliberately conservative: any ambiguity (stat or read failure on either
// side) resolves to true so a stale or corrupt index never short-circuits
// decoding.
func Needs(sourcePath, indexPath string, sane SanityCheck) bool {
	src, err := os.Stat(sourcePath)
	if err != nil {
		return true
	}
	idx, err := os.Stat(indexPath)
	if err != nil {
		return true
	}
	if idx.ModTime().Before(src.ModTime()) {
		return true
	}
	if sane != nil {
		if err := sane(indexPath); err != nil {
			return true
		}
	}
	return false
}

// d2vHeader is the project-file magic both DGIndex and d2vwitch emit.
const d2vHeader = "DGIndexProjectFile"

func D2VSanity(indexPath string) error {
	head := make([]byte, len(d2vHeader))
	f, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("failed to open d2v index: %w", err)
	}
	defer f.Close()
	if _, err := io.ReadFull(f, head); err != nil {
		return fmt.Errorf("failed to read d2v header: %w", err)
	}
	if !bytes.HasPrefix(head, []byte(d2vHeader)) {
		return fmt.Errorf("%s is not a d2v project file", filepath.Base(indexPath))
	}
	return nil
}

// ffindexMinSize covers the ffms2 binary header; anything shorter is a
// truncated write.
const ffindexMinSize = 8

func FFIndexSanity(indexPath string) error {
	info, err := os.Stat(indexPath)
	if err != nil {
		return fmt.Errorf("failed to stat ffindex: %w", err)
	}
	if info.Size() < ffindexMinSize {
		return fmt.Errorf("%s is truncated (%d bytes)", filepath.Base(indexPath), info.Size())
	}
	return nil
}

// ArtifactPath returns the deterministic index location for a source. With an
// empty indexingDir the artifact sits next to the source with the tool suffix
// appended; otherwise it lands under <indexingDir>/indexing/<parent-base>/.
func ArtifactPath(sourcePath, indexExt, indexingDir string) string {
	name := filepath.Base(sourcePath) + "." + indexExt
	if indexingDir == "" {
		return filepath.Join(filepath.Dir(sourcePath), name)
	}
	parent := filepath.Base(filepath.Dir(sourcePath))
	return filepath.Join(indexingDir, "indexing", parent, name)
}
