// Package scan discovers model files under a directory root. Discovery is
// eager: the full list comes back before any file is processed, so batch
// operations can account successes and failures afterwards.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is one discovered model file.
type File struct {
	Path      string
	Extension string
}

// InvalidDirectoryError indicates the scan root is missing or not a directory.
type InvalidDirectoryError struct {
	Path   string
	Reason string
}

func (e *InvalidDirectoryError) Error() string {
	return fmt.Sprintf("scan: invalid directory %q: %s", e.Path, e.Reason)
}

// Scan lists files under root whose extension is in allowedExts. Extensions
// are matched case-insensitively with their leading dot (".json", ".geo.json");
// the compound ".geo.json" suffix is matched against the full filename since
// naive last-dot extraction would report it as ".json". Subdirectories are
// entered only when recursive is set. Non-matching entries are skipped
// silently. Entry order within a directory follows the platform listing.
//
// Traversal uses an explicit directory worklist rather than recursion, so
// deeply nested trees cannot exhaust the stack.
func Scan(root string, recursive bool, allowedExts []string) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &InvalidDirectoryError{Path: root, Reason: "does not exist"}
		}
		return nil, fmt.Errorf("scan: stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, &InvalidDirectoryError{Path: root, Reason: "not a directory"}
	}

	exts := make([]string, 0, len(allowedExts))
	for _, ext := range allowedExts {
		exts = append(exts, strings.ToLower(ext))
	}

	var found []File
	worklist := []string{root}
	for len(worklist) > 0 {
		dir := worklist[0]
		worklist = worklist[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scan: read %s: %w", dir, err)
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if recursive {
					worklist = append(worklist, path)
				}
				continue
			}
			if ext, ok := matchExtension(entry.Name(), exts); ok {
				found = append(found, File{Path: path, Extension: ext})
			}
		}
	}
	return found, nil
}

// matchExtension returns the matched allowed extension for a filename.
// Compound extensions (more than one dot) are tried as full-name suffixes
// first so ".geo.json" wins over ".json".
func matchExtension(name string, allowedExts []string) (string, bool) {
	lower := strings.ToLower(name)

	for _, ext := range allowedExts {
		if strings.Count(ext, ".") > 1 && strings.HasSuffix(lower, ext) {
			return ext, true
		}
	}
	for _, ext := range allowedExts {
		if strings.Count(ext, ".") > 1 {
			continue
		}
		if filepath.Ext(lower) == ext {
			return ext, true
		}
	}
	return "", false
}
