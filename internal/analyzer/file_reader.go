package analyzer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanDirectory walks root and returns the files whose name ends with one of
// exts, in lexical order. exclude is called with the slash separated path
// relative to root; returning true skips a directory or file.
func ScanDirectory(root string, exts []string, exclude func(rel string) bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".svn" {
				return filepath.SkipDir
			}
			if rel != "." && exclude != nil && exclude(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if exclude != nil && exclude(rel) {
			return nil
		}
		if hasExt(path, exts) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return files, nil
}

func hasExt(path string, exts []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
