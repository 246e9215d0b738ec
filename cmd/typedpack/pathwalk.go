package main

import (
	"os"
	"path/filepath"
	"sort"
)

// scanDir returns every ".tp" file under root, sorted for
// deterministic output across directory-mode runs.
func scanDir(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".tp" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func withExt(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}
