// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FindSpecFiles resolves the given paths into a flat, de-duplicated list of
// spec files. A directory is walked recursively for files whose extension
// is in exts; a file path is taken as-is when its extension matches.
// Discovery order is deterministic: paths in the given order, directory
// walks in lexical order.
func FindSpecFiles(paths []string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		panic("exts must not be empty")
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[ext] = struct{}{}
	}

	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if _, ok := allowed[filepath.Ext(path)]; ok {
				add(path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := allowed[filepath.Ext(p)]; ok {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
