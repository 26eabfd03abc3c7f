package docking

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// enumerateLigands expands each configured ligand path into a flat,
// alphabetically sorted list of individual PDBQT files: a path that names
// a regular file is taken as-is, a directory is scanned (non-recursively)
// for .pdbqt/.PDBQT entries, matching original_source/src/main.cpp's
// is_regular_file/directory_iterator split.
func enumerateLigands(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.Mode().IsRegular() {
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := filepath.Ext(e.Name())
			if ext != ".pdbqt" && ext != ".PDBQT" {
				continue
			}
			out = append(out, filepath.Join(p, e.Name()))
		}
	}

	sort.Strings(out)
	return out, nil
}

// ligandStem returns a ligand's base filename without its extension, the
// label used for per-ligand console/log rows and output filenames.
func ligandStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
