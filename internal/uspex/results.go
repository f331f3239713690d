package uspex

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindResultsDir returns the highest-numbered results<N> directory under
// base. USPEX creates results1, results2, ... per restart; the latest one
// holds the final listing.
func FindResultsDir(base string) (string, error) {
	var found string
	for n := 1; ; n++ {
		dir := filepath.Join(base, fmt.Sprintf("results%d", n))
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			break
		}
		found = dir
	}
	if found == "" {
		return "", fmt.Errorf("no results1 directory under %s", base)
	}
	return found, nil
}

// FindCalcDirs returns the CalcFold* directories under base, sorted
// lexically.
func FindCalcDirs(base string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(base, "CalcFold*"))
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err == nil && info.IsDir() {
			dirs = append(dirs, m)
		}
	}
	return dirs, nil
}
