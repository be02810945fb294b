package vfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/charlievieth/fastwalk"

	"github.com/GriffinCanCode/vshell/internal/shared/paths"
)

// MaxImportFileSize bounds the size of a single imported file.
const MaxImportFileSize = 1 << 20

// ImportResult summarizes a host import.
type ImportResult struct {
	Directories int      `json:"directories"`
	Files       int      `json:"files"`
	Skipped     []string `json:"skipped,omitempty"`
}

// ImportHost copies the host directory hostDir into the tree under target.
// Only regular UTF-8 files up to MaxImportFileSize are imported; everything
// else is listed in Skipped. Host permission bits are carried over.
func (t *Tree) ImportHost(hostDir, target string) (*ImportResult, error) {
	info, err := os.Stat(hostDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", hostDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", hostDir)
	}
	if _, err := t.MkdirAll(target); err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		result ImportResult
	)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, hostDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(hostDir, path)
		if err != nil || rel == "." {
			return nil
		}
		dest := paths.Join(append(paths.Segments(target), paths.Segments(filepath.ToSlash(rel))...))

		info, err := d.Info()
		if err != nil {
			return nil
		}
		perms := info.Mode().Perm().String()[1:]

		switch {
		case d.IsDir():
			mu.Lock()
			defer mu.Unlock()
			dir, err := t.MkdirAll(dest)
			if err != nil {
				result.Skipped = append(result.Skipped, rel)
				return filepath.SkipDir
			}
			dir.Perms = perms
			result.Directories++
		case d.Type().IsRegular() && info.Size() <= MaxImportFileSize:
			data, err := os.ReadFile(path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil || !utf8.Valid(data) {
				result.Skipped = append(result.Skipped, rel)
				return nil
			}
			parentPath, name := paths.Split(dest)
			parent, err := t.MkdirAll(parentPath)
			if err != nil || parent.KindOf(name) == KindDirectory {
				result.Skipped = append(result.Skipped, rel)
				return nil
			}
			parent.Files[name] = &File{Perms: perms, Content: string(data)}
			result.Files++
		default:
			mu.Lock()
			result.Skipped = append(result.Skipped, rel)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", hostDir, err)
	}
	sort.Strings(result.Skipped)
	return &result, nil
}
