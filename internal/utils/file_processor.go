package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileProcessor walks directory trees for package discovery and cleanup
type FileProcessor struct{}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// FileFilter decides whether a directory entry should be processed
type FileFilter func(entry os.DirEntry) bool

// DefaultGoFileFilter accepts .go files, excluding tests and generated output
func DefaultGoFileFilter() FileFilter {
	return func(entry os.DirEntry) bool {
		if entry.IsDir() {
			return false
		}

		name := entry.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasPrefix(name, "autogen_")
	}
}

// skipDirs are directories that never contain scannable source
var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
	"build":        true,
	"dist":         true,
}

// shouldDescend reports whether a subdirectory should be scanned
func shouldDescend(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	return !skipDirs[name]
}

// ScanDirectoriesWithGoFiles walks the given roots and returns every
// directory that contains at least one scannable Go file. Symlink cycles are
// broken by tracking resolved absolute paths.
func (fp *FileProcessor) ScanDirectoriesWithGoFiles(rootDirs []string) ([]string, error) {
	var packageDirs []string
	visited := make(map[string]bool)

	for _, rootDir := range rootDirs {
		dirs, err := fp.scanDirectoryRecursive(rootDir, visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, dirs...)
	}

	return packageDirs, nil
}

func (fp *FileProcessor) scanDirectoryRecursive(dir string, visited map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("path resolution %s", dir), err)
	}

	if visited[absDir] {
		return nil, nil
	}
	visited[absDir] = true

	var packageDirs []string

	hasGoFiles, err := fp.HasGoFiles(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("Go file check in %s", dir), err)
	}
	if hasGoFiles {
		packageDirs = append(packageDirs, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapProcessError(fmt.Sprintf("directory read %s", dir), err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || !shouldDescend(entry.Name()) {
			continue
		}

		subDirs, err := fp.scanDirectoryRecursive(filepath.Join(dir, entry.Name()), visited)
		if err != nil {
			return nil, err
		}
		packageDirs = append(packageDirs, subDirs...)
	}

	return packageDirs, nil
}

// HasGoFiles checks whether a directory contains any scannable .go files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}

	filter := DefaultGoFileFilter()
	for _, entry := range entries {
		if filter(entry) {
			return true, nil
		}
	}

	return false, nil
}

// RemoveGeneratedFiles removes the named generated file from every directory
// under the given roots and returns the paths it removed
func (fp *FileProcessor) RemoveGeneratedFiles(rootDirs []string, fileName string) ([]string, error) {
	var removed []string

	for _, rootDir := range rootDirs {
		startDir := rootDir
		if startDir == "" {
			startDir = "."
		}

		err := filepath.Walk(startDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				// Inaccessible entries are skipped, not fatal
				return nil
			}
			if !info.IsDir() {
				return nil
			}

			target := filepath.Join(path, fileName)
			if _, err := os.Stat(target); err != nil {
				return nil
			}
			if err := os.Remove(target); err != nil {
				return WrapProcessError(fmt.Sprintf("file removal %s", target), err)
			}

			removed = append(removed, target)
			return nil
		})
		if err != nil {
			return removed, err
		}
	}

	return removed, nil
}
