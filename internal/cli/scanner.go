package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stampkit/stamp/internal/utils"
)

// DirectoryScanner expands the CLI's directory arguments into the set of
// package directories to scan
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// ScanDirectories resolves the given roots, expanding "./..." style patterns,
// and returns every directory containing scannable Go files
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	var cleanDirs []string

	for _, rootDir := range rootDirs {
		baseDir := rootDir
		if strings.HasSuffix(rootDir, "/...") {
			baseDir = strings.TrimSuffix(rootDir, "/...")
			if baseDir == "" {
				baseDir = "."
			}
		}

		cleanPath, err := filepath.Abs(baseDir)
		if err != nil {
			return nil, utils.WrapProcessError(fmt.Sprintf("path resolution %s", baseDir), err)
		}
		cleanDirs = append(cleanDirs, cleanPath)
	}

	return s.fileProcessor.ScanDirectoriesWithGoFiles(cleanDirs)
}
