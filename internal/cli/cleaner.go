package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stampkit/stamp/internal/utils"
	"github.com/stampkit/stamp/pkg/stamp"
)

// Cleaner removes generated accessor files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes every generated accessor file under the given
// directories and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var roots []string
	for _, dir := range directories {
		base := dir
		if strings.HasSuffix(dir, "/...") {
			base = strings.TrimSuffix(dir, "/...")
			if base == "" {
				base = "."
			}
		}

		cleanPath, err := filepath.Abs(base)
		if err != nil {
			return nil, utils.WrapProcessError(fmt.Sprintf("path resolution %s", base), err)
		}
		roots = append(roots, cleanPath)
	}

	removed, err := c.fileProcessor.RemoveGeneratedFiles(roots, stamp.GeneratedFileName)
	if err != nil {
		return removed, fmt.Errorf("failed to clean generated files: %w", err)
	}
	return removed, nil
}
