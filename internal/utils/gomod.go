package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// GoModParser reads module metadata out of go.mod files. Generated import
// paths are derived from the module path, so a wrong answer here mislabels
// every package in the run.
type GoModParser struct {
	fileReader   *FileReader
	validatePath func(string) error
}

// NewGoModParser creates a go.mod parser backed by the cached file reader
func NewGoModParser(fileReader *FileReader) *GoModParser {
	return &GoModParser{
		fileReader: fileReader,
		validatePath: NewValidatorChain(
			NotEmpty("goModPath"),
			HasSuffix("goModPath", "go.mod"),
		).Validate,
	}
}

// ParseModuleName extracts the module path declared by a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	cleanPath := filepath.Clean(goModPath)
	if err := p.validatePath(cleanPath); err != nil {
		return "", err
	}

	content, err := p.fileReader.ReadFile(cleanPath)
	if err != nil {
		return "", WrapLoadError("go.mod", err)
	}

	modFile, err := modfile.Parse(cleanPath, []byte(content), nil)
	if err != nil {
		return "", WrapParseError("go.mod", err)
	}
	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration in %s", cleanPath)
	}
	return modFile.Module.Mod.Path, nil
}

// FindGoModFile walks from startDir toward the filesystem root and returns
// the first go.mod it encounters
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	for dir := filepath.Clean(startDir); ; dir = filepath.Dir(dir) {
		goModPath := filepath.Join(dir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}
		if dir == filepath.Dir(dir) {
			return "", fmt.Errorf("no go.mod found between %s and the filesystem root", startDir)
		}
	}
}
