package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/stampkit/stamp/internal/utils"
)

// ModuleResolver maps scanned package directories onto module-qualified
// import paths. The module path is read once per run; every package shares
// the same go.mod.
type ModuleResolver struct {
	gomod *utils.GoModParser

	mu     sync.Mutex
	module string
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{
		gomod: utils.NewGoModParser(utils.NewFileReader()),
	}
}

// Reset drops the cached module path, primarily for test isolation
func (r *ModuleResolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.module = ""
}

// ResolveModuleName returns the module path for import construction. A
// non-empty customModule wins; otherwise the nearest go.mod is consulted.
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.module != "" {
		return r.module, nil
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	goModPath, err := r.gomod.FindGoModFile(currentDir)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}

	module, err := r.gomod.ParseModuleName(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}

	r.module = module
	return module, nil
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(moduleName, packageDir string) (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(currentDir, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == "." {
		return moduleName, nil
	}

	return fmt.Sprintf("%s/%s", moduleName, importPath), nil
}
