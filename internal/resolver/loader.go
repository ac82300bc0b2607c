package resolver

import (
	"errors"
	"fmt"
	"go/constant"
	"go/types"
	"sync"

	"golang.org/x/tools/go/packages"
)

// Sentinel errors returned by LookupStringConstant. Callers map these onto
// the matching diagnostics; any other error is an environment failure.
var (
	// ErrConstantNotFound means the package could not be loaded or declares
	// no such name.
	ErrConstantNotFound = errors.New("constant not found")
	// ErrNotStringConstant means the name exists but is not an untyped or
	// typed string constant.
	ErrNotStringConstant = errors.New("not a string constant")
)

// DependencyLoader resolves constant references into packages outside the
// scanned set by type-checking them through the build cache. Loaded packages
// are memoized per run; external dependencies do not change mid-run.
type DependencyLoader struct {
	mu    sync.Mutex
	dir   string
	cache map[string]*types.Package
	load  func(cfg *packages.Config, patterns ...string) ([]*packages.Package, error)
}

// NewDependencyLoader creates a loader rooted at the given module directory
func NewDependencyLoader(dir string) *DependencyLoader {
	return &DependencyLoader{
		dir:   dir,
		cache: make(map[string]*types.Package),
		load:  packages.Load,
	}
}

// Reset drops all memoized packages, primarily for test isolation
func (l *DependencyLoader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*types.Package)
}

// LookupStringConstant loads the package at importPath and returns the value
// of its exported string constant name. The type checker has already folded
// whatever initializer the constant was declared with, so alias chains and
// expressions inside dependencies come back as plain values.
func (l *DependencyLoader) LookupStringConstant(importPath, name string) (string, error) {
	pkg, err := l.loadPackage(importPath)
	if err != nil {
		return "", err
	}

	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return "", fmt.Errorf("package %s declares no %s: %w", importPath, name, ErrConstantNotFound)
	}

	constObj, ok := obj.(*types.Const)
	if !ok {
		return "", fmt.Errorf("%s.%s is a %s: %w", importPath, name, objectKind(obj), ErrNotStringConstant)
	}
	if constObj.Val().Kind() != constant.String {
		return "", fmt.Errorf("%s.%s is not a string constant: %w", importPath, name, ErrNotStringConstant)
	}

	return constant.StringVal(constObj.Val()), nil
}

func (l *DependencyLoader) loadPackage(importPath string) (*types.Package, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pkg, ok := l.cache[importPath]; ok {
		if pkg == nil {
			return nil, fmt.Errorf("package %s: %w", importPath, ErrConstantNotFound)
		}
		return pkg, nil
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
		Dir:  l.dir,
	}
	pkgs, err := l.load(cfg, importPath)
	if err != nil {
		l.cache[importPath] = nil
		return nil, fmt.Errorf("failed to load package %s: %w", importPath, err)
	}
	if len(pkgs) == 0 || pkgs[0].Types == nil || len(pkgs[0].Errors) > 0 {
		l.cache[importPath] = nil
		return nil, fmt.Errorf("package %s could not be loaded: %w", importPath, ErrConstantNotFound)
	}

	l.cache[importPath] = pkgs[0].Types
	return pkgs[0].Types, nil
}

func objectKind(obj types.Object) string {
	switch obj.(type) {
	case *types.Var:
		return "var"
	case *types.Func:
		return "func"
	case *types.TypeName:
		return "type"
	default:
		return "non-constant declaration"
	}
}
