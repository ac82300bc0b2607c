package resolver

import (
	"fmt"
	"sync"

	"github.com/stampkit/stamp/internal/models"
)

// LookupOutcome classifies the result of a constant-index lookup.
type LookupOutcome int

const (
	// LookupFound means the chain ended in a string literal constant.
	LookupFound LookupOutcome = iota
	// LookupExternal means the chain left the set of co-compiled packages;
	// the caller should continue with the dependency loader.
	LookupExternal
	// LookupNonConstant means the name exists but is not a string literal
	// constant (a var, a non-string constant, or a folded expression).
	LookupNonConstant
	// LookupMissing means the package is known but declares no such name.
	LookupMissing
)

// Lookup is the result of resolving a constant name through the index.
type Lookup struct {
	Outcome    LookupOutcome
	Value      string // resolved value for LookupFound
	ImportPath string // target package for LookupExternal
	Name       string // target name for LookupExternal
	Reason     string // human-readable reason for NonConstant and Missing
}

// ConstantIndex is the compilation-wide symbol table of string constants,
// built from every scanned package before any argument is resolved. Packages
// are added during the scan phase; lookups happen only after the index is
// complete, so concurrent readers never observe a partial table.
type ConstantIndex struct {
	mu       sync.RWMutex
	packages map[string]*models.PackageMetadata
}

// NewConstantIndex creates an empty index
func NewConstantIndex() *ConstantIndex {
	return &ConstantIndex{
		packages: make(map[string]*models.PackageMetadata),
	}
}

// AddPackage registers a scanned package under its import path
func (i *ConstantIndex) AddPackage(meta *models.PackageMetadata) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.packages[meta.ImportPath] = meta
}

// Package returns the scanned metadata for an import path, if co-compiled
func (i *ConstantIndex) Package(importPath string) (*models.PackageMetadata, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	meta, ok := i.packages[importPath]
	return meta, ok
}

// Resolve walks the constant chain starting at name in the given package.
// Alias constants (const A = B, const A = pkg.B) are followed until the chain
// reaches a string literal, leaves the co-compiled set, or dead-ends.
func (i *ConstantIndex) Resolve(importPath, name string) Lookup {
	i.mu.RLock()
	defer i.mu.RUnlock()

	visited := make(map[string]bool)
	for {
		key := importPath + "." + name
		if visited[key] {
			return Lookup{
				Outcome: LookupNonConstant,
				Reason:  fmt.Sprintf("constant %s is part of a reference cycle", key),
			}
		}
		visited[key] = true

		meta, ok := i.packages[importPath]
		if !ok {
			return Lookup{Outcome: LookupExternal, ImportPath: importPath, Name: name}
		}

		constant, ok := meta.Constants[name]
		if !ok {
			if meta.Vars[name] {
				return Lookup{
					Outcome: LookupNonConstant,
					Reason:  fmt.Sprintf("%s in package %s is a package-level var, not a constant", name, meta.PackageName),
				}
			}
			return Lookup{
				Outcome: LookupMissing,
				Reason:  fmt.Sprintf("package %s declares no constant named %s", meta.PackageName, name),
			}
		}

		switch constant.Kind {
		case models.ConstantString:
			return Lookup{Outcome: LookupFound, Value: constant.Value}

		case models.ConstantAlias:
			if constant.RefQualifier == "" {
				name = constant.RefName
				continue
			}
			// Qualified alias: resolve the qualifier through the imports of
			// the file that declares the alias, not the annotated file.
			target, ok := meta.Imports[constant.FileName][constant.RefQualifier]
			if !ok {
				return Lookup{
					Outcome: LookupMissing,
					Reason: fmt.Sprintf("constant %s references unknown package qualifier %s",
						constant.Name, constant.RefQualifier),
				}
			}
			importPath = target
			name = constant.RefName

		default:
			return Lookup{
				Outcome: LookupNonConstant,
				Reason:  fmt.Sprintf("constant %s in package %s is not a string literal", name, meta.PackageName),
			}
		}
	}
}
