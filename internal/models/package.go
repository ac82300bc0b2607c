package models

// ConstantKind classifies a package-level constant declaration as seen by the
// source scanner. Only directly usable forms are distinguished; everything
// else is NonLiteral and fails resolution (constant folding is out of scope).
type ConstantKind int

const (
	// ConstantString is `const Name = "literal"` (possibly explicitly typed string).
	ConstantString ConstantKind = iota
	// ConstantAlias is `const Name = Other` or `const Name = pkg.Other`.
	ConstantAlias
	// ConstantNonLiteral is a constant with any other initializer form
	// (concatenation, conversion of non-string, iota, ...).
	ConstantNonLiteral
)

// ConstantDecl is one package-level constant declaration.
type ConstantDecl struct {
	Name         string
	Kind         ConstantKind
	Value        string // literal value for ConstantString
	RefQualifier string // package qualifier for ConstantAlias, empty for local
	RefName      string // referenced name for ConstantAlias
	FileName     string
	Line         int
}

// PackageMetadata holds everything the pipeline needs to know about one
// scanned package: its artefacts, its constant pool contribution to the
// compilation-wide symbol table, and the member sets used for collision
// detection.
type PackageMetadata struct {
	PackageName string
	PackagePath string // directory the package was parsed from
	ImportPath  string // module-qualified import path, set by the orchestrator

	Artefacts []*ArtefactMetadata

	// Constants are the package-level string constants visible to references
	// from co-compiled packages. Read-only once parsing completes.
	Constants map[string]ConstantDecl

	// Vars are package-level var names. A reference to one of these is a
	// NonConstantFieldReference, not an unresolved name.
	Vars map[string]bool

	// Members maps struct name -> declared method and field names, used to
	// detect collisions with the generated accessor.
	Members map[string]map[string]bool

	// Imports maps file name -> import table (local name -> import path).
	Imports map[string]map[string]string
}

// NewPackageMetadata creates an empty PackageMetadata for the given package.
func NewPackageMetadata(name, path string) *PackageMetadata {
	return &PackageMetadata{
		PackageName: name,
		PackagePath: path,
		Constants:   make(map[string]ConstantDecl),
		Vars:        make(map[string]bool),
		Members:     make(map[string]map[string]bool),
		Imports:     make(map[string]map[string]string),
	}
}

// DeclaresMember reports whether the named struct declares a method or field
// with the given name.
func (m *PackageMetadata) DeclaresMember(structName, member string) bool {
	return m.Members[structName][member]
}

// GeneratedFile is the rendered output for one package. Files are accumulated
// in memory and written only when the whole run is error-free, so a failed
// run never emits a partially tagged package.
type GeneratedFile struct {
	PackageName string
	FilePath    string
	Content     string
}
