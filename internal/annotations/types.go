package annotations

import "fmt"

// ArgumentKind classifies the single argument of an artefact annotation.
type ArgumentKind int

const (
	// ArgumentLiteral is a quoted string literal, e.g. "Controller".
	ArgumentLiteral ArgumentKind = iota
	// ArgumentReference is a reference to a package-level string constant,
	// either qualified (kinds.Controller) or local (Controller).
	ArgumentReference
	// ArgumentUnsupported is any other expression form (call, concatenation,
	// number, ...). Classification never fails; resolution of an unsupported
	// argument does.
	ArgumentUnsupported
)

// String returns the string representation of the argument kind
func (k ArgumentKind) String() string {
	switch k {
	case ArgumentLiteral:
		return "string literal"
	case ArgumentReference:
		return "constant reference"
	case ArgumentUnsupported:
		return "unsupported expression"
	default:
		return "unknown"
	}
}

// ArgumentExpression is the AST-level representation of the annotation's
// argument. It is produced by the grammar parser and consumed exactly once by
// the resolver.
type ArgumentExpression struct {
	Kind      ArgumentKind
	Value     string // unquoted literal value (ArgumentLiteral only)
	Qualifier string // package qualifier, empty for same-package references
	Name      string // referenced constant name (ArgumentReference only)
	Raw       string // original argument text as written in the comment
}

// String returns the reference in source form, used in diagnostics.
func (a ArgumentExpression) String() string {
	switch a.Kind {
	case ArgumentLiteral:
		return fmt.Sprintf("%q", a.Value)
	case ArgumentReference:
		if a.Qualifier != "" {
			return a.Qualifier + "." + a.Name
		}
		return a.Name
	default:
		return a.Raw
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // file path
	Line   int    // line number (1-based)
	Column int    // column number (1-based)
}

// ParsedAnnotation represents a fully parsed //stamp::artefact annotation
type ParsedAnnotation struct {
	Target   string             // annotated struct name
	Argument ArgumentExpression // the single classification argument
	Location SourceLocation     // source location of the annotation comment
	Raw      string             // original annotation text
}
