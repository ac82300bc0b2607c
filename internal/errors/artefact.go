package errors

import "fmt"

// Domain-specific constructors for artefact resolution and injection errors.
// Every constructor attaches the source location of the offending annotation
// and a short remediation hint so the CLI can render actionable diagnostics.

// NewUnsupportedArgumentError reports an annotation argument that is neither a
// string literal nor a (qualified) constant reference.
func NewUnsupportedArgumentError(kind, raw string, loc SourceLocation) *BaseError {
	return Newf(UnsupportedArgumentErrorCode,
		"annotation argument %q is a %s, which cannot be resolved at generation time", raw, kind).
		WithLocation(loc).
		WithContext("argument", raw).
		WithContext("argument_kind", kind).
		WithSuggestion(`use a quoted string literal, e.g. //stamp::artefact "Controller"`).
		WithSuggestion("or reference a package-level string constant, e.g. //stamp::artefact kinds.Controller")
}

// NewNonConstantFieldError reports a reference to a declaration that exists but
// is not a compile-time string constant.
func NewNonConstantFieldError(qualified, reason string, loc SourceLocation) *BaseError {
	return Newf(NonConstantFieldErrorCode,
		"%s is not a compile-time string constant: %s", qualified, reason).
		WithLocation(loc).
		WithContext("reference", qualified).
		WithSuggestion(fmt.Sprintf("declare it as `const %s = \"...\"` so the value is fixed at compile time", shortName(qualified)))
}

// NewUnresolvedTypeError reports a reference whose qualifier or constant cannot
// be found through the compilation's symbol table.
func NewUnresolvedTypeError(qualified, reason string, loc SourceLocation) *BaseError {
	return Newf(UnresolvedTypeErrorCode,
		"cannot resolve %s: %s", qualified, reason).
		WithLocation(loc).
		WithContext("reference", qualified).
		WithSuggestion("check the spelling of the package qualifier and constant name").
		WithSuggestion("ensure the package is imported by the file that carries the annotation")
}

// NewEmptyArtefactTypeError reports a resolution that produced an empty string.
// An empty tag is meaningless to consumers, so it fails the run instead of
// injecting silently.
func NewEmptyArtefactTypeError(loc SourceLocation) *BaseError {
	return New(EmptyArtefactTypeErrorCode,
		"artefact type resolved to an empty string, which is not a valid classification").
		WithLocation(loc).
		WithSuggestion("provide a non-empty artefact type such as \"Controller\" or \"Service\"")
}

// NewDuplicateMemberError reports a user-declared member that collides with the
// accessor the injector would generate.
func NewDuplicateMemberError(structName, member string, loc SourceLocation) *BaseError {
	return Newf(DuplicateMemberErrorCode,
		"struct %s already declares a member named %s, which collides with the generated accessor", structName, member).
		WithLocation(loc).
		WithContext("struct", structName).
		WithContext("member", member).
		WithSuggestion(fmt.Sprintf("rename the existing %s member, or remove the //stamp::artefact annotation", member))
}

func shortName(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}
