package models

import "github.com/stampkit/stamp/internal/annotations"

// ArtefactState tracks an annotated struct through the generation pipeline.
// Each artefact passes through the pipeline exactly once; no state is revisited.
type ArtefactState int

const (
	StateDiscovered ArtefactState = iota
	StateArgumentResolved
	StateInjected         // terminal, success
	StateResolutionFailed // terminal, compile error
	StateInjectionFailed  // terminal, compile error on collision
)

// String returns the string representation of the artefact state
func (s ArtefactState) String() string {
	switch s {
	case StateDiscovered:
		return "Discovered"
	case StateArgumentResolved:
		return "ArgumentResolved"
	case StateInjected:
		return "Injected"
	case StateResolutionFailed:
		return "ResolutionFailed"
	case StateInjectionFailed:
		return "InjectionFailed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the state ends the pipeline for this artefact.
func (s ArtefactState) Terminal() bool {
	return s == StateInjected || s == StateResolutionFailed || s == StateInjectionFailed
}

// ArtefactMetadata describes one annotated struct discovered during parsing.
type ArtefactMetadata struct {
	StructName string                        // annotated struct name
	Annotation *annotations.ParsedAnnotation // the type-tagging annotation
	FileName   string                        // file that declares the struct
	Imports    map[string]string             // declaring file's imports: local name -> import path
	Resolved   string                        // resolved artefact type, set on StateArgumentResolved
	State      ArtefactState
}

// MarkResolved records a successful argument resolution.
func (a *ArtefactMetadata) MarkResolved(value string) {
	a.Resolved = value
	a.State = StateArgumentResolved
}

// MarkResolutionFailed records a terminal resolution failure.
func (a *ArtefactMetadata) MarkResolutionFailed() {
	a.State = StateResolutionFailed
}

// MarkInjected records a successful injection.
func (a *ArtefactMetadata) MarkInjected() {
	a.State = StateInjected
}

// MarkInjectionFailed records a terminal injection failure (member collision).
func (a *ArtefactMetadata) MarkInjectionFailed() {
	a.State = StateInjectionFailed
}
