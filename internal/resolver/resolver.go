package resolver

import (
	stderrors "errors"

	"github.com/stampkit/stamp/internal/annotations"
	"github.com/stampkit/stamp/internal/errors"
	"github.com/stampkit/stamp/internal/models"
)

// Resolver turns annotation arguments into concrete artefact type strings.
// It consults the constant index first and falls back to the dependency
// loader for packages outside the scanned set. The index is read-only by the
// time Resolve is called, so a single Resolver is safe for concurrent use.
type Resolver struct {
	index  *ConstantIndex
	loader *DependencyLoader
}

// NewResolver creates a resolver over a completed constant index
func NewResolver(index *ConstantIndex, loader *DependencyLoader) *Resolver {
	return &Resolver{index: index, loader: loader}
}

// Resolve resolves the artefact's annotation argument and records the outcome
// on the artefact itself. A non-nil return is always a diagnostic the caller
// batches; resolution of one artefact never aborts the others.
func (r *Resolver) Resolve(pkg *models.PackageMetadata, artefact *models.ArtefactMetadata) error {
	arg := artefact.Annotation.Argument
	loc := errors.SourceLocation(artefact.Annotation.Location)

	switch arg.Kind {
	case annotations.ArgumentLiteral:
		if arg.Value == "" {
			artefact.MarkResolutionFailed()
			return errors.NewEmptyArtefactTypeError(loc)
		}
		artefact.MarkResolved(arg.Value)
		return nil

	case annotations.ArgumentReference:
		value, err := r.resolveReference(pkg, artefact, arg, loc)
		if err != nil {
			artefact.MarkResolutionFailed()
			return err
		}
		if value == "" {
			artefact.MarkResolutionFailed()
			return errors.NewEmptyArtefactTypeError(loc)
		}
		artefact.MarkResolved(value)
		return nil

	default:
		artefact.MarkResolutionFailed()
		return errors.NewUnsupportedArgumentError(arg.Kind.String(), arg.Raw, loc)
	}
}

// resolveReference resolves a (possibly qualified) constant reference using
// the name resolution of the file that carries the annotation.
func (r *Resolver) resolveReference(pkg *models.PackageMetadata, artefact *models.ArtefactMetadata, arg annotations.ArgumentExpression, loc errors.SourceLocation) (string, error) {
	importPath := pkg.ImportPath
	if arg.Qualifier != "" {
		target, ok := artefact.Imports[arg.Qualifier]
		if !ok {
			return "", errors.NewUnresolvedTypeError(arg.String(),
				"package qualifier "+arg.Qualifier+" is not imported by "+artefact.FileName, loc)
		}
		importPath = target
	}

	lookup := r.index.Resolve(importPath, arg.Name)
	switch lookup.Outcome {
	case LookupFound:
		return lookup.Value, nil
	case LookupNonConstant:
		return "", errors.NewNonConstantFieldError(arg.String(), lookup.Reason, loc)
	case LookupMissing:
		return "", errors.NewUnresolvedTypeError(arg.String(), lookup.Reason, loc)
	}

	// The chain left the scanned set; type-check the dependency.
	value, err := r.loader.LookupStringConstant(lookup.ImportPath, lookup.Name)
	switch {
	case err == nil:
		return value, nil
	case stderrors.Is(err, ErrNotStringConstant):
		return "", errors.NewNonConstantFieldError(arg.String(), err.Error(), loc)
	default:
		return "", errors.NewUnresolvedTypeError(arg.String(), err.Error(), loc)
	}
}
