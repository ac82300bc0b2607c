package generator

import (
	"bytes"
	"go/format"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/stampkit/stamp/internal/errors"
	"github.com/stampkit/stamp/internal/models"
	"github.com/stampkit/stamp/internal/utils"
	"github.com/stampkit/stamp/pkg/stamp"
)

// fileTemplate renders one generated file per package. Accessors take a value
// receiver so both T and *T satisfy the Artefact interface.
const fileTemplate = `// Code generated by stamp. DO NOT EDIT.

package {{.PackageName}}
{{range .Accessors}}
// {{$.AccessorName}} returns the artefact type of {{.StructName}}.
func ({{.StructName}}) {{$.AccessorName}}() string {
	return {{printf "%q" .Value}}
}
{{end}}`

type accessorData struct {
	StructName string
	Value      string
}

type fileData struct {
	PackageName  string
	AccessorName string
	Accessors    []accessorData
}

// Generator renders accessor files for packages whose artefacts have resolved.
// It tracks which structs have already been injected during the run, so
// re-processing a package is a no-op rather than a duplicate declaration.
type Generator struct {
	template  *template.Template
	injected  map[string]bool
	validName utils.Validator[string]
}

// NewGenerator creates a new accessor generator
func NewGenerator() *Generator {
	return &Generator{
		template:  template.Must(template.New("artefact").Parse(fileTemplate)),
		injected:  make(map[string]bool),
		validName: utils.IsValidGoIdentifier("struct name"),
	}
}

// Generate renders the accessor file for one package. It returns nil when the
// package has nothing new to inject. Collisions with user-declared members are
// batched so every offending struct in the package is reported at once.
func (g *Generator) Generate(pkg *models.PackageMetadata) (*models.GeneratedFile, error) {
	diags := errors.NewMultipleErrors()
	var accessors []accessorData

	for _, artefact := range pkg.Artefacts {
		if artefact.State != models.StateArgumentResolved {
			continue
		}

		key := pkg.ImportPath + "." + artefact.StructName
		if g.injected[key] {
			continue
		}

		// Struct names are spliced straight into rendered source; anything
		// that is not an identifier must fail here with a location, not as a
		// format.Source error on the whole file.
		if err := g.validName(artefact.StructName); err != nil {
			artefact.MarkInjectionFailed()
			diags.Add(errors.Wrap(errors.GenerationErrorCode,
				"cannot inject accessor into "+artefact.StructName, err).
				WithLocation(errors.SourceLocation(artefact.Annotation.Location)))
			continue
		}

		if pkg.DeclaresMember(artefact.StructName, stamp.AccessorName) {
			artefact.MarkInjectionFailed()
			diags.Add(errors.NewDuplicateMemberError(artefact.StructName, stamp.AccessorName,
				errors.SourceLocation(artefact.Annotation.Location)))
			continue
		}

		g.injected[key] = true
		artefact.MarkInjected()
		accessors = append(accessors, accessorData{
			StructName: artefact.StructName,
			Value:      artefact.Resolved,
		})
	}

	if !diags.IsEmpty() {
		return nil, diags
	}
	if len(accessors) == 0 {
		return nil, nil
	}

	// Deterministic output regardless of map iteration order upstream
	sort.Slice(accessors, func(i, j int) bool {
		return accessors[i].StructName < accessors[j].StructName
	})

	var buf bytes.Buffer
	if err := g.template.Execute(&buf, fileData{
		PackageName:  pkg.PackageName,
		AccessorName: stamp.AccessorName,
		Accessors:    accessors,
	}); err != nil {
		return nil, errors.Wrap(errors.GenerationErrorCode,
			"failed to render accessor file for package "+pkg.PackageName, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.GenerationErrorCode,
			"generated code for package "+pkg.PackageName+" does not parse", err).
			WithContext("source", buf.String())
	}

	return &models.GeneratedFile{
		PackageName: pkg.PackageName,
		FilePath:    filepath.Join(pkg.PackagePath, stamp.GeneratedFileName),
		Content:     string(formatted),
	}, nil
}
