package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stampkit/stamp/internal/annotations"
	"github.com/stampkit/stamp/internal/errors"
	"github.com/stampkit/stamp/internal/models"
)

func resolvedArtefact(structName, value string) *models.ArtefactMetadata {
	artefact := &models.ArtefactMetadata{
		StructName: structName,
		FileName:   "app.go",
		Annotation: &annotations.ParsedAnnotation{Target: structName},
	}
	artefact.MarkResolved(value)
	return artefact
}

func newTestPackage(artefacts ...*models.ArtefactMetadata) *models.PackageMetadata {
	meta := models.NewPackageMetadata("web", "./web")
	meta.ImportPath = "example.com/app/web"
	meta.Artefacts = artefacts
	return meta
}

func TestGenerate_EmitsAccessor(t *testing.T) {
	pkg := newTestPackage(resolvedArtefact("UserController", "Controller"))

	file, err := NewGenerator().Generate(pkg)
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Equal(t, "web/autogen_artefact.go", file.FilePath)
	assert.True(t, strings.HasPrefix(file.Content, "// Code generated by stamp. DO NOT EDIT."))
	assert.Contains(t, file.Content, "package web")
	assert.Contains(t, file.Content, "func (UserController) ArtefactType() string {")
	assert.Contains(t, file.Content, `return "Controller"`)

	assert.Equal(t, models.StateInjected, pkg.Artefacts[0].State)
}

func TestGenerate_EscapesValues(t *testing.T) {
	pkg := newTestPackage(resolvedArtefact("Widget", `say "hi"`))

	file, err := NewGenerator().Generate(pkg)
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.Contains(t, file.Content, `return "say \"hi\""`)
}

func TestGenerate_SortsAccessorsByStructName(t *testing.T) {
	pkg := newTestPackage(
		resolvedArtefact("Zebra", "Service"),
		resolvedArtefact("Alpha", "Controller"),
	)

	file, err := NewGenerator().Generate(pkg)
	require.NoError(t, err)
	require.NotNil(t, file)

	alpha := strings.Index(file.Content, "func (Alpha)")
	zebra := strings.Index(file.Content, "func (Zebra)")
	require.NotEqual(t, -1, alpha)
	require.NotEqual(t, -1, zebra)
	assert.Less(t, alpha, zebra)
}

func TestGenerate_MemberCollisionFails(t *testing.T) {
	artefact := resolvedArtefact("Widget", "Controller")
	pkg := newTestPackage(artefact)
	pkg.Members["Widget"] = map[string]bool{"ArtefactType": true}

	file, err := NewGenerator().Generate(pkg)
	require.Error(t, err)
	assert.Nil(t, file)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.True(t, multi.HasCode(errors.DuplicateMemberErrorCode))
	assert.Equal(t, models.StateInjectionFailed, artefact.State)
}

func TestGenerate_RejectsNonIdentifierStructName(t *testing.T) {
	artefact := resolvedArtefact("not an identifier", "Controller")
	pkg := newTestPackage(artefact)

	file, err := NewGenerator().Generate(pkg)
	require.Error(t, err)
	assert.Nil(t, file)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.True(t, multi.HasCode(errors.GenerationErrorCode))
	assert.Equal(t, models.StateInjectionFailed, artefact.State)
}

func TestGenerate_SecondRunIsNoOp(t *testing.T) {
	pkg := newTestPackage(resolvedArtefact("Widget", "Controller"))
	g := NewGenerator()

	first, err := g.Generate(pkg)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Re-resolving the same struct must not produce a second declaration.
	pkg.Artefacts[0].State = models.StateArgumentResolved
	second, err := g.Generate(pkg)
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestGenerate_NothingToInject(t *testing.T) {
	pkg := newTestPackage()

	file, err := NewGenerator().Generate(pkg)
	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestGenerate_SkipsFailedArtefacts(t *testing.T) {
	failed := &models.ArtefactMetadata{
		StructName: "Broken",
		Annotation: &annotations.ParsedAnnotation{Target: "Broken"},
		State:      models.StateResolutionFailed,
	}
	pkg := newTestPackage(failed, resolvedArtefact("Widget", "Service"))

	file, err := NewGenerator().Generate(pkg)
	require.NoError(t, err)
	require.NotNil(t, file)

	assert.NotContains(t, file.Content, "Broken")
	assert.Contains(t, file.Content, "Widget")
}
