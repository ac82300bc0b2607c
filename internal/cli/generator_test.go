package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stampkit/stamp/internal/errors"
	"github.com/stampkit/stamp/internal/utils"
)

func setupProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/demo\n\ngo 1.25\n")
	writeFile(t, filepath.Join(dir, "kinds", "kinds.go"), `package kinds

const Controller = "Controller"
const Service = "Service"
const Handler = Controller
`)
	writeFile(t, filepath.Join(dir, "web", "web.go"), `package web

import "example.com/demo/kinds"

//stamp::artefact kinds.Handler
type UserController struct{}

//stamp::artefact "Service"
type UserService struct{}
`)

	chdir(t, dir)
	return dir
}

func runGenerator(t *testing.T, dirs ...string) error {
	t.Helper()
	if len(dirs) == 0 {
		dirs = []string{"./..."}
	}
	g := NewGenerator(Config{Directories: dirs}, utils.NewQuietDiagnostics())
	return g.Run()
}

func TestRun_TagsAnnotatedStructs(t *testing.T) {
	dir := setupProject(t)

	require.NoError(t, runGenerator(t))

	generated := filepath.Join(dir, "web", "autogen_artefact.go")
	content, err := os.ReadFile(generated)
	require.NoError(t, err)

	assert.Contains(t, string(content), "// Code generated by stamp. DO NOT EDIT.")
	assert.Contains(t, string(content), "package web")
	assert.Contains(t, string(content), "func (UserController) ArtefactType() string {")
	assert.Contains(t, string(content), `return "Controller"`)
	assert.Contains(t, string(content), "func (UserService) ArtefactType() string {")
	assert.Contains(t, string(content), `return "Service"`)

	// The constants-only package gets no generated file.
	_, err = os.Stat(filepath.Join(dir, "kinds", "autogen_artefact.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	dir := setupProject(t)

	require.NoError(t, runGenerator(t))
	first, err := os.ReadFile(filepath.Join(dir, "web", "autogen_artefact.go"))
	require.NoError(t, err)

	// Second run rewrites the same accessors rather than stacking new ones.
	require.NoError(t, runGenerator(t))
	second, err := os.ReadFile(filepath.Join(dir, "web", "autogen_artefact.go"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestRun_BatchesAllDiagnostics(t *testing.T) {
	dir := setupProject(t)
	writeFile(t, filepath.Join(dir, "broken", "broken.go"), `package broken

//stamp::artefact kinds.Missing
type First struct{}

//stamp::artefact ""
type Second struct{}
`)

	err := runGenerator(t)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.True(t, multi.HasCode(errors.UnresolvedTypeErrorCode))
	assert.True(t, multi.HasCode(errors.EmptyArtefactTypeErrorCode))

	// A failed run writes nothing, including for the healthy package.
	_, statErr := os.Stat(filepath.Join(dir, "web", "autogen_artefact.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_FunctionLocalConstantDoesNotResolve(t *testing.T) {
	dir := setupProject(t)
	writeFile(t, filepath.Join(dir, "shadow", "shadow.go"), `package shadow

//stamp::artefact Kind
type Widget struct{}

func helper() string {
	const Kind = "Zzz"
	return Kind
}
`)

	// Kind exists only inside helper's body, so the annotation references a
	// name that does not exist at package scope.
	err := runGenerator(t)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.True(t, multi.HasCode(errors.UnresolvedTypeErrorCode))

	_, statErr := os.Stat(filepath.Join(dir, "shadow", "autogen_artefact.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_MemberCollisionFails(t *testing.T) {
	dir := setupProject(t)
	writeFile(t, filepath.Join(dir, "clash", "clash.go"), `package clash

//stamp::artefact "Service"
type Widget struct{}

func (w Widget) ArtefactType() string { return "handwritten" }
`)

	err := runGenerator(t)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.True(t, multi.HasCode(errors.DuplicateMemberErrorCode))

	_, statErr := os.Stat(filepath.Join(dir, "clash", "autogen_artefact.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_NoAnnotationsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/plain\n")
	writeFile(t, filepath.Join(dir, "web", "web.go"), "package web\n\ntype Plain struct{}\n")
	chdir(t, dir)

	require.NoError(t, runGenerator(t))

	_, err := os.Stat(filepath.Join(dir, "web", "autogen_artefact.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleaner_RemovesGeneratedFiles(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, runGenerator(t))

	generated := filepath.Join(dir, "web", "autogen_artefact.go")
	require.FileExists(t, generated)

	removed, err := NewCleaner().CleanGeneratedFiles([]string{"./..."})
	require.NoError(t, err)
	assert.Equal(t, []string{generated}, removed)

	_, statErr := os.Stat(generated)
	assert.True(t, os.IsNotExist(statErr))

	// Cleaning an already clean tree is a no-op.
	removed, err = NewCleaner().CleanGeneratedFiles([]string{"./..."})
	require.NoError(t, err)
	assert.Empty(t, removed)
}
