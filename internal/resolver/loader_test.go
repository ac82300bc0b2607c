package resolver

import (
	"fmt"
	"go/constant"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

func fakeDependency() *types.Package {
	pkg := types.NewPackage("example.com/dep", "dep")
	scope := pkg.Scope()

	scope.Insert(types.NewConst(token.NoPos, pkg, "Kind",
		types.Typ[types.String], constant.MakeString("Repository")))
	scope.Insert(types.NewConst(token.NoPos, pkg, "Limit",
		types.Typ[types.Int], constant.MakeInt64(10)))
	scope.Insert(types.NewVar(token.NoPos, pkg, "Mutable",
		types.Typ[types.String]))

	return pkg
}

func newStubbedLoader(t *testing.T, calls *int) *DependencyLoader {
	t.Helper()

	dep := fakeDependency()
	loader := NewDependencyLoader(".")
	loader.load = func(cfg *packages.Config, patterns ...string) ([]*packages.Package, error) {
		*calls++
		if patterns[0] != "example.com/dep" {
			return nil, fmt.Errorf("no such package %s", patterns[0])
		}
		return []*packages.Package{{Types: dep}}, nil
	}
	return loader
}

func TestLookupStringConstant(t *testing.T) {
	var calls int
	loader := newStubbedLoader(t, &calls)

	value, err := loader.LookupStringConstant("example.com/dep", "Kind")
	require.NoError(t, err)
	assert.Equal(t, "Repository", value)
}

func TestLookupStringConstant_NonString(t *testing.T) {
	var calls int
	loader := newStubbedLoader(t, &calls)

	_, err := loader.LookupStringConstant("example.com/dep", "Limit")
	require.ErrorIs(t, err, ErrNotStringConstant)

	_, err = loader.LookupStringConstant("example.com/dep", "Mutable")
	require.ErrorIs(t, err, ErrNotStringConstant)
}

func TestLookupStringConstant_Missing(t *testing.T) {
	var calls int
	loader := newStubbedLoader(t, &calls)

	_, err := loader.LookupStringConstant("example.com/dep", "Nope")
	require.ErrorIs(t, err, ErrConstantNotFound)

	_, err = loader.LookupStringConstant("example.com/gone", "Kind")
	require.ErrorIs(t, err, ErrConstantNotFound)
}

func TestLookupStringConstant_Memoized(t *testing.T) {
	var calls int
	loader := newStubbedLoader(t, &calls)

	for i := 0; i < 3; i++ {
		_, err := loader.LookupStringConstant("example.com/dep", "Kind")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls, "package should be loaded once per run")

	// Failed loads are memoized too.
	for i := 0; i < 3; i++ {
		_, err := loader.LookupStringConstant("example.com/gone", "Kind")
		require.Error(t, err)
	}
	assert.Equal(t, 2, calls)

	loader.Reset()
	_, err := loader.LookupStringConstant("example.com/dep", "Kind")
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "Reset should drop memoized packages")
}
