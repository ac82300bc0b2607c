package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{UnsupportedArgumentErrorCode, "UnsupportedArgumentExpression"},
		{NonConstantFieldErrorCode, "NonConstantFieldReference"},
		{UnresolvedTypeErrorCode, "UnresolvedTypeReference"},
		{EmptyArtefactTypeErrorCode, "EmptyArtefactType"},
		{DuplicateMemberErrorCode, "DuplicateInjectedMember"},
		{SyntaxErrorCode, "SyntaxError"},
		{UnknownErrorCode, "UnknownError"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.String())
	}
}

func TestBaseError_Format(t *testing.T) {
	err := Newf(UnresolvedTypeErrorCode, "cannot resolve %s", "kinds.Missing").
		WithLocation(SourceLocation{File: "web.go", Line: 12, Column: 1}).
		WithSuggestion("check the constant name")

	assert.Equal(t, "web.go:12:1: UnresolvedTypeReference: cannot resolve kinds.Missing", err.Error())
	assert.Equal(t, UnresolvedTypeErrorCode, err.ErrorCode())
	assert.Equal(t, []string{"check the constant name"}, err.Suggestions())
}

func TestBaseError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(GenerationErrorCode, "render failed", cause)

	require.ErrorIs(t, err, cause)
}

func TestSourceLocation(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "web.go", SourceLocation{File: "web.go"}.String())
	assert.Equal(t, "web.go:3", SourceLocation{File: "web.go", Line: 3}.String())
	assert.Equal(t, "web.go:3:7", SourceLocation{File: "web.go", Line: 3, Column: 7}.String())
	assert.True(t, SourceLocation{}.IsEmpty())
}

func TestMultipleErrors(t *testing.T) {
	multi := NewMultipleErrors()
	assert.True(t, multi.IsEmpty())

	multi.Add(New(EmptyArtefactTypeErrorCode, "empty tag"))
	multi.Add(New(DuplicateMemberErrorCode, "collision"))

	assert.Equal(t, 2, multi.Count())
	assert.True(t, multi.HasCode(DuplicateMemberErrorCode))
	assert.False(t, multi.HasCode(SyntaxErrorCode))
	assert.Len(t, multi.GetByCode(EmptyArtefactTypeErrorCode), 1)
	assert.Contains(t, multi.Error(), "multiple errors (2 total)")
}

func TestDomainConstructors(t *testing.T) {
	loc := SourceLocation{File: "web.go", Line: 4}

	unsupported := NewUnsupportedArgumentError("unsupported expression", `"a" + "b"`, loc)
	assert.Equal(t, UnsupportedArgumentErrorCode, unsupported.ErrorCode())
	assert.NotEmpty(t, unsupported.Suggestions())

	nonConst := NewNonConstantFieldError("kinds.Mutable", "is a package-level var", loc)
	assert.Equal(t, NonConstantFieldErrorCode, nonConst.ErrorCode())
	assert.Contains(t, nonConst.Suggestions()[0], "const Mutable")

	duplicate := NewDuplicateMemberError("Widget", "ArtefactType", loc)
	assert.Equal(t, DuplicateMemberErrorCode, duplicate.ErrorCode())
	assert.Equal(t, "Widget", duplicate.Context()["struct"])
}
