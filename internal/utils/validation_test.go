package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotEmpty(t *testing.T) {
	validate := NotEmpty("name")

	assert.NoError(t, validate("value"))

	err := validate("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestHasSuffix(t *testing.T) {
	validate := HasSuffix("path", ".go")

	assert.NoError(t, validate("main.go"))
	assert.Error(t, validate("main.txt"))
}

func TestIsValidGoIdentifier(t *testing.T) {
	validate := IsValidGoIdentifier("member")

	assert.NoError(t, validate("ArtefactType"))
	assert.NoError(t, validate("_private"))
	assert.Error(t, validate(""))
	assert.Error(t, validate("123abc"))
	assert.Error(t, validate("has space"))
	assert.Error(t, validate("func"))
}

func TestValidatorChain(t *testing.T) {
	validate := NewValidatorChain(
		NotEmpty("file"),
		HasSuffix("file", ".go"),
	).Validate

	assert.NoError(t, validate("app.go"))
	assert.Error(t, validate(""))
	assert.Error(t, validate("app.md"))
}
