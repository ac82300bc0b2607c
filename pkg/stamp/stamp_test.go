package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type taggedWidget struct{}

func (taggedWidget) ArtefactType() string { return "Widget" }

type plainWidget struct{}

func TestTypeOf(t *testing.T) {
	kind, ok := TypeOf(taggedWidget{})
	assert.True(t, ok)
	assert.Equal(t, "Widget", kind)

	// Value receivers make the pointer type an Artefact too.
	kind, ok = TypeOf(&taggedWidget{})
	assert.True(t, ok)
	assert.Equal(t, "Widget", kind)

	_, ok = TypeOf(plainWidget{})
	assert.False(t, ok)

	_, ok = TypeOf(nil)
	assert.False(t, ok)
}
