package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vityafx/serde/internal/shape"
)

func TestLoader_LoadExamples(t *testing.T) {
	pkgs, err := NewLoader("../..").Load("github.com/vityafx/serde/examples/model")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	pkg := pkgs[0]
	assert.Equal(t, "github.com/vityafx/serde/examples/model", pkg.Path)
	assert.Equal(t, "model", pkg.Name)
	assert.NotEmpty(t, pkg.Dir)

	byName := make(map[string]*shape.TypeDefinition, len(pkg.Defs))
	for _, def := range pkg.Defs {
		byName[def.Name] = def
	}

	require.Contains(t, byName, "User")
	assert.Equal(t, shape.KindStruct, byName["User"].Shape.Kind)

	require.Contains(t, byName, "Point")
	assert.Equal(t, shape.KindTuple, byName["Point"].Shape.Kind)

	require.Contains(t, byName, "UserID")
	assert.Equal(t, shape.KindNewType, byName["UserID"].Shape.Kind)

	require.Contains(t, byName, "Ping")
	assert.Equal(t, shape.KindUnit, byName["Ping"].Shape.Kind)

	require.Contains(t, byName, "Message")
	require.Equal(t, shape.KindEnum, byName["Message"].Shape.Kind)
	require.Len(t, byName["Message"].Shape.Variants, 2)
	assert.Equal(t, "Quit", byName["Message"].Shape.Variants[0].Name)
	assert.Equal(t, "Move", byName["Message"].Shape.Variants[1].Name)

	// Variant structs fold into the enum instead of standing alone.
	assert.NotContains(t, byName, "Quit")
	assert.NotContains(t, byName, "Move")
}

func TestLoader_BadPattern(t *testing.T) {
	_, err := NewLoader("").Load("not a path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid package pattern")

	_, err = NewLoader("").Load("")
	require.Error(t, err)
}
