package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathNormalize(t *testing.T) {
	assert.Equal(t, "a/b/c", NewPath(`a\b\c`).String())
	assert.Equal(t, "a/b", NewPath("a/b/").String())
	assert.Equal(t, "/", NewPath("/").String())
}

func TestPathResolve(t *testing.T) {
	root := NewPath("/project")
	assert.Equal(t, "/project/src", root.Resolve("src").String())
	assert.Equal(t, "/other", root.Resolve("/other").String())
	assert.Equal(t, "/project", root.Resolve("").String())
}

func TestPathEquals(t *testing.T) {
	a := NewPath(`a\b`)
	b := NewPath("a/b/")
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(NewPath("a/c")))
}
