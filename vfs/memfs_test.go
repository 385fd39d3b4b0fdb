// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemFSImpliesAncestorDirs(t *testing.T) {
	fs := NewMemFS(map[string]string{
		"/project/README.md":  "hi",
		"/project/src/main.go": "package main",
	})

	info, err := fs.Stat("/project")
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	info, err = fs.Stat("/project/src")
	require.NoError(t, err)
	assert.True(t, info.IsDir)

	names, err := fs.List("/project")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"README.md", "src"}, names)
}

func TestMemFSReadWrite(t *testing.T) {
	fs := NewMemFS(nil)
	require.NoError(t, fs.Write("/a/b.txt", "hello"))

	data, err := fs.Read("/a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", data)

	_, err = fs.Read("/a")
	assert.ErrorIs(t, err, ErrIsDir)

	_, err = fs.Read("/missing")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestMemFSResolvePath(t *testing.T) {
	fs := NewMemFS(nil)
	assert.Equal(t, "/project/src", fs.ResolvePath("/project", "src"))
	assert.Equal(t, "/project", fs.ResolvePath("/project/src", ".."))
	assert.Equal(t, "/etc", fs.ResolvePath("/project", "/etc"))
}

func TestMemFSListNotDir(t *testing.T) {
	fs := NewMemFS(map[string]string{"/f": "x"})
	_, err := fs.List("/f")
	assert.ErrorIs(t, err, ErrNotDir)
}
