package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestResolveModuleNameFromGoMod(t *testing.T) {
	dir := t.TempDir()
	goModPath := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(goModPath, []byte("module example.com/widgets\n\ngo 1.23\n"), 0644))

	name := ResolveModuleName(context.Background(), afs.New(), goModPath)
	assert.Equal(t, "example.com/widgets", name)
}

func TestResolveModuleNameFallsBackToDirectory(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "go.mod")

	name := ResolveModuleName(context.Background(), afs.New(), missing)
	assert.Equal(t, filepath.Base(dir), name)
}
