// Package config resolves ambient project context: the Go module name
// declared by a go.mod file, and a default afs.Service. cmd/flowscript reads
// one source path or URL per invocation and does not call into this package;
// it has no directory-tree mode and does not rewrite metadata.source_files.
package config

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// ResolveModuleName returns the Go module path declared by the go.mod found
// at goModPath, falling back to the containing directory's base name if the
// file is missing or unparsable.
func ResolveModuleName(ctx context.Context, fs afs.Service, goModPath string) string {
	content, err := fs.DownloadWithURL(ctx, goModPath)
	if err != nil || len(content) == 0 {
		return filepath.Base(filepath.Dir(goModPath))
	}
	if mod, err := modfile.Parse(goModPath, content, nil); err == nil && mod.Module != nil {
		return mod.Module.Mod.Path
	}
	if matches := moduleLineRegex.FindSubmatch(content); len(matches) == 2 {
		return string(matches[1])
	}
	return filepath.Base(filepath.Dir(goModPath))
}

var moduleLineRegex = regexp.MustCompile(`(?m)^module\s+(\S+)`)

// NewFileSystem returns a new default afs.Service, of the kind
// query.LoadDocument accepts.
func NewFileSystem() afs.Service {
	return afs.New()
}
