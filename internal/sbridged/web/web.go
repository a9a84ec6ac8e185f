// Package web serves the overlay and configuration pages from an embedded
// bundle, with an optional filesystem override for local asset development.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// FS returns the asset filesystem. When dir is non-empty, files present
// there shadow the embedded bundle.
func FS(dir string) http.FileSystem {
	embedded, err := fs.Sub(content, "static")
	if err != nil {
		// static is embedded at build time; Sub only fails on a bad path
		panic(err)
	}
	if dir == "" {
		return http.FS(embedded)
	}
	return fallbackFS{primary: http.Dir(dir), secondary: http.FS(embedded)}
}

type fallbackFS struct {
	primary   http.FileSystem
	secondary http.FileSystem
}

func (f fallbackFS) Open(name string) (http.File, error) {
	if file, err := f.primary.Open(name); err == nil {
		return file, nil
	}
	return f.secondary.Open(name)
}
