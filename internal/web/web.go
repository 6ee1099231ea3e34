// Package web serves the static landing page, embedded via go:embed so the
// binary needs no assets on disk.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
)

//go:embed static/*
var content embed.FS

// Handler returns an http.Handler that serves the embedded landing page.
// Panics if the embedded assets cannot be loaded (build error).
func Handler() http.Handler {
	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		panic(fmt.Sprintf("web: failed to load embedded assets: %v", err))
	}
	return http.FileServer(http.FS(staticFS))
}
