package templates

import (
	"embed"
	"io/fs"
)

//go:embed library/*.yaml
var embeddedLibrary embed.FS

// EmbeddedFS returns the bundled template library. Callers may pass this
// filesystem to LoadFS.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedLibrary, "library")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
