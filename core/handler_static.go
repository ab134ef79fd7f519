package core

import (
	"io/fs"
	"net/http"
)

// StaticHandler serves the embedded css and js under prefix.
func StaticHandler(prefix string, files fs.FS) http.Handler {
	fileServer := http.StripPrefix(prefix, http.FileServerFS(files))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w, headersStatic)
		fileServer.ServeHTTP(w, r)
	})
}
