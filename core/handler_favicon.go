package core

import "net/http"

// FaviconHandler answers /favicon.ico with 204 No Content so browsers stop
// asking and the request log stays free of 404s.
func FaviconHandler(w http.ResponseWriter, r *http.Request) {
	setHeaders(w, HeadersFavicon)
	w.WriteHeader(http.StatusNoContent)
}
