package core

import (
	"net/http"
)

var HeadersJson = map[string]string{
	"Content-Type": "application/json; charset=utf-8",

	// mitigate MIME-type sniffing attacks
	"X-Content-Type-Options": "nosniff",

	// Responses carry session data and must not be stored anywhere.
	"Cache-Control": "no-store, no-cache, must-revalidate",

	"X-Frame-Options": "DENY",

	// JSON is never an active document. frame-ancestors also blocks framing.
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
}

// headersPage are set on every rendered page. Pages depend on the session so
// they are never cached. Scripts and styles only load from our origin, which
// is why the pages carry no inline code.
var headersPage = map[string]string{
	"Content-Type":            "text/html; charset=utf-8",
	"Cache-Control":           "no-store",
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"Content-Security-Policy": "default-src 'self'; frame-ancestors 'none'; form-action 'self' https://accounts.google.com",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
}

var headersEventStream = map[string]string{
	"Content-Type":           "text/event-stream",
	"Cache-Control":          "no-store",
	"Connection":             "keep-alive",
	"X-Content-Type-Options": "nosniff",
	// Disables response buffering in nginx.
	"X-Accel-Buffering": "no",
}

// headersStatic defines cache headers for embedded css and js. They change
// only with a new build, so a short max-age with revalidation is enough.
var headersStatic = map[string]string{
	"Cache-Control":          "public, max-age=3600, must-revalidate",
	"X-Content-Type-Options": "nosniff",
}

// HeadersTls is set on responses served over TLS.
var HeadersTls = map[string]string{
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
}

// HeadersFavicon defines cache headers for favicon.ico.
var HeadersFavicon = map[string]string{
	"Cache-Control": "public, max-age=86400",
}

// setHeaders applies one or more sets of headers to the response writer.
// Headers from later maps will overwrite headers from earlier maps if keys conflict.
func setHeaders(w http.ResponseWriter, headers ...map[string]string) {
	for _, headerMap := range headers {
		for key, value := range headerMap {
			w.Header().Set(key, value)
		}
	}
}

// SetHeaders is setHeaders for the middlewares outside this package.
func SetHeaders(w http.ResponseWriter, headers ...map[string]string) {
	setHeaders(w, headers...)
}
