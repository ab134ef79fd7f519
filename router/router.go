// Package router maps endpoints such as "GET /dashboard" to handler chains.
package router

import (
	"context"
	"net/http"
	"strings"
)

// Router registers handlers by endpoint, a method and a path separated by a
// space. Path parameters use the ":name" form.
type Router interface {
	Handle(endpoint string, handler http.Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

type Param struct {
	Key   string
	Value string
}

type Params []Param

// ByName returns the value of the first parameter named name.
func (ps Params) ByName(name string) string {
	for _, p := range ps {
		if p.Key == name {
			return p.Value
		}
	}
	return ""
}

// ParamGeter reads the path parameters a router stored in the request context.
type ParamGeter interface {
	Get(ctx context.Context) Params
}

// SplitEndpoint splits "POST /signup" into its method and path. An endpoint
// without a method is a GET.
func SplitEndpoint(endpoint string) (method, path string) {
	method, path, found := strings.Cut(strings.TrimSpace(endpoint), " ")
	if !found {
		return http.MethodGet, method
	}
	return method, strings.TrimSpace(path)
}
