package router

import "net/http"

// Route is an endpoint with its handler chain.
type Route struct {
	endpoint string
	chain    *Chain
}

// NewRoute panics on an empty endpoint.
func NewRoute(endpoint string) *Route {
	if endpoint == "" {
		panic("route endpoint cannot be empty")
	}
	return &Route{endpoint: endpoint}
}

func (r *Route) Endpoint() string {
	return r.endpoint
}

func (r *Route) WithHandler(h http.Handler) *Route {
	if r.chain == nil {
		r.chain = NewChain(h)
	} else {
		r.chain.handler = h
	}
	return r
}

func (r *Route) WithHandlerFunc(h http.HandlerFunc) *Route {
	return r.WithHandler(h)
}

func (r *Route) WithMiddleware(middlewares ...func(http.Handler) http.Handler) *Route {
	r.mustChain().WithMiddleware(middlewares...)
	return r
}

// Handler panics when no handler was set.
func (r *Route) Handler() http.Handler {
	return r.mustChain().Handler()
}

func (r *Route) mustChain() *Chain {
	if r.chain == nil {
		panic("route " + r.endpoint + " has no handler")
	}
	return r.chain
}

// Register adds every route to rt.
func Register(rt Router, routes ...*Route) {
	for _, route := range routes {
		rt.Handle(route.endpoint, route.Handler())
	}
}
