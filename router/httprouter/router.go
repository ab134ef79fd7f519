package httprouter

import (
	"context"
	"net/http"

	"github.com/ayomtuase/julieth/router"
	jshttprouter "github.com/julienschmidt/httprouter"
)

// Implementation of the router interface
type Router struct {
	rt *jshttprouter.Router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

func (r *Router) Handle(endpoint string, handler http.Handler) {
	method, path := router.SplitEndpoint(endpoint)
	r.rt.Handler(method, path, handler)
}

// NotFound replaces the default 404 handler.
func (r *Router) NotFound(h http.Handler) {
	r.rt.NotFound = h
}

func New() *Router {
	rt := jshttprouter.New()
	rt.RedirectTrailingSlash = true
	rt.HandleMethodNotAllowed = true
	return &Router{rt: rt}
}

// Implementation of the router/ParamGeter interface
type jsParams struct{}

func (js *jsParams) Get(ctx context.Context) router.Params {
	pms := jshttprouter.ParamsFromContext(ctx)

	params := make(router.Params, 0, len(pms))
	for _, v := range pms {
		params = append(params, router.Param{Key: v.Key, Value: v.Value})
	}
	return params
}

func NewParamGeter() router.ParamGeter {
	return &jsParams{}
}
