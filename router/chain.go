package router

import (
	"net/http"
)

// Chain is a handler wrapped by route middlewares.
type Chain struct {
	handler     http.Handler
	middlewares []func(http.Handler) http.Handler
}

// NewChain panics on a nil handler.
func NewChain(h http.Handler) *Chain {
	if h == nil {
		panic("chain handler cannot be nil")
	}
	return &Chain{handler: h}
}

// WithMiddleware appends middlewares. The first one added is the outermost:
//
//	.WithMiddleware(blockIp, session)
//
// runs blockIp, then session, then the handler. A middleware that does not
// call next ends the request there.
func (c *Chain) WithMiddleware(middlewares ...func(http.Handler) http.Handler) *Chain {
	c.middlewares = append(c.middlewares, middlewares...)
	return c
}

// Handler returns the handler wrapped by every middleware.
func (c *Chain) Handler() http.Handler {
	if c.handler == nil {
		panic("handler cannot be nil")
	}
	h := c.handler
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h
}
