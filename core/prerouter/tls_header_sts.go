package prerouter

import (
	"net/http"

	"github.com/ayomtuase/julieth/core"
)

// TLSHeaderSTS sets Strict-Transport-Security on responses served over TLS,
// directly or through a proxy that terminated it.
type TLSHeaderSTS struct {
	env Env
}

func NewTLSHeaderSTS(env Env) *TLSHeaderSTS {
	return &TLSHeaderSTS{env: env}
}

func (m *TLSHeaderSTS) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS != nil || m.behindTLSProxy(r) {
			core.SetHeaders(w, core.HeadersTls)
		}
		next.ServeHTTP(w, r)
	})
}

// The forwarded proto is only trusted when a proxy header is configured.
func (m *TLSHeaderSTS) behindTLSProxy(r *http.Request) bool {
	return m.env.Config().Server.ClientIpProxyHeader != "" &&
		r.Header.Get("X-Forwarded-Proto") == "https"
}
