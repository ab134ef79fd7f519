package prerouter

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP returns the normalized address of the client. When proxyHeader is
// set and present, its first entry wins over the connection address.
func ClientIP(r *http.Request, proxyHeader string) string {
	if proxyHeader != "" {
		if v := r.Header.Get(proxyHeader); v != "" {
			first, _, _ := strings.Cut(v, ",")
			if ip := normalizeIP(strings.TrimSpace(first)); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := normalizeIP(host); ip != "" {
		return ip
	}
	return host
}

func normalizeIP(s string) string {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return ""
	}
	return addr.Unmap().String()
}
