// AngelaMos | 2026
// realip.go

package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const clientIPKey contextKey = "client_ip"

// ProxyTrust resolves the client address of a request. Forwarding headers
// are read only when the socket peer is one of the trusted proxies.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

// NewProxyTrust accepts CIDRs and bare addresses.
func NewProxyTrust(entries []string) (*ProxyTrust, error) {
	pt := &ProxyTrust{}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("parse trusted proxy %q: %w", entry, err)
			}
			pt.prefixes = append(pt.prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("parse trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		pt.prefixes = append(pt.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return pt, nil
}

func (pt *ProxyTrust) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientIPKey, pt.Resolve(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Resolve walks X-Forwarded-For from the nearest hop outwards and returns
// the first address not owned by a trusted proxy.
func (pt *ProxyTrust) Resolve(r *http.Request) string {
	peer := peerHost(r)
	if !pt.trusts(peer) {
		return peer
	}

	var client string
	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		client = addr.Unmap().String()
		if !pt.trustsAddr(addr) {
			return client
		}
	}
	if client != "" {
		return client
	}

	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.Unmap().String()
	}
	return peer
}

func (pt *ProxyTrust) trusts(host string) bool {
	addr, err := netip.ParseAddr(host)
	return err == nil && pt.trustsAddr(addr)
}

func (pt *ProxyTrust) trustsAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range pt.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the address ProxyTrust resolved for the request, or the
// socket peer when it did not run.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey).(string); ok {
		return ip
	}
	return peerHost(r)
}

func peerHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
