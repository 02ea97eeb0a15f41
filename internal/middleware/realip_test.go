// AngelaMos | 2026
// realip_test.go

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProxyTrust(t *testing.T, entries ...string) *ProxyTrust {
	t.Helper()
	pt, err := NewProxyTrust(entries)
	require.NoError(t, err)
	return pt
}

func TestAuthLimiterHoldsAgainstRotatingForwardedFor(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Name:  "auth",
		Quota: Quota{Requests: 1, Burst: 2, Window: time.Minute},
	})
	h := mustProxyTrust(t).Handler(rl.Handler(okHandler()))

	limited := 0
	for i := range 50 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.50:41000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("192.0.2.%d", i+1))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 48, limited)
}

func TestProxyTrustResolve(t *testing.T) {
	pt := mustProxyTrust(t, "10.0.0.0/8", "192.168.1.10")

	tests := []struct {
		name   string
		remote string
		xff    []string
		realIP string
		want   string
	}{
		{
			name:   "untrusted peer keeps its own address",
			remote: "203.0.113.50:41000",
			xff:    []string{"198.51.100.1"},
			realIP: "198.51.100.2",
			want:   "203.0.113.50",
		},
		{
			name:   "trusted peer forwards the client",
			remote: "10.1.2.3:8080",
			xff:    []string{"198.51.100.7"},
			want:   "198.51.100.7",
		},
		{
			name:   "client supplied hops left of the first untrusted are ignored",
			remote: "10.1.2.3:8080",
			xff:    []string{"1.1.1.1, 198.51.100.7", "10.9.9.9"},
			want:   "198.51.100.7",
		},
		{
			name:   "bare address entry is trusted",
			remote: "192.168.1.10:8080",
			xff:    []string{"198.51.100.8"},
			want:   "198.51.100.8",
		},
		{
			name:   "only proxies in the chain",
			remote: "10.1.2.3:8080",
			xff:    []string{"10.0.0.9, 10.0.0.8"},
			want:   "10.0.0.9",
		},
		{
			name:   "garbage hop stops the walk",
			remote: "10.1.2.3:8080",
			xff:    []string{"not-an-ip, 10.0.0.8"},
			want:   "10.0.0.8",
		},
		{
			name:   "x-real-ip from a trusted peer",
			remote: "10.1.2.3:8080",
			realIP: "198.51.100.9",
			want:   "198.51.100.9",
		},
		{
			name:   "ipv4 mapped peer",
			remote: "[::ffff:10.1.2.3]:8080",
			xff:    []string{"198.51.100.4"},
			want:   "198.51.100.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}

			assert.Equal(t, tt.want, pt.Resolve(req))
		})
	}
}

func TestProxyTrustStoresClientIP(t *testing.T) {
	var seen string
	h := mustProxyTrust(t, "10.0.0.0/8").Handler(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = ClientIP(r)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:9000"
	req.Header.Set("X-Forwarded-For", "198.51.100.3")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "198.51.100.3", seen)
}

func TestNewProxyTrustRejectsHostnames(t *testing.T) {
	_, err := NewProxyTrust([]string{"proxy.internal"})
	assert.ErrorContains(t, err, "proxy.internal")

	_, err = NewProxyTrust([]string{"10.0.0.0/33"})
	assert.Error(t, err)
}
