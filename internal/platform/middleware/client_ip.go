package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies lists the networks whose forwarding headers are believed.
// The zero value trusts nobody, so the connection's remote address is the
// client address.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies accepts CIDR prefixes or bare addresses.
func ParseTrustedProxies(values []string) (TrustedProxies, error) {
	out := make(TrustedProxies, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if p, err := netip.ParsePrefix(v); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, err
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func (t TrustedProxies) contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the originating client address. Forwarding headers are
// only read when the direct peer is a trusted proxy; X-Forwarded-For is then
// walked from the right, skipping trusted hops, so a client cannot choose
// its own address by prepending entries.
func (t TrustedProxies) ClientIP(r *http.Request) string {
	remote := remoteHost(r)
	if !t.contains(remote) {
		return remote
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !t.contains(hop) {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remote
}

func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
