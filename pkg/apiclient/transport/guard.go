package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ErrPrivateAddress is returned when a public-only adapter is asked to reach
// a loopback, private or link-local address.
var ErrPrivateAddress = errors.New("access to private address denied")

// WithPublicHostsOnly makes the default client refuse connections to
// loopback, private and link-local addresses. The check runs on the address
// actually dialed, after DNS resolution. It has no effect together with
// WithHTTPClient.
func WithPublicHostsOnly() HTTPOption {
	return func(h *HTTP) {
		h.publicOnly = true
	}
}

// publicOnlyTransport clones the default transport with a dialer that drops
// connections to non-public peers.
func publicOnlyTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	t.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}

		host, _, _ := net.SplitHostPort(conn.RemoteAddr().String())
		ip := net.ParseIP(host)
		if ip == nil {
			conn.Close()
			return nil, fmt.Errorf("failed to parse remote IP for %q", addr)
		}

		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			conn.Close()
			return nil, fmt.Errorf("%w: %s", ErrPrivateAddress, ip)
		}
		return conn, nil
	}
	return t
}
