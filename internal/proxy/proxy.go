// Package proxy optionally routes outbound SMTP connections through a
// single configured SOCKS5/HTTP proxy.
package proxy

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	netproxy "golang.org/x/net/proxy"
)

// Dialer wraps an optional proxy URL. A nil-valued or zero Dialer dials
// directly.
type Dialer struct {
	proxyURL *url.URL
}

// New parses rawURL (which may be empty, meaning "dial directly") into a
// Dialer.
func New(rawURL string) (*Dialer, error) {
	if rawURL == "" {
		return &Dialer{}, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", rawURL, err)
	}
	return &Dialer{proxyURL: u}, nil
}

// Enabled reports whether this dialer routes through a configured proxy.
func (d *Dialer) Enabled() bool {
	return d != nil && d.proxyURL != nil
}

// conn wraps net.Conn so closing it only ever runs once, guarding against
// double-close panics from callers that defer Close themselves as well as
// quitting the SMTP client.
type conn struct {
	net.Conn
	closeOnce sync.Once
	closeErr  error
}

func (c *conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.Conn.Close()
	})
	return c.closeErr
}

// DialContext connects to addr, either directly or through the configured
// proxy.
func (d *Dialer) DialContext(ctx context.Context, network, addr string, timeout time.Duration) (net.Conn, error) {
	direct := &net.Dialer{Timeout: timeout}

	if !d.Enabled() {
		return direct.DialContext(ctx, network, addr)
	}

	pdialer, err := netproxy.FromURL(d.proxyURL, direct)
	if err != nil {
		return nil, fmt.Errorf("parse proxy dialer: %w", err)
	}

	var c net.Conn
	if cd, ok := pdialer.(netproxy.ContextDialer); ok {
		c, err = cd.DialContext(ctx, network, addr)
	} else {
		c, err = pdialer.Dial(network, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("proxied dial to %s failed: %w", addr, err)
	}

	return &conn{Conn: c}, nil
}
