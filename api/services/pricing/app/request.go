package app

import (
	"net"
	"net/http"
	"strings"
)

// Headers carrying the client address, most trusted first.
const (
	HeaderCDNConnectingIP = "Cf-Connecting-Ip"
	HeaderForwardedFor    = "X-Forwarded-For"
	HeaderRealIP          = "X-Real-Ip"
)

// Request is the part of an inbound request pricing depends on.
type Request struct {
	RemoteAddr string
	Header     http.Header
}

// RequestFromHTTP extracts a Request from an HTTP request.
func RequestFromHTTP(r *http.Request) Request {
	return Request{RemoteAddr: r.RemoteAddr, Header: r.Header}
}

// ClientIP picks the client address: CDN connecting-IP header, first
// X-Forwarded-For entry, X-Real-IP, then the socket address without its
// port. It returns "" when none is present.
func ClientIP(req Request) string {
	if req.Header != nil {
		if ip := strings.TrimSpace(req.Header.Get(HeaderCDNConnectingIP)); ip != "" {
			return ip
		}
		if fwd := req.Header.Get(HeaderForwardedFor); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(req.Header.Get(HeaderRealIP)); ip != "" {
			return ip
		}
	}
	addr := strings.TrimSpace(req.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
