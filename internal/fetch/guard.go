package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// ErrBlockedAddress is returned when a URL resolves to a loopback, private,
// link-local or otherwise non-public address.
var ErrBlockedAddress = errors.New("address is not publicly routable")

// carrier-grade NAT, not covered by net.IP.IsPrivate
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// IsPublicIP reports whether ip may be fetched on behalf of a caller.
func IsPublicIP(ip net.IP) bool {
	switch {
	case ip == nil,
		ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(),
		ip.IsMulticast(),
		ip.IsUnspecified(),
		sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// CheckHost resolves the host of urlStr and fails with ErrBlockedAddress when
// any of its addresses is not public.
func CheckHost(ctx context.Context, urlStr string) error {
	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil || parsed.Hostname() == "" {
		return &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}
	host := parsed.Hostname()

	if ip := net.ParseIP(host); ip != nil {
		if !IsPublicIP(ip) {
			return blockedError(urlStr, ip.String())
		}
		return nil
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return &Error{URL: urlStr, Message: "failed to resolve host", Cause: err}
	}
	for _, addr := range addrs {
		if !IsPublicIP(addr.IP) {
			return blockedError(urlStr, addr.IP.String())
		}
	}
	return nil
}

func blockedError(urlStr, addr string) error {
	return &Error{URL: urlStr, Message: fmt.Sprintf("refusing to fetch %s", addr), Cause: ErrBlockedAddress}
}

// dialControl runs after DNS resolution for every connection, redirects included.
func dialControl(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	if ip := net.ParseIP(host); !IsPublicIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

// guardedClient only connects to public addresses. Proxies are disabled since
// the dial check would otherwise see the proxy instead of the target.
func guardedClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   dialControl,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: transport}
}

// IsBlocked reports whether err came from the address guard.
func IsBlocked(err error) bool {
	return errors.Is(err, ErrBlockedAddress)
}
