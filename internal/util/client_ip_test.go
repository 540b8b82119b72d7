package util

import (
	"net/http/httptest"
	"testing"
)

func TestClientIPIgnoresHeadersFromUntrustedPeer(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.9:4444"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	r.Header.Set("X-Real-IP", "198.51.100.2")

	if ip := ClientIP(r, nil); ip != "203.0.113.9" {
		t.Fatalf("ip = %q, want socket address", ip)
	}
}

func TestClientIPFollowsForwardedChainFromTrustedProxy(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("parse proxies: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:4444"
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.9.9.9")

	if ip := ClientIP(r, trusted); ip != "198.51.100.7" {
		t.Fatalf("ip = %q, want first untrusted hop", ip)
	}
}

func TestClientIPUsesRealIPWhenNoForwardedChain(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"10.1.2.3"})
	if err != nil {
		t.Fatalf("parse proxies: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.1.2.3:4444"
	r.Header.Set("X-Real-IP", "198.51.100.2")

	if ip := ClientIP(r, trusted); ip != "198.51.100.2" {
		t.Fatalf("ip = %q, want X-Real-IP value", ip)
	}
}

func TestNewTrustedProxies(t *testing.T) {
	if trusted, err := NewTrustedProxies(nil); err != nil || trusted != nil {
		t.Fatalf("empty input: trusted=%v err=%v", trusted, err)
	}
	if _, err := NewTrustedProxies([]string{"not-an-ip"}); err == nil {
		t.Fatal("expected parse error for garbage entry")
	}
	trusted, err := NewTrustedProxies([]string{" 192.0.2.1 ", "", "2001:db8::/32"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:1000"
	r.Header.Set("X-Real-IP", "198.51.100.9")
	if ip := ClientIP(r, trusted); ip != "198.51.100.9" {
		t.Fatalf("bare IP entry not trusted: got %q", ip)
	}
}
