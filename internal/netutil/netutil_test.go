package netutil

import (
	"net/http/httptest"
	"testing"
)

func TestHostWithoutPort(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ポートあり", "192.168.1.10:54321", "192.168.1.10"},
		{"ポートなし", "192.168.1.10", "192.168.1.10"},
		{"IPv6ポートあり", "[::1]:8080", "::1"},
		{"ホスト名", "example.com:443", "example.com"},
		{"空文字", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HostWithoutPort(tt.in); got != tt.want {
				t.Errorf("HostWithoutPort(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClientIP_PrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	req.Header.Set("X-Real-IP", "198.51.100.1")

	if got := ClientIP(req); got != "203.0.113.7" {
		t.Errorf("ClientIP() = %q, want 203.0.113.7（XFFの先頭）", got)
	}
}

func TestClientIP_FallsBackToRealIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Real-IP", "198.51.100.1")

	if got := ClientIP(req); got != "198.51.100.1" {
		t.Errorf("ClientIP() = %q, want 198.51.100.1", got)
	}
}

func TestClientIP_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	if got := ClientIP(req); got != "10.0.0.1" {
		t.Errorf("ClientIP() = %q, want 10.0.0.1", got)
	}
}

func TestIsLoopbackHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"LOCALHOST", true},
		{"127.0.0.1", true},
		{"127.1.2.3", true},
		{"::1", true},
		{"192.168.1.10", false},
		{"example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := IsLoopbackHost(tt.host); got != tt.want {
				t.Errorf("IsLoopbackHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}
