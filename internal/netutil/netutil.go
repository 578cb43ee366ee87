// Package netutil はアドレス解決まわりの小さなヘルパーを提供する。
package netutil

import (
	"net"
	"net/http"
	"strings"
)

// HostWithoutPort は"ip:port"、"[v6]:port"、"ip"のような文字列からホスト部を返す。
func HostWithoutPort(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// ClientIP はクライアントのIPアドレスを解決する。
// X-Forwarded-For（先頭）、X-Real-IPの順で参照し、なければRemoteAddrを使う。
func ClientIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		if ip := HostWithoutPort(strings.TrimSpace(xff)); ip != "" {
			return ip
		}
	}
	if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
		if ip := HostWithoutPort(v); ip != "" {
			return ip
		}
	}
	return HostWithoutPort(r.RemoteAddr)
}

// IsLoopbackHost はホスト名またはIPがループバックを指すかを返す。
func IsLoopbackHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// LANAddr はこのホストのプライベート（RFC 1918）IPv4アドレスを返す。
// 複数のインターフェースがある場合は最初に見つかったものを返す。
// 見つからない場合は空文字を返す。
func LANAddr() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipnet.IP.To4()
		if ip == nil || ip.IsLoopback() {
			continue
		}
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	return ""
}
