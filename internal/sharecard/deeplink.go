package sharecard

import (
	"net/url"

	"github.com/hitoshi/skygazer/internal/netutil"
)

// BuildDeepLink は指定日のAPODを開くディープリンクを構築する。
// baseURLはアプリの到達アドレス（scheme://host[:port]）。
// ホストがループバックの場合、このホストのLANアドレス（RFC 1918）に
// 置き換える。生成したQRコードを同一ネットワーク上のスマートフォンで
// 読み取れるようにするため。公開アドレスはそのまま使用する。
func BuildDeepLink(baseURL, date string) string {
	return RewriteLoopback(baseURL, netutil.LANAddr()) + "/?date=" + url.QueryEscape(date)
}

// RewriteLoopback はrawURLのホストがループバックの場合にlanAddrへ
// 置き換えたURLを返す。ポートは維持する。
// lanAddrが空、またはホストがループバックでない場合はrawURLをそのまま返す。
func RewriteLoopback(rawURL, lanAddr string) string {
	if lanAddr == "" {
		return rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if !netutil.IsLoopbackHost(parsed.Hostname()) {
		return rawURL
	}
	if port := parsed.Port(); port != "" {
		parsed.Host = lanAddr + ":" + port
	} else {
		parsed.Host = lanAddr
	}
	return parsed.String()
}
