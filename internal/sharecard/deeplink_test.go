package sharecard

import "testing"

func TestRewriteLoopback(t *testing.T) {
	tests := []struct {
		name    string
		rawURL  string
		lanAddr string
		want    string
	}{
		{
			name:    "localhostはLANアドレスに置換（ポート維持）",
			rawURL:  "http://localhost:8080",
			lanAddr: "192.168.1.23",
			want:    "http://192.168.1.23:8080",
		},
		{
			name:    "127.0.0.1も置換",
			rawURL:  "http://127.0.0.1:8080",
			lanAddr: "10.0.0.5",
			want:    "http://10.0.0.5:8080",
		},
		{
			name:    "ポートなしのループバック",
			rawURL:  "http://localhost",
			lanAddr: "192.168.1.23",
			want:    "http://192.168.1.23",
		},
		{
			name:    "公開ホストはそのまま",
			rawURL:  "https://skygazer.example.com",
			lanAddr: "192.168.1.23",
			want:    "https://skygazer.example.com",
		},
		{
			name:    "LANアドレスが見つからない場合はそのまま",
			rawURL:  "http://localhost:8080",
			lanAddr: "",
			want:    "http://localhost:8080",
		},
		{
			name:    "プライベートアドレスのホストはループバックでないのでそのまま",
			rawURL:  "http://192.168.1.50:8080",
			lanAddr: "192.168.1.23",
			want:    "http://192.168.1.50:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewriteLoopback(tt.rawURL, tt.lanAddr)
			if got != tt.want {
				t.Errorf("RewriteLoopback(%q, %q) = %q, want %q", tt.rawURL, tt.lanAddr, got, tt.want)
			}
		})
	}
}

func TestBuildDeepLink_AppendsDateQuery(t *testing.T) {
	// 公開ホストはLANアドレス解決の影響を受けないため、決定的にテストできる
	got := BuildDeepLink("https://skygazer.example.com", "2024-06-01")
	want := "https://skygazer.example.com/?date=2024-06-01"
	if got != want {
		t.Errorf("BuildDeepLink() = %q, want %q", got, want)
	}
}
