package model

import "testing"

func TestBestImageURL(t *testing.T) {
	tests := []struct {
		name string
		apod Apod
		want string
	}{
		{
			name: "HD画像を最優先",
			apod: Apod{MediaType: "image", URL: "https://example.com/low.jpg", HDURL: "https://example.com/hd.jpg"},
			want: "https://example.com/hd.jpg",
		},
		{
			name: "HDがなければ通常画像",
			apod: Apod{MediaType: "image", URL: "https://example.com/low.jpg"},
			want: "https://example.com/low.jpg",
		},
		{
			name: "動画はサムネイルを使う",
			apod: Apod{MediaType: "video", URL: "https://youtube.com/watch?v=x", ThumbnailURL: "https://img.youtube.com/x.jpg"},
			want: "https://img.youtube.com/x.jpg",
		},
		{
			name: "動画でサムネイルなしは空文字",
			apod: Apod{MediaType: "video", URL: "https://youtube.com/watch?v=x"},
			want: "",
		},
		{
			name: "すべて空",
			apod: Apod{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.apod.BestImageURL(); got != tt.want {
				t.Errorf("BestImageURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAPODDate(t *testing.T) {
	got, err := ParseAPODDate("2024-06-15")
	if err != nil {
		t.Fatalf("ParseAPODDate() error = %v", err)
	}
	if got.Year() != 2024 || got.Month() != 6 || got.Day() != 15 {
		t.Errorf("ParseAPODDate() = %v, want 2024-06-15", got)
	}

	if _, err := ParseAPODDate("15/06/2024"); err == nil {
		t.Error("不正な形式でエラーが返らなかった")
	}
}
