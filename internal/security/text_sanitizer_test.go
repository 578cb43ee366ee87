package security

import (
	"strings"
	"testing"
)

// TestSanitize_PlainText はプレーンテキストがそのまま通過することを検証する。
func TestSanitize_PlainText(t *testing.T) {
	sanitizer := NewTextSanitizer()

	input := "これはプレーンテキストです。HTMLタグを含みません。"
	got := sanitizer.Sanitize(input)
	if got != input {
		t.Errorf("Sanitize(%q) = %q, expected unchanged", input, got)
	}
}

// TestSanitize_StripsAllTags はすべてのHTMLタグが除去されることを検証する。
func TestSanitize_StripsAllTags(t *testing.T) {
	sanitizer := NewTextSanitizer()

	tests := []struct {
		name       string
		input      string
		want       string
		wantAbsent []string
	}{
		{
			name:       "pタグ除去",
			input:      "<p>銀河の解説</p>",
			want:       "銀河の解説",
			wantAbsent: []string{"<p>", "</p>"},
		},
		{
			name:       "scriptタグと中身の除去",
			input:      `解説<script>alert('xss')</script>続き`,
			wantAbsent: []string{"<script", "alert"},
		},
		{
			name:       "aタグ除去（テキストは残る）",
			input:      `詳細は<a href="https://example.com">こちら</a>`,
			wantAbsent: []string{"<a", "href"},
		},
		{
			name:       "imgタグ除去",
			input:      `<img src="https://example.com/x.png" alt="x">星雲`,
			wantAbsent: []string{"<img", "src"},
		},
		{
			name:       "イベント属性除去",
			input:      `<span onclick="steal()">NGC 6543</span>`,
			wantAbsent: []string{"onclick", "steal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if tt.want != "" && got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("Sanitize(%q) = %q, should NOT contain %q", tt.input, got, absent)
				}
			}
		})
	}
}

// TestSanitize_UnescapesEntities はタグ除去後のエンティティがアンエスケープされることを検証する。
// 解説文はプレーンテキストとしてJSONで返すため、&amp;のような実体参照を残さない。
func TestSanitize_UnescapesEntities(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.Sanitize("Messier 81 &amp; Messier 82")
	want := "Messier 81 & Messier 82"
	if got != want {
		t.Errorf("Sanitize() = %q, want %q", got, want)
	}
}

// TestSanitize_TrimsWhitespace は前後の空白が除去されることを検証する。
func TestSanitize_TrimsWhitespace(t *testing.T) {
	sanitizer := NewTextSanitizer()

	got := sanitizer.Sanitize("  星雲の写真  ")
	if got != "星雲の写真" {
		t.Errorf("Sanitize() = %q, want %q", got, "星雲の写真")
	}
}

// TestSanitize_EmptyInput は空文字列の入力を安全に処理できることを検証する。
func TestSanitize_EmptyInput(t *testing.T) {
	sanitizer := NewTextSanitizer()

	if got := sanitizer.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, expected empty string", got)
	}
}

// TestSanitize_Idempotent は同一入力に対して常に同一出力（冪等性）を検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewTextSanitizer()

	input := `<p>カッシーニ探査機が撮影した<strong>土星の環</strong></p>`

	result1 := sanitizer.Sanitize(input)
	result2 := sanitizer.Sanitize(input)
	result3 := sanitizer.Sanitize(result1) // 二重サニタイズ

	if result1 != result2 {
		t.Errorf("冪等性違反: 1回目=%q, 2回目=%q", result1, result2)
	}
	if result1 != result3 {
		t.Errorf("二重サニタイズで結果が変わった: 1回目=%q, 二重=%q", result1, result3)
	}
}

// TestTextSanitizerInterface はTextSanitizerServiceインターフェースの適合を検証する。
func TestTextSanitizerInterface(t *testing.T) {
	var _ TextSanitizerService = NewTextSanitizer()
}
