// Package sharecard は共有用のPNGカード画像を生成する。
// 固定サイズ（1200×630）のキャンバスに背景画像、テキスト帯、
// ディープリンクのQRコードを合成する。生成は入力からバイト列への
// 純関数であり、ディスクへの書き込みは行わない。
package sharecard

import (
	"bytes"
	"image"
	"log/slog"

	// 背景画像のデコード用フォーマット登録
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// カードの固定レイアウト。
const (
	// CardWidth はカードの幅（ピクセル）。
	CardWidth = 1200
	// CardHeight はカードの高さ（ピクセル）。
	CardHeight = 630

	bandHeight = 210 // 下部テキスト帯の高さ
	bandAlpha  = 0.6 // テキスト帯の不透明度
	margin     = 36  // 帯内の余白
	qrSize     = 160 // QRコードの一辺

	titlePointSize = 42
	datePointSize  = 26
	captionSize    = 22

	captionMaxLines   = 3
	captionLineHeight = 30
)

// フォールバック背景色（濃紺）。
var fallbackR, fallbackG, fallbackB = 10, 15, 26

// CardInput はカード生成の入力。
type CardInput struct {
	// Background は背景画像のバイト列。空またはデコード不能の場合は
	// 単色のフォールバックキャンバスを使用する。
	Background []byte
	Title      string
	Date       string
	// Caption は空の場合、行ごと省略される（空行は残さない）。
	Caption string
	// DeepLink はQRコードにエンコードするURL。
	DeepLink string
}

// Renderer はシェアカードを生成する。
// フォントフェイスは初期化時に1回だけ構築し、以後再利用する。
type Renderer struct {
	titleFace   font.Face
	dateFace    font.Face
	captionFace font.Face
	logger      *slog.Logger
}

// NewRenderer はRendererの新しいインスタンスを生成する。
// 埋め込みのGoフォント（Go Bold / Go Regular）を使用するため、
// 実行環境のシステムフォントには依存しない。
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		titleFace:   truetype.NewFace(bold, &truetype.Options{Size: titlePointSize}),
		dateFace:    truetype.NewFace(regular, &truetype.Options{Size: datePointSize}),
		captionFace: truetype.NewFace(regular, &truetype.Options{Size: captionSize}),
		logger:      logger,
	}, nil
}

// Render はカードを合成してPNGバイト列を返す。
// 背景のデコード失敗はエラーにせずフォールバックキャンバスで続行し、
// 常に1200×630のPNGを返す。
func (r *Renderer) Render(in CardInput) ([]byte, error) {
	dc := gg.NewContext(CardWidth, CardHeight)

	// 1. 背景: デコードできればアスペクト比維持の中央クロップで全面に敷く
	if bg := decodeBackground(in.Background); bg != nil {
		dc.DrawImage(coverResize(bg, CardWidth, CardHeight), 0, 0)
	} else {
		dc.SetRGB255(fallbackR, fallbackG, fallbackB)
		dc.Clear()
		if len(in.Background) > 0 {
			r.logger.Warn("background image decode failed, using fallback canvas",
				slog.Int("bytes", len(in.Background)),
			)
		}
	}

	// 2. テキスト帯: 背景の明度によらず文字が読めるよう半透明の黒帯を敷く
	bandTop := float64(CardHeight - bandHeight)
	dc.SetRGBA(0, 0, 0, bandAlpha)
	dc.DrawRectangle(0, bandTop, CardWidth, bandHeight)
	dc.Fill()

	// 3. テキスト: 帯の右側のQR領域を避けた幅に収める
	textWidth := float64(CardWidth - margin*2 - qrSize - margin)
	textX := float64(margin)

	dc.SetRGB255(255, 255, 255)
	dc.SetFontFace(r.titleFace)
	title := truncateToWidth(dc, in.Title, textWidth)
	dc.DrawString(title, textX, bandTop+58)

	dc.SetRGB255(200, 210, 230)
	dc.SetFontFace(r.dateFace)
	dc.DrawString(in.Date, textX, bandTop+98)

	if in.Caption != "" {
		dc.SetRGB255(230, 235, 245)
		dc.SetFontFace(r.captionFace)
		lines := wrapToLines(dc, in.Caption, textWidth, captionMaxLines)
		y := bandTop + 134
		for _, line := range lines {
			dc.DrawString(line, textX, y)
			y += captionLineHeight
		}
	}

	// 4. QRコード: 帯の右端に固定サイズで合成する
	// 生成失敗（コンテンツ過長など）の場合はQRなしのカードを返す
	if in.DeepLink != "" {
		if q, err := qrcode.New(in.DeepLink, qrcode.Medium); err == nil {
			dc.DrawImage(q.Image(qrSize), CardWidth-margin-qrSize, CardHeight-margin-qrSize)
		} else {
			r.logger.Warn("QR code generation failed",
				slog.String("error", err.Error()),
			)
		}
	}

	// 5. PNGエンコード
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeBackground は背景画像のバイト列をデコードする。失敗時はnilを返す。
func decodeBackground(data []byte) image.Image {
	if len(data) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return img
}

// coverResize はアスペクト比を維持したままキャンバス全面を覆うように
// 拡縮し、長辺方向の中央をクロップした画像を返す。
func coverResize(src image.Image, w, h int) image.Image {
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw == 0 || sh == 0 {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}

	// 覆うのに必要な倍率（大きい方）を採用し、はみ出す分を中央クロップ
	scaleX := float64(w) / float64(sw)
	scaleY := float64(h) / float64(sh)
	scale := scaleX
	if scaleY > scale {
		scale = scaleY
	}

	cropW := int(float64(w) / scale)
	cropH := int(float64(h) / scale)
	cropX := sb.Min.X + (sw-cropW)/2
	cropY := sb.Min.Y + (sh-cropH)/2
	cropRect := image.Rect(cropX, cropY, cropX+cropW, cropY+cropH)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, cropRect, draw.Over, nil)
	return dst
}

// truncateToWidth は文字列が指定幅を超える場合、末尾を省略記号に置き換える。
func truncateToWidth(dc *gg.Context, s string, maxWidth float64) string {
	if w, _ := dc.MeasureString(s); w <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return "…"
}

// wrapToLines は文字列を指定幅で折り返し、最大行数を超える分は
// 最終行を省略記号付きで切り詰める。
func wrapToLines(dc *gg.Context, s string, maxWidth float64, maxLines int) []string {
	lines := dc.WordWrap(s, maxWidth)
	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	lines[maxLines-1] = truncateToWidth(dc, lines[maxLines-1]+"…", maxWidth)
	return lines
}
