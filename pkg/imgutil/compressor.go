package imgutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// DefaultReferenceQuality は参照画像を再エンコードする際の JPEG 品質です。
const DefaultReferenceQuality = 75

const mimeTypeJPEG = "image/jpeg"

// CompressToJPEG は PNG / GIF / JPEG の画像を指定品質の JPEG に変換します。
// 透過部分は白で塗りつぶされます。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flatten(src), &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return nil, fmt.Errorf("JPEGへのエンコードに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// ShrinkReference は参照画像を JPEG に再圧縮し、元より小さくなった場合のみ置き換えます。
// 戻り値の MIME タイプは実際に返すデータに対応します。
// 透過情報が失われるため、ロゴ本体（編集対象）には使用しないでください。
func ShrinkReference(data []byte, mimeType string, quality int) ([]byte, string) {
	compressed, err := CompressToJPEG(data, quality)
	if err != nil || len(compressed) >= len(data) {
		return data, mimeType
	}
	return compressed, mimeTypeJPEG
}

// flatten は白背景の上に src を合成します。JPEG は透過を持てないため。
func flatten(src image.Image) image.Image {
	if _, opaque := src.(*image.YCbCr); opaque {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, src, b.Min, draw.Over)
	return dst
}

func clampQuality(q int) int {
	switch {
	case q < 1:
		return DefaultReferenceQuality
	case q > 100:
		return 100
	default:
		return q
	}
}
