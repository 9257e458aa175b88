package imgutil

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// ErrNoPayload はデータURIにカンマ区切りの base64 ペイロードが含まれていないことを示します。
var ErrNoPayload = errors.New("data URI has no base64 payload")

// EncodeDataURI はバイト列を data:<mime>;base64,<data> 形式に変換します。
func EncodeDataURI(mimeType string, data []byte) string {
	return BuildDataURI(mimeType, base64.StdEncoding.EncodeToString(data))
}

// BuildDataURI は base64 エンコード済みのペイロードからデータURIを組み立てます。
func BuildDataURI(mimeType, payload string) string {
	return "data:" + mimeType + ";base64," + payload
}

// SplitDataURI はデータURIをヘッダ部の MIME タイプと base64 ペイロードに分割します。
// ヘッダに MIME タイプが無い場合、mimeType は空文字になります。
func SplitDataURI(s string) (mimeType, payload string, err error) {
	header, payload, found := strings.Cut(s, ",")
	if !found || payload == "" {
		return "", "", ErrNoPayload
	}

	if rest, ok := strings.CutPrefix(header, "data:"); ok {
		mimeType, _, _ = strings.Cut(rest, ";")
	}
	return mimeType, payload, nil
}

// DetectMIMEType はバイト列から画像の MIME タイプを判定します。
// 画像として判定できない場合は false を返します。
func DetectMIMEType(data []byte) (string, bool) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return mimeType, false
	}
	return mimeType, true
}
