package generator

import (
	"encoding/base64"

	"github.com/shouni/gemini-brand-kit/pkg/imgutil"
	"google.golang.org/genai"
)

// PartKind はリクエストパーツの種別なのだ。
type PartKind int

const (
	PartText PartKind = iota + 1
	PartImage
)

// RequestPart はマルチモーダルリクエストの 1 要素なのだ。
// 画像パーツの Data は常にデータURIのプレフィックスを除いた純粋な base64 ペイロードで、
// MimeType は必ず設定されているのだ。
type RequestPart struct {
	Kind     PartKind
	Data     string
	MimeType string
	Text     string
}

// TextPart はテキストパーツを生成するのだ。内容の切り詰めやエスケープは行わないのだ。
func TextPart(text string) RequestPart {
	return RequestPart{Kind: PartText, Text: text}
}

// NewImagePart はデータURI（またはカンマ区切りの base64 文字列）から画像パーツを生成するのだ。
// mimeType が空の場合はデータURIのヘッダ、それも無ければ画像バイト列から判定するのだ。
func NewImagePart(image, mimeType string) (RequestPart, error) {
	headerMime, payload, err := imgutil.SplitDataURI(image)
	if err != nil {
		return RequestPart{}, WrapFailure(FailureInvalidImageData, "invalid base64 image data provided", err)
	}

	if mimeType == "" {
		mimeType = headerMime
	}
	if mimeType == "" {
		data, err := decodeBase64(payload)
		if err != nil {
			return RequestPart{}, WrapFailure(FailureInvalidImageData, "invalid base64 image data provided", err)
		}
		detected, ok := imgutil.DetectMIMEType(data)
		if !ok {
			return RequestPart{}, NewFailure(FailureInvalidImageData, "could not determine image MIME type (detected "+detected+")")
		}
		mimeType = detected
	}

	return RequestPart{Kind: PartImage, Data: payload, MimeType: mimeType}, nil
}

// NewImagePartFromBytes は生のバイト列から画像パーツを生成するのだ。
func NewImagePartFromBytes(data []byte, mimeType string) RequestPart {
	return RequestPart{
		Kind:     PartImage,
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
}

// DataURI は画像パーツをデータURIとして再構築するのだ。
func (p RequestPart) DataURI() string {
	return imgutil.BuildDataURI(p.MimeType, p.Data)
}

// BuildCreateParts は新規作成用のパーツ列 [text, ...refs] を組み立てるのだ。
// 参照画像は渡された順序のまま並べるのだ。
func BuildCreateParts(prompt string, refs ...RequestPart) []RequestPart {
	parts := make([]RequestPart, 0, len(refs)+1)
	parts = append(parts, TextPart(prompt))
	return append(parts, refs...)
}

// BuildEditParts は編集用のパーツ列 [subject, instruction] を組み立てるのだ。
// 変換対象の画像は必ず指示テキストより前に置くのだ。
func BuildEditParts(subject RequestPart, instruction string) []RequestPart {
	return []RequestPart{subject, TextPart(instruction)}
}

// ToGenaiParts は RequestPart を SDK の genai.Part に変換するのだ。
func ToGenaiParts(parts []RequestPart) ([]*genai.Part, error) {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		switch p.Kind {
		case PartImage:
			data, err := decodeBase64(p.Data)
			if err != nil {
				return nil, WrapFailure(FailureInvalidImageData, "invalid base64 image data provided", err)
			}
			out = append(out, &genai.Part{InlineData: &genai.Blob{MIMEType: p.MimeType, Data: data}})
		case PartText:
			out = append(out, &genai.Part{Text: p.Text})
		default:
			return nil, NewFailure(FailureUnknown, "unsupported request part kind")
		}
	}
	return out, nil
}

func decodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	// パディングなしの入力も受け付ける
	if raw, rawErr := base64.RawStdEncoding.DecodeString(payload); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
