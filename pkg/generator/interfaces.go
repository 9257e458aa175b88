package generator

import (
	"context"
	"time"

	"google.golang.org/genai"
)

// ContentGenerator はレスポンススキーマ付きの生成に使う RPC なのだ。
// *genai.Models がこのインターフェースを満たすのだ。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImageCacher は、参照画像のバイト列をキャッシュするためのインターフェースなのだ。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得するのだ。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存するのだ。
	Set(key string, value any, d time.Duration)
}

// HTTPClient は、URLから参照画像を取得するためのインターフェースなのだ。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Recorder は生成呼び出しの結果を計測するためのフックなのだ。
// kind は成功時に空文字になるのだ。
type Recorder interface {
	ObserveGeneration(operation string, kind FailureKind, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(string, FailureKind, time.Duration) {}
