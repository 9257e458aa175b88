package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GeminiBrandCore は生成リクエストの実行と参照画像の解決を担う基盤クラスなのだ。
// すべての外部呼び出しはこの型を経由し、失敗は必ず *Failure に分類されるのだ。
type GeminiBrandCore struct {
	aiClient   gemini.GenerativeModel
	structured ContentGenerator
	imageModel string
	textModel  string

	reader     remoteio.InputReader
	httpClient HTTPClient
	cache      ImageCacher
	expiration time.Duration

	limiter       *rate.Limiter
	maxRetries    uint64
	retryInterval time.Duration

	compress bool
	quality  int

	recorder Recorder
}

// Option は GeminiBrandCore の任意設定なのだ。
type Option func(*GeminiBrandCore)

// WithRemoteReader は gs:// の参照画像を読み込むリーダーを設定するのだ。
func WithRemoteReader(reader remoteio.InputReader) Option {
	return func(c *GeminiBrandCore) { c.reader = reader }
}

// WithHTTPClient は http(s) の参照画像を取得するクライアントを設定するのだ。
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *GeminiBrandCore) { c.httpClient = httpClient }
}

// WithCache は参照画像のキャッシュを設定するのだ。ttl が 0 以下の場合は DefaultCacheTTL を使うのだ。
func WithCache(cache ImageCacher, ttl time.Duration) Option {
	return func(c *GeminiBrandCore) {
		c.cache = cache
		if ttl <= 0 {
			ttl = DefaultCacheTTL
		}
		c.expiration = ttl
	}
}

// WithRateLimiter はすべての生成呼び出しの前に待機するリミッターを設定するのだ。
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *GeminiBrandCore) { c.limiter = limiter }
}

// WithRetry は再試行可能な失敗を指数バックオフで最大 maxRetries 回まで再試行するのだ。
func WithRetry(maxRetries uint64, interval time.Duration) Option {
	return func(c *GeminiBrandCore) {
		c.maxRetries = maxRetries
		if interval <= 0 {
			interval = DefaultRetryInterval
		}
		c.retryInterval = interval
	}
}

// WithReferenceCompression は URL 参照画像を JPEG に圧縮してから送信するのだ。
func WithReferenceCompression(quality int) Option {
	return func(c *GeminiBrandCore) {
		c.compress = true
		c.quality = quality
	}
}

// WithRecorder は生成呼び出しの計測フックを設定するのだ。
func WithRecorder(recorder Recorder) Option {
	return func(c *GeminiBrandCore) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

// NewGeminiBrandCore は依存関係を注入して GeminiBrandCore を初期化するのだ。
// 画像とテキストは aiClient、スキーマ付きの構造化出力は structured を通るのだ。
func NewGeminiBrandCore(aiClient gemini.GenerativeModel, structured ContentGenerator, imageModel, textModel string, opts ...Option) (*GeminiBrandCore, error) {
	if aiClient == nil {
		return nil, fmt.Errorf("aiClient is required")
	}
	if structured == nil {
		return nil, fmt.Errorf("structured client is required")
	}
	if imageModel == "" {
		return nil, fmt.Errorf("imageModel is required")
	}
	if textModel == "" {
		return nil, fmt.Errorf("textModel is required")
	}

	c := &GeminiBrandCore{
		aiClient:      aiClient,
		structured:    structured,
		imageModel:    imageModel,
		textModel:     textModel,
		expiration:    DefaultCacheTTL,
		retryInterval: DefaultRetryInterval,
		recorder:      nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateImage は画像生成モデルを呼び出し、最初の画像をデータURIで返すのだ。
func (c *GeminiBrandCore) GenerateImage(ctx context.Context, operation string, parts []RequestPart) (string, error) {
	var dataURI string
	err := c.execute(ctx, operation, c.imageModel, parts, c.withParts(c.imageModel), func(resp *genai.GenerateContentResponse) error {
		out := NormalizeImage(resp)
		if err := out.Err(); err != nil {
			return err
		}
		dataURI = out.DataURI()
		return nil
	})
	if err != nil {
		return "", err
	}
	return dataURI, nil
}

// GenerateText はテキストモデルを呼び出し、本文を返すのだ。
func (c *GeminiBrandCore) GenerateText(ctx context.Context, operation string, parts []RequestPart) (string, error) {
	var text string
	err := c.execute(ctx, operation, c.textModel, parts, c.withParts(c.textModel), func(resp *genai.GenerateContentResponse) error {
		out := NormalizeText(resp)
		if err := out.Err(); err != nil {
			return err
		}
		text = out.Text()
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// GenerateJSON は構造化出力を要求し、スキーマ検証済みの結果を v にデコードするのだ。
// デコードや検証に失敗した応答は MalformedResponse として扱われ、再試行の対象になるのだ。
func (c *GeminiBrandCore) GenerateJSON(ctx context.Context, operation string, parts []RequestPart, schema *genai.Schema, v any) error {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: mimeTypeJSON,
		ResponseSchema:   schema,
	}

	return c.execute(ctx, operation, c.textModel, parts, c.withSchema(c.textModel, cfg), func(resp *genai.GenerateContentResponse) error {
		out := NormalizeText(resp)
		if err := out.Err(); err != nil {
			return err
		}
		return DecodeJSON(out.Text(), schema, v)
	})
}

// execute はリミッター待機、呼び出し、分類、再試行、計測を一括で行うのだ。
// 戻り値のエラーは常に *Failure なのだ。
func (c *GeminiBrandCore) execute(
	ctx context.Context,
	operation, model string,
	parts []RequestPart,
	send sender,
	consume func(*genai.GenerateContentResponse) error,
) error {
	start := time.Now()

	gParts, err := ToGenaiParts(parts)
	if err != nil {
		f := ClassifyError(err)
		c.recorder.ObserveGeneration(operation, f.Kind, time.Since(start))
		return f
	}

	slog.DebugContext(ctx, "生成リクエストを送信します",
		"operation", operation,
		"model", model,
		"parts", len(parts),
	)

	attempt := func() error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(WrapFailure(FailureUnknown, err.Error(), err))
			}
		}

		resp, err := send(ctx, gParts)
		if err == nil {
			err = consume(resp)
		}
		if err == nil {
			return nil
		}

		f := ClassifyError(err)
		if !f.Retryable() {
			return backoff.Permanent(f)
		}
		return f
	}

	notify := func(err error, wait time.Duration) {
		slog.WarnContext(ctx, "生成に失敗したため再試行します",
			"operation", operation,
			"kind", KindOf(err),
			"error", err,
			"wait", wait,
		)
	}

	err = backoff.RetryNotify(attempt, c.newBackOff(ctx), notify)

	var f *Failure
	if err != nil {
		f = ClassifyError(err)
		slog.WarnContext(ctx, "生成に失敗しました",
			"operation", operation,
			"kind", f.Kind,
			"error", f.Message,
		)
	}

	var kind FailureKind
	if f != nil {
		kind = f.Kind
	}
	c.recorder.ObserveGeneration(operation, kind, time.Since(start))

	if f != nil {
		return f
	}
	return nil
}

// sender は組み立て済みのパーツを 1 回だけ送信するのだ。
type sender func(ctx context.Context, parts []*genai.Part) (*genai.GenerateContentResponse, error)

// withParts は go-gemini-client の GenerateWithParts で送るのだ。
func (c *GeminiBrandCore) withParts(model string) sender {
	return func(ctx context.Context, parts []*genai.Part) (*genai.GenerateContentResponse, error) {
		resp, err := c.aiClient.GenerateWithParts(ctx, model, parts, gemini.GenerateOptions{})
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, nil
		}
		return resp.RawResponse, nil
	}
}

// withSchema はレスポンススキーマを指定できる genai の GenerateContent で送るのだ。
func (c *GeminiBrandCore) withSchema(model string, cfg *genai.GenerateContentConfig) sender {
	return func(ctx context.Context, parts []*genai.Part) (*genai.GenerateContentResponse, error) {
		contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
		return c.structured.GenerateContent(ctx, model, contents, cfg)
	}
}

func (c *GeminiBrandCore) newBackOff(ctx context.Context) backoff.BackOff {
	if c.maxRetries == 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retryInterval
	return backoff.WithContext(backoff.WithMaxRetries(eb, c.maxRetries), ctx)
}
