package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shouni/gemini-brand-kit/pkg/adapters"
	"github.com/shouni/gemini-brand-kit/pkg/config"
	"github.com/shouni/gemini-brand-kit/pkg/generator"
	"github.com/shouni/gemini-brand-kit/pkg/imgutil"
	"github.com/shouni/gemini-brand-kit/pkg/metrics"
	"github.com/shouni/gemini-brand-kit/pkg/prompts"
	"github.com/shouni/gemini-brand-kit/pkg/session"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// App はセッションの生成に必要な共有コンポーネントを保持します。
// 生成アダプターと計測は全セッションで共有されます。
type App struct {
	Config  *config.Config
	Adapter *adapters.BrandAdapter
	Metrics *metrics.GenerationMetrics
}

// InitializeAIClient は画像とテキストの生成に使う gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	aiClient, err := gemini.NewClient(ctx, gemini.Config{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// InitializeStructuredClient はレスポンススキーマ付きの生成に使う genai の RPC を返します。
func InitializeStructuredClient(ctx context.Context, apiKey string) (generator.ContentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("構造化出力クライアントの初期化に失敗しました: %w", err)
	}
	return client.Models, nil
}

// InitializeRemoteReader は gs:// の参照画像を読むためのリーダーを生成します。
func InitializeRemoteReader(ctx context.Context) (remoteio.InputReader, error) {
	factory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	reader, err := factory.NewInputReader()
	if err != nil {
		return nil, fmt.Errorf("failed to create input reader: %w", err)
	}
	return reader, nil
}

// InitializeCore は設定に従って GeminiBrandCore を組み立てます。
// reader と recorder は nil でも構いません。
func InitializeCore(cfg *config.Config, aiClient gemini.GenerativeModel, structured generator.ContentGenerator, reader remoteio.InputReader, recorder generator.Recorder) (*generator.GeminiBrandCore, error) {
	// 参照画像のダウンロード結果を保持するキャッシュ
	imgCache := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)

	opts := []generator.Option{
		generator.WithHTTPClient(httpkit.New(cfg.HTTPTimeout)),
		generator.WithCache(imgCache, cfg.CacheTTL),
		generator.WithRetry(cfg.MaxRetries, cfg.RetryInterval),
	}
	if reader != nil {
		opts = append(opts, generator.WithRemoteReader(reader))
	}
	if recorder != nil {
		opts = append(opts, generator.WithRecorder(recorder))
	}
	if cfg.RateInterval > 0 {
		opts = append(opts, generator.WithRateLimiter(rate.NewLimiter(rate.Every(cfg.RateInterval), cfg.RateBurst)))
	}
	if cfg.CompressReferences {
		opts = append(opts, generator.WithReferenceCompression(imgutil.DefaultReferenceQuality))
	}

	core, err := generator.NewGeminiBrandCore(aiClient, structured, cfg.GeminiImageModel, cfg.GeminiModel, opts...)
	if err != nil {
		return nil, fmt.Errorf("生成コアの初期化に失敗しました: %w", err)
	}
	return core, nil
}

// InitializeAdapter は組み込みテンプレートでブランドアダプターを生成します。
func InitializeAdapter(core adapters.BrandCore) (*adapters.BrandAdapter, error) {
	builder, err := prompts.NewBrandPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("プロンプトビルダーの初期化に失敗しました: %w", err)
	}
	adapter, err := adapters.NewBrandAdapter(core, builder)
	if err != nil {
		return nil, fmt.Errorf("ブランドアダプターの初期化に失敗しました: %w", err)
	}
	return adapter, nil
}

// NewApp は与えられたクライアントから App を組み立てます。
// reg が nil の場合、計測は行いません。
func NewApp(cfg *config.Config, aiClient gemini.GenerativeModel, structured generator.ContentGenerator, reader remoteio.InputReader, reg prometheus.Registerer) (*App, error) {
	app := &App{Config: cfg}

	var recorder generator.Recorder
	if reg != nil {
		app.Metrics = metrics.NewGenerationMetrics(reg)
		recorder = app.Metrics
	}

	core, err := InitializeCore(cfg, aiClient, structured, reader, recorder)
	if err != nil {
		return nil, err
	}
	if app.Adapter, err = InitializeAdapter(core); err != nil {
		return nil, err
	}
	return app, nil
}

// BuildApp は設定を検証し、Gemini API クライアントを使って App を組み立てます。
// GCS のリーダーが用意できない環境では gs:// 参照を無効にして続行します。
func BuildApp(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	aiClient, err := InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	structured, err := InitializeStructuredClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	reader, err := InitializeRemoteReader(ctx)
	if err != nil {
		slog.WarnContext(ctx, "GCSリーダーを初期化できませんでした。gs:// の参照画像は使用できません", "error", err)
		reader = nil
	}

	return NewApp(cfg, aiClient, structured, reader, reg)
}

// NewSession は共有アダプターを使う新しい編集セッションを開始します。
func (a *App) NewSession() (*session.Session, error) {
	var opts []session.Option
	if a.Config.FenceStaleResults {
		opts = append(opts, session.WithStaleFencing())
	}
	return session.New(a.Adapter, opts...)
}
