package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shouni/gemini-brand-kit/pkg/asset"
	"github.com/shouni/gemini-brand-kit/pkg/domain"
	"github.com/shouni/gemini-brand-kit/pkg/generator"
)

// Mode は作業モードなのだ。
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// OriginalInstruction は編集履歴の先頭エントリに付く指示文なのだ。
const OriginalInstruction = "Original"

// トップレベル操作ごとの失敗スコープ（Actions トラッカーのキー）なのだ。
const (
	ActionCreate   = "create"
	ActionEdit     = "edit"
	ActionBrandKit = "brand_kit"
	ActionName     = "name"
	ActionSlogans  = "slogans"
)

// 単一キーのトラッカーで使うキーなのだ。
const (
	KeySocialPost = "social_post"
	KeyGuidelines = "guidelines"
)

var (
	// ErrNoImage は作業中の画像が無い状態で画像を必要とする操作を呼んだことを示すのだ。
	ErrNoImage = errors.New("session: no working image")
	// ErrHistoryIndex は存在しない履歴位置への巻き戻しを示すのだ。
	ErrHistoryIndex = errors.New("session: history index out of range")
	// ErrDiscarded は呼び出し中にセッションがリセットされ、結果を反映しなかったことを示すのだ。
	ErrDiscarded = errors.New("session: result discarded after reset")
)

// Generator はセッションが利用する生成機能なのだ。*adapters.BrandAdapter がこれを満たすのだ。
type Generator interface {
	CreateLogo(ctx context.Context, brief domain.DesignBrief) (string, error)
	EditLogo(ctx context.Context, subject domain.ImageInput, instruction string) (string, error)
	ExtractBrandKit(ctx context.Context, logo domain.ImageInput) (domain.BrandKit, error)
	GenerateMockup(ctx context.Context, logo domain.ImageInput, mockupType domain.MockupType, personalization domain.Personalization) (string, error)
	GenerateVariation(ctx context.Context, logo domain.ImageInput, kind domain.VariationKind) (string, error)
	GenerateSocialPost(ctx context.Context, logo domain.ImageInput, brandName, vision string) (domain.SocialPost, error)
	GenerateGuidelines(ctx context.Context, logo domain.ImageInput) (domain.Guidelines, error)
	SuggestBrandName(ctx context.Context, industry, vision string) (string, error)
	SuggestBrandNameFromLogo(ctx context.Context, logo domain.ImageInput) (string, error)
	SuggestSlogans(ctx context.Context, brandName, industry, vision string) ([]string, error)
	SuggestSlogansFromLogo(ctx context.Context, logo domain.ImageInput, brandName string) ([]string, error)
}

// EditEntry は編集履歴の 1 件なのだ。
type EditEntry struct {
	Instruction string
	ResultImage string
}

// Session はブランド作成 1 件分の状態を保持するのだ。
// 画像を伴う生成は呼び出し元が goroutine で並行に実行でき、結果は各トラッカーに記録されるのだ。
type Session struct {
	id  string
	gen Generator

	mu       sync.Mutex
	epoch    uint64 // Reset のたびに進み、実行中の呼び出し結果を無効にする
	mode     Mode
	brief    domain.DesignBrief
	image    string
	history  []EditEntry
	brandKit *domain.BrandKit
	slogans  []string

	actions    *asset.Tracker[string]
	mockups    *asset.Tracker[string]
	variations *asset.Tracker[string]
	socialPost *asset.Tracker[domain.SocialPost]
	guidelines *asset.Tracker[domain.Guidelines]
}

// Option は Session の任意設定なのだ。
type Option func(*options)

type options struct {
	trackerOpts []asset.Option
}

// WithStaleFencing は同じキーの再生成中に古い結果が後から届いても反映しないようにするのだ。
func WithStaleFencing() Option {
	return func(o *options) { o.trackerOpts = append(o.trackerOpts, asset.WithStaleFencing()) }
}

// New は create モードの空のセッションを生成するのだ。
func New(gen Generator, opts ...Option) (*Session, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Session{
		id:         uuid.NewString(),
		gen:        gen,
		mode:       ModeCreate,
		actions:    asset.NewTracker[string](o.trackerOpts...),
		mockups:    asset.NewTracker[string](o.trackerOpts...),
		variations: asset.NewTracker[string](o.trackerOpts...),
		socialPost: asset.NewTracker[domain.SocialPost](o.trackerOpts...),
		guidelines: asset.NewTracker[domain.Guidelines](o.trackerOpts...),
	}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Actions() *asset.Tracker[string]                { return s.actions }
func (s *Session) Mockups() *asset.Tracker[string]                { return s.mockups }
func (s *Session) Variations() *asset.Tracker[string]             { return s.variations }
func (s *Session) SocialPost() *asset.Tracker[domain.SocialPost]  { return s.socialPost }
func (s *Session) Guidelines() *asset.Tracker[domain.Guidelines] { return s.guidelines }

// Mode は現在のモードを返すのだ。
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode はモードを切り替えるのだ。モードが変わる場合はすべての状態を破棄するのだ。
func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == s.mode {
		return
	}
	s.resetLocked()
	s.mode = mode
}

// Reset はモード以外のすべての状態を破棄するのだ。
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.epoch++
	s.brief = domain.DesignBrief{}
	s.image = ""
	s.history = nil
	s.brandKit = nil
	s.slogans = nil

	s.actions.Reset()
	s.mockups.Reset()
	s.variations.Reset()
	s.socialPost.Reset()
	s.guidelines.Reset()
}

// Brief は現在のデザイン依頼を返すのだ。
func (s *Session) Brief() domain.DesignBrief {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.brief
}

// SetBrief はデザイン依頼を置き換えるのだ。
func (s *Session) SetBrief(brief domain.DesignBrief) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brief = brief
}

// SelectSlogan は提案されたスローガンを依頼内容に採用するのだ。
func (s *Session) SelectSlogan(slogan string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brief.Slogan = slogan
}

// Image は作業中の画像（データURI）を返すのだ。
func (s *Session) Image() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image
}

// History は編集履歴のコピーを返すのだ。
func (s *Session) History() []EditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// BrandKit は抽出済みのブランドキットを返すのだ。
func (s *Session) BrandKit() (domain.BrandKit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.brandKit == nil {
		return domain.BrandKit{}, false
	}
	return *s.brandKit, true
}

// Slogans は直近に提案されたスローガン候補を返すのだ。
func (s *Session) Slogans() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.slogans)
}

// UploadLogo は既存のロゴを取り込み、edit モードで作業を開始するのだ。
func (s *Session) UploadLogo(dataURI string) error {
	if _, err := generator.NewImagePart(dataURI, ""); err != nil {
		return fmt.Errorf("failed to read the image file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.mode = ModeEdit
	s.setImageLocked(dataURI)
	return nil
}

// Revert は履歴の index 番目の画像に戻し、それより後の履歴を切り捨てるのだ。
func (s *Session) Revert(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.history) {
		return fmt.Errorf("%w: %d", ErrHistoryIndex, index)
	}
	s.history = slices.Clone(s.history[:index+1])
	s.image = s.history[index].ResultImage
	return nil
}

// setImageLocked は新しいロゴで履歴を始め直し、派生アセットのキーを idle で登録するのだ。
func (s *Session) setImageLocked(image string) {
	s.image = image
	s.history = []EditEntry{{Instruction: OriginalInstruction, ResultImage: image}}
	s.registerAssetsLocked()
}

func (s *Session) registerAssetsLocked() {
	for _, m := range domain.MockupTypes {
		s.mockups.Register(string(m))
	}
	for _, v := range domain.VariationKinds {
		s.variations.Register(string(v))
	}
	s.socialPost.Register(KeySocialPost)
	s.guidelines.Register(KeyGuidelines)
}

// inflight は 1 回の生成呼び出しが開始時に取り出した状態なのだ。
type inflight struct {
	epoch  uint64
	mode   Mode
	logo   domain.ImageInput
	brief  domain.DesignBrief
	ticket asset.Ticket
}

func needsImage(Mode) bool         { return true }
func needsImageInEdit(m Mode) bool { return m == ModeEdit }

// begin は作業状態の取り出しと key の loading 化を同じロックの中で行うのだ。
// requireImage が true を返すモードで画像が無ければ何も始めないのだ。
func begin[T any](s *Session, tracker *asset.Tracker[T], key string, requireImage func(Mode) bool) (inflight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requireImage != nil && requireImage(s.mode) && s.image == "" {
		return inflight{}, ErrNoImage
	}
	return inflight{
		epoch:  s.epoch,
		mode:   s.mode,
		logo:   domain.ImageInput{Data: s.image},
		brief:  s.brief,
		ticket: tracker.Begin(key),
	}, nil
}

// succeed は開始時からリセットされていなければ fn を適用し、tracker を success にするのだ。
// リセット後に届いた結果は ErrDiscarded になり、どこにも反映されないのだ。
func succeed[T any](ctx context.Context, s *Session, tracker *asset.Tracker[T], f inflight, value T, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != f.epoch {
		logSettle(ctx, f.ticket.Key, ErrDiscarded)
		return ErrDiscarded
	}
	if fn != nil {
		fn()
	}
	logSettle(ctx, f.ticket.Key, tracker.Succeed(f.ticket, value))
	return nil
}

// fail は開始時からリセットされていなければ tracker を error にするのだ。
// 呼び出し元には常に callErr をそのまま返すのだ。
func fail[T any](ctx context.Context, s *Session, tracker *asset.Tracker[T], f inflight, callErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != f.epoch {
		logSettle(ctx, f.ticket.Key, ErrDiscarded)
		return callErr
	}
	logSettle(ctx, f.ticket.Key, tracker.Fail(f.ticket, callErr.Error()))
	return callErr
}

func logSettle(ctx context.Context, key string, err error) {
	if err != nil {
		slog.DebugContext(ctx, "結果をトラッカーに反映しなかったのだ", "key", key, "reason", err)
	}
}
