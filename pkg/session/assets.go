package session

import (
	"context"

	"github.com/shouni/gemini-brand-kit/pkg/asset"
	"github.com/shouni/gemini-brand-kit/pkg/domain"
)

// GenerateMockup はモックアップを作って、種類ごとのキーに記録するのだ。
func (s *Session) GenerateMockup(ctx context.Context, mockupType domain.MockupType, personalization domain.Personalization) error {
	return runAsset(ctx, s, s.mockups, string(mockupType), func(ctx context.Context, f inflight) (string, error) {
		return s.gen.GenerateMockup(ctx, f.logo, mockupType, personalization)
	})
}

// GenerateVariation はロゴのバリエーションを作って、種類ごとのキーに記録するのだ。
func (s *Session) GenerateVariation(ctx context.Context, kind domain.VariationKind) error {
	return runAsset(ctx, s, s.variations, string(kind), func(ctx context.Context, f inflight) (string, error) {
		return s.gen.GenerateVariation(ctx, f.logo, kind)
	})
}

// GenerateSocialPost は SNS 投稿を作るのだ。画像とキャプションが両方揃ったときだけ記録されるのだ。
func (s *Session) GenerateSocialPost(ctx context.Context) error {
	return runAsset(ctx, s, s.socialPost, KeySocialPost, func(ctx context.Context, f inflight) (domain.SocialPost, error) {
		return s.gen.GenerateSocialPost(ctx, f.logo, f.brief.BrandName, f.brief.Vision)
	})
}

// GenerateGuidelines はブランドガイドラインを作るのだ。
func (s *Session) GenerateGuidelines(ctx context.Context) error {
	return runAsset(ctx, s, s.guidelines, KeyGuidelines, func(ctx context.Context, f inflight) (domain.Guidelines, error) {
		return s.gen.GenerateGuidelines(ctx, f.logo)
	})
}

// runAsset は作業中の画像から生成して、結果を tracker の key だけに書くのだ。
// 失敗しても他のキーや操作の状態は変わらないのだ。
func runAsset[T any](
	ctx context.Context,
	s *Session,
	tracker *asset.Tracker[T],
	key string,
	call func(ctx context.Context, f inflight) (T, error),
) error {
	f, err := begin(s, tracker, key, needsImage)
	if err != nil {
		return err
	}

	v, err := call(ctx, f)
	if err != nil {
		return fail(ctx, s, tracker, f, err)
	}
	return succeed(ctx, s, tracker, f, v, nil)
}
