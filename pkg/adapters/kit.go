package adapters

import (
	"context"
	"fmt"

	"github.com/shouni/gemini-brand-kit/pkg/domain"
	"github.com/shouni/gemini-brand-kit/pkg/generator"
	"github.com/shouni/gemini-brand-kit/pkg/prompts"
)

const (
	memberColors     = "colors"
	memberTypography = "typography"
	memberImage      = "image"
	memberCaption    = "caption"
)

// ExtractBrandKit はロゴからカラーパレットとタイポグラフィを並行に抽出するのだ。
// どちらか一方でも失敗した場合は結果を返さないのだ。
func (a *BrandAdapter) ExtractBrandKit(ctx context.Context, logo domain.ImageInput) (domain.BrandKit, error) {
	colorParts, err := a.subjectParts(ctx, logo, prompts.BrandColors, prompts.TemplateData{})
	if err != nil {
		return domain.BrandKit{}, err
	}
	typographyParts, err := a.subjectParts(ctx, logo, prompts.BrandTypography, prompts.TemplateData{})
	if err != nil {
		return domain.BrandKit{}, err
	}

	res, err := generator.Join(ctx,
		generator.Call{Name: memberColors, Do: func(ctx context.Context) (any, error) {
			var out struct {
				Colors []domain.Color `json:"colors"`
			}
			if err := a.core.GenerateJSON(ctx, OpBrandColors, colorParts, colorsSchema, &out); err != nil {
				return nil, err
			}
			return out.Colors, nil
		}},
		generator.Call{Name: memberTypography, Do: func(ctx context.Context) (any, error) {
			var out domain.Typography
			if err := a.core.GenerateJSON(ctx, OpBrandTypography, typographyParts, typographySchema, &out); err != nil {
				return nil, err
			}
			return out, nil
		}},
	)
	if err != nil {
		return domain.BrandKit{}, fmt.Errorf("ブランドキットの抽出に失敗しました: %w", err)
	}

	colors, err := generator.Value[[]domain.Color](res, memberColors)
	if err != nil {
		return domain.BrandKit{}, err
	}
	typography, err := generator.Value[domain.Typography](res, memberTypography)
	if err != nil {
		return domain.BrandKit{}, err
	}
	return domain.BrandKit{Colors: colors, Typography: typography}, nil
}

// GenerateSocialPost は SNS 投稿用の画像とキャプションを並行に生成するのだ。
// 画像だけ、キャプションだけが返ることはないのだ。
func (a *BrandAdapter) GenerateSocialPost(ctx context.Context, logo domain.ImageInput, brandName, vision string) (domain.SocialPost, error) {
	data := prompts.TemplateData{BrandName: brandName, Vision: vision}

	imageParts, err := a.subjectParts(ctx, logo, prompts.SocialImage, data)
	if err != nil {
		return domain.SocialPost{}, err
	}
	captionParts, err := a.subjectParts(ctx, logo, prompts.SocialCaption, data)
	if err != nil {
		return domain.SocialPost{}, err
	}

	res, err := generator.Join(ctx,
		generator.Call{Name: memberImage, Do: func(ctx context.Context) (any, error) {
			return a.core.GenerateImage(ctx, OpSocialImage, imageParts)
		}},
		generator.Call{Name: memberCaption, Do: func(ctx context.Context) (any, error) {
			var out struct {
				Caption string `json:"caption"`
			}
			if err := a.core.GenerateJSON(ctx, OpSocialCaption, captionParts, captionSchema, &out); err != nil {
				return nil, err
			}
			return out.Caption, nil
		}},
	)
	if err != nil {
		return domain.SocialPost{}, fmt.Errorf("SNS投稿の生成に失敗しました: %w", err)
	}

	image, err := generator.Value[string](res, memberImage)
	if err != nil {
		return domain.SocialPost{}, err
	}
	caption, err := generator.Value[string](res, memberCaption)
	if err != nil {
		return domain.SocialPost{}, err
	}
	return domain.SocialPost{ImageURL: image, Caption: caption}, nil
}

// GenerateGuidelines はロゴからブランドガイドラインを生成するのだ。
func (a *BrandAdapter) GenerateGuidelines(ctx context.Context, logo domain.ImageInput) (domain.Guidelines, error) {
	parts, err := a.subjectParts(ctx, logo, prompts.Guidelines, prompts.TemplateData{})
	if err != nil {
		return domain.Guidelines{}, err
	}

	var out domain.Guidelines
	if err := a.core.GenerateJSON(ctx, OpGuidelines, parts, guidelinesSchema, &out); err != nil {
		return domain.Guidelines{}, fmt.Errorf("ブランドガイドラインの生成に失敗しました: %w", err)
	}
	return out, nil
}
