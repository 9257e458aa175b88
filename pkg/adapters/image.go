package adapters

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-brand-kit/pkg/domain"
	"github.com/shouni/gemini-brand-kit/pkg/generator"
	"github.com/shouni/gemini-brand-kit/pkg/prompts"
)

// CreateLogo はデザイン依頼からロゴを新規作成し、データURIで返すのだ。
func (a *BrandAdapter) CreateLogo(ctx context.Context, brief domain.DesignBrief) (string, error) {
	if err := brief.Validate(); err != nil {
		return "", invalidRequest("%v", err)
	}

	refs := a.core.ResolveReferences(ctx, brief.References())

	data := prompts.BriefData(brief)
	// 解決できた参照画像が無い場合はインスピレーションの指示を含めない
	data.HasInspirations = len(refs) > 0

	prompt, err := a.prompts.Build(prompts.CreateLogo, data)
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "ロゴ作成リクエストを準備しました", "brand", data.BrandName, "references", len(refs))

	url, err := a.core.GenerateImage(ctx, OpCreateLogo, generator.BuildCreateParts(prompt, refs...))
	if err != nil {
		return "", fmt.Errorf("ロゴの作成に失敗しました: %w", err)
	}
	return url, nil
}

// CreateImage は任意のプロンプトと参照画像から画像を生成するのだ。
func (a *BrandAdapter) CreateImage(ctx context.Context, prompt string, refs []domain.ImageInput) (string, error) {
	parts := generator.BuildCreateParts(prompt, a.core.ResolveReferences(ctx, refs)...)

	url, err := a.core.GenerateImage(ctx, OpCreateImage, parts)
	if err != nil {
		return "", fmt.Errorf("画像の生成に失敗しました: %w", err)
	}
	return url, nil
}

// EditLogo は編集指示をロゴデザイナー向けの指示文で包んでから編集するのだ。
func (a *BrandAdapter) EditLogo(ctx context.Context, subject domain.ImageInput, instruction string) (string, error) {
	if instruction == "" {
		return "", invalidRequest("edit instruction is required")
	}

	parts, err := a.subjectParts(ctx, subject, prompts.EditLogo, prompts.TemplateData{Instruction: instruction})
	if err != nil {
		return "", err
	}

	url, err := a.core.GenerateImage(ctx, OpEditLogo, parts)
	if err != nil {
		return "", fmt.Errorf("ロゴの編集に失敗しました: %w", err)
	}
	return url, nil
}

// EditImage は指示文をそのまま使って画像を編集するのだ。
func (a *BrandAdapter) EditImage(ctx context.Context, subject domain.ImageInput, prompt string) (string, error) {
	part, err := a.core.ResolveImage(ctx, subject)
	if err != nil {
		return "", err
	}

	url, err := a.core.GenerateImage(ctx, OpEditImage, generator.BuildEditParts(part, prompt))
	if err != nil {
		return "", fmt.Errorf("画像の編集に失敗しました: %w", err)
	}
	return url, nil
}

// GenerateMockup はロゴを配置した製品モックアップを生成するのだ。
func (a *BrandAdapter) GenerateMockup(ctx context.Context, logo domain.ImageInput, mockupType domain.MockupType, personalization domain.Personalization) (string, error) {
	if !mockupType.Valid() {
		return "", invalidRequest("unknown mockup type %q", mockupType)
	}

	data := prompts.TemplateData{
		MockupType:      string(mockupType),
		Personalization: prompts.PersonalizationFields(personalization),
	}
	parts, err := a.subjectParts(ctx, logo, prompts.Mockup, data)
	if err != nil {
		return "", err
	}

	url, err := a.core.GenerateImage(ctx, OpMockup, parts)
	if err != nil {
		return "", fmt.Errorf("モックアップ '%s' の生成に失敗しました: %w", mockupType, err)
	}
	return url, nil
}

// GenerateVariation はロゴのバリエーション（白抜き、プロフィール画像、透過背景）を生成するのだ。
func (a *BrandAdapter) GenerateVariation(ctx context.Context, logo domain.ImageInput, kind domain.VariationKind) (string, error) {
	if !kind.Valid() {
		return "", invalidRequest("unknown variation %q", kind)
	}

	parts, err := a.subjectParts(ctx, logo, prompts.Variation, prompts.TemplateData{Variation: string(kind)})
	if err != nil {
		return "", err
	}

	url, err := a.core.GenerateImage(ctx, OpVariation, parts)
	if err != nil {
		return "", fmt.Errorf("バリエーション '%s' の生成に失敗しました: %w", kind, err)
	}
	return url, nil
}
