package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/gemini-brand-kit/pkg/domain"
	"github.com/shouni/gemini-brand-kit/pkg/generator"
	"github.com/shouni/gemini-brand-kit/pkg/prompts"
)

// SuggestBrandName は業種とビジョンからブランド名を 1 つ提案するのだ。
func (a *BrandAdapter) SuggestBrandName(ctx context.Context, industry, vision string) (string, error) {
	if strings.TrimSpace(industry) == "" {
		return "", invalidRequest("industry is required to suggest a name")
	}

	prompt, err := a.prompts.Build(prompts.BrandName, prompts.TemplateData{Industry: industry, Vision: vision})
	if err != nil {
		return "", err
	}

	name, err := a.core.GenerateText(ctx, OpBrandName, []generator.RequestPart{generator.TextPart(prompt)})
	if err != nil {
		return "", fmt.Errorf("ブランド名の提案に失敗しました: %w", err)
	}
	return cleanName(name), nil
}

// SuggestBrandNameFromLogo はロゴ画像からブランド名を 1 つ提案するのだ。
func (a *BrandAdapter) SuggestBrandNameFromLogo(ctx context.Context, logo domain.ImageInput) (string, error) {
	parts, err := a.subjectParts(ctx, logo, prompts.BrandNameFromLogo, prompts.TemplateData{})
	if err != nil {
		return "", err
	}

	name, err := a.core.GenerateText(ctx, OpBrandNameFromLogo, parts)
	if err != nil {
		return "", fmt.Errorf("ブランド名の提案に失敗しました: %w", err)
	}
	return cleanName(name), nil
}

// SuggestSlogans はブランド名・業種・ビジョンからスローガン候補を返すのだ。
func (a *BrandAdapter) SuggestSlogans(ctx context.Context, brandName, industry, vision string) ([]string, error) {
	if strings.TrimSpace(brandName) == "" {
		return nil, invalidRequest("brand name is required to suggest slogans")
	}

	prompt, err := a.prompts.Build(prompts.Slogans, prompts.TemplateData{BrandName: brandName, Industry: industry, Vision: vision})
	if err != nil {
		return nil, err
	}
	return a.slogans(ctx, OpSlogans, []generator.RequestPart{generator.TextPart(prompt)})
}

// SuggestSlogansFromLogo はロゴ画像とブランド名からスローガン候補を返すのだ。
func (a *BrandAdapter) SuggestSlogansFromLogo(ctx context.Context, logo domain.ImageInput, brandName string) ([]string, error) {
	if strings.TrimSpace(brandName) == "" {
		return nil, invalidRequest("brand name is required to suggest slogans")
	}

	parts, err := a.subjectParts(ctx, logo, prompts.SlogansFromLogo, prompts.TemplateData{BrandName: brandName})
	if err != nil {
		return nil, err
	}
	return a.slogans(ctx, OpSlogansFromLogo, parts)
}

func (a *BrandAdapter) slogans(ctx context.Context, operation string, parts []generator.RequestPart) ([]string, error) {
	var out struct {
		Slogans []string `json:"slogans"`
	}
	if err := a.core.GenerateJSON(ctx, operation, parts, slogansSchema, &out); err != nil {
		return nil, fmt.Errorf("スローガンの提案に失敗しました: %w", err)
	}

	slogans := make([]string, 0, len(out.Slogans))
	for _, s := range out.Slogans {
		if s = strings.TrimSpace(s); s != "" {
			slogans = append(slogans, s)
		}
	}
	return slogans, nil
}

// cleanName はモデルが付け足しがちな引用符や装飾、2 行目以降を取り除くのだ。
func cleanName(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.Trim(strings.TrimSpace(line), "\"'*`“”")
}
