package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/shouni/gemini-brand-kit/pkg/domain"
	"github.com/shouni/gemini-brand-kit/pkg/generator"
	"github.com/shouni/gemini-brand-kit/pkg/prompts"
	"google.golang.org/genai"
)

// 計測やログに使う操作名なのだ。
const (
	OpCreateLogo        = "create_logo"
	OpCreateImage       = "create_image"
	OpEditLogo          = "edit_logo"
	OpEditImage         = "edit_image"
	OpBrandColors       = "brand_colors"
	OpBrandTypography   = "brand_typography"
	OpMockup            = "mockup"
	OpVariation         = "variation"
	OpSocialImage       = "social_image"
	OpSocialCaption     = "social_caption"
	OpGuidelines        = "guidelines"
	OpBrandName         = "brand_name"
	OpBrandNameFromLogo = "brand_name_from_logo"
	OpSlogans           = "slogans"
	OpSlogansFromLogo   = "slogans_from_logo"
)

// ErrInvalidRequest は呼び出し前に検出した入力不備なのだ。
var ErrInvalidRequest = errors.New("invalid request")

// BrandCore は生成呼び出しと参照画像の解決を抽象化するインターフェースなのだ。
// *generator.GeminiBrandCore がこれを満たすのだ。
type BrandCore interface {
	GenerateImage(ctx context.Context, operation string, parts []generator.RequestPart) (string, error)
	GenerateText(ctx context.Context, operation string, parts []generator.RequestPart) (string, error)
	GenerateJSON(ctx context.Context, operation string, parts []generator.RequestPart, schema *genai.Schema, v any) error
	ResolveImage(ctx context.Context, in domain.ImageInput) (generator.RequestPart, error)
	ResolveReferences(ctx context.Context, inputs []domain.ImageInput) []generator.RequestPart
}

// BrandAdapter はブランド資産の各生成機能を提供するアダプター層なのだ。
type BrandAdapter struct {
	core    BrandCore
	prompts prompts.PromptBuilder
}

// NewBrandAdapter は BrandCore とプロンプトビルダーを注入して初期化するのだ。
func NewBrandAdapter(core BrandCore, builder prompts.PromptBuilder) (*BrandAdapter, error) {
	if core == nil {
		return nil, fmt.Errorf("core is required")
	}
	if builder == nil {
		return nil, fmt.Errorf("prompt builder is required")
	}
	return &BrandAdapter{core: core, prompts: builder}, nil
}

// subjectParts はロゴ画像を解決し、[画像, 指示] のパーツ列を組み立てるのだ。
func (a *BrandAdapter) subjectParts(ctx context.Context, logo domain.ImageInput, promptName string, data prompts.TemplateData) ([]generator.RequestPart, error) {
	subject, err := a.core.ResolveImage(ctx, logo)
	if err != nil {
		return nil, err
	}
	prompt, err := a.prompts.Build(promptName, data)
	if err != nil {
		return nil, err
	}
	return generator.BuildEditParts(subject, prompt), nil
}

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
