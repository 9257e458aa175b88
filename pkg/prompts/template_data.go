package prompts

import (
	"embed"
	"slices"
	"strings"

	"github.com/shouni/gemini-brand-kit/pkg/domain"
)

// テンプレート名。templates/<name>.md に対応します。
const (
	CreateLogo        = "create_logo"
	EditLogo          = "edit_logo"
	BrandColors       = "brand_colors"
	BrandTypography   = "brand_typography"
	Mockup            = "mockup"
	Variation         = "variation"
	SocialImage       = "social_image"
	SocialCaption     = "social_caption"
	Guidelines        = "guidelines"
	BrandName         = "brand_name"
	BrandNameFromLogo = "brand_name_from_logo"
	Slogans           = "slogans"
	SlogansFromLogo   = "slogans_from_logo"
)

//go:embed templates/*.md
var templateFS embed.FS

// Field はモックアップに描き込む項目 1 つ分です。
type Field struct {
	Key   string
	Value string
}

// TemplateData はプロンプトテンプレートに渡すデータ構造です。
// テンプレートごとに参照する項目だけを設定すれば十分です。
type TemplateData struct {
	BrandName       string
	Industry        string
	Slogan          string
	Vision          string
	Style           string
	HasInspirations bool

	Instruction string

	MockupType      string
	Personalization []Field
	Variation       string
}

// BriefData はデザイン依頼からロゴ作成用のデータを組み立てます。
func BriefData(b domain.DesignBrief) TemplateData {
	return TemplateData{
		BrandName:       strings.TrimSpace(b.BrandName),
		Industry:        strings.TrimSpace(b.Industry),
		Slogan:          strings.TrimSpace(b.Slogan),
		Vision:          strings.TrimSpace(b.Vision),
		Style:           strings.TrimSpace(b.Persona),
		HasInspirations: len(b.References()) > 0,
	}
}

// PersonalizationFields は空の値を除き、キー順に並べた項目を返します。
func PersonalizationFields(p domain.Personalization) []Field {
	fields := make([]Field, 0, len(p))
	for k, v := range p {
		if strings.TrimSpace(v) == "" {
			continue
		}
		fields = append(fields, Field{Key: k, Value: v})
	}
	slices.SortFunc(fields, func(a, b Field) int { return strings.Compare(a.Key, b.Key) })
	return fields
}
