package domain

import "slices"

// MockupType はモックアップの種類で、アセットキーとしても使用されます。
type MockupType string

const (
	MockupBusinessCard       MockupType = "Business Card"
	MockupCoffeeCup          MockupType = "Coffee Cup"
	MockupTShirt             MockupType = "T-Shirt"
	MockupStorefrontSign     MockupType = "Storefront Sign"
	MockupSocialMediaProfile MockupType = "Social Media Profile"
	MockupWebsiteOnLaptop    MockupType = "Website on Laptop"
	MockupToteBag            MockupType = "Tote Bag"
	MockupLetterhead         MockupType = "Letterhead"
)

// MockupTypes は UI に並ぶ順序でのモックアップ一覧です。
var MockupTypes = []MockupType{
	MockupBusinessCard,
	MockupCoffeeCup,
	MockupTShirt,
	MockupStorefrontSign,
	MockupSocialMediaProfile,
	MockupWebsiteOnLaptop,
	MockupToteBag,
	MockupLetterhead,
}

// Valid は定義済みのモックアップ種別かどうかを返します。
func (m MockupType) Valid() bool {
	return slices.Contains(MockupTypes, m)
}

// Personalization はモックアップに描き込む任意項目（氏名、役職など）です。
type Personalization map[string]string

// VariationKind はロゴバリエーションの種類です。
type VariationKind string

const (
	VariationWhite          VariationKind = "white"
	VariationProfilePicture VariationKind = "profile_picture"
	VariationTransparentBG  VariationKind = "transparent_bg"
)

// VariationKinds は生成可能なバリエーションの一覧です。
var VariationKinds = []VariationKind{
	VariationWhite,
	VariationProfilePicture,
	VariationTransparentBG,
}

// Valid は定義済みのバリエーションかどうかを返します。
func (v VariationKind) Valid() bool {
	return slices.Contains(VariationKinds, v)
}

// Persona はデザイナーペルソナ（作風プリセット）です。
type Persona struct {
	Name  string
	Style string
}

// Personas は選択可能なデザイナーペルソナの一覧です。
var Personas = []Persona{
	{Name: "Swiss Master", Style: "a minimalist, geometric, clean style using sans-serif typography, embodying Swiss design principles."},
	{Name: "Vintage Artisan", Style: "a style with textures, stamps, and seals, using serif and script typography for a vintage, handcrafted feel."},
	{Name: "Tech Innovator", Style: "a futuristic, abstract style with gradients and modern aesthetics."},
	{Name: "Playful Illustrator", Style: "a fun, friendly, hand-drawn style, possibly featuring a character or mascot."},
	{Name: "Corporate Minimalist", Style: "a clean, modern, and professional style, often using simple geometric shapes and sans-serif fonts for a corporate feel."},
	{Name: "Luxury Classic", Style: "an elegant and sophisticated style, featuring refined serif fonts, monograms, and a timeless, high-end aesthetic."},
	{Name: "Eco Organic", Style: "a natural, earthy style with hand-drawn elements, textured effects, and organic shapes, conveying sustainability."},
	{Name: "Bold Pop", Style: "a vibrant, energetic style using bold graphics, bright colors, and playful typography inspired by pop art."},
}

// FindPersona は名前からペルソナを検索します。
func FindPersona(name string) (Persona, bool) {
	for _, p := range Personas {
		if p.Name == name {
			return p, true
		}
	}
	return Persona{}, false
}
