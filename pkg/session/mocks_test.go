package session

import (
	"context"
	"sync"

	"github.com/shouni/gemini-brand-kit/pkg/domain"
)

// fakeGenerator は Generator のテスト用モックなのだ。
// 関数が未設定のメソッドは決まった値を返すのだ。
type fakeGenerator struct {
	mu    sync.Mutex
	calls []string

	createLogo func(brief domain.DesignBrief) (string, error)
	editLogo   func(subject domain.ImageInput, instruction string) (string, error)
	mockup     func(t domain.MockupType) (string, error)
	socialPost func() (domain.SocialPost, error)
}

func (f *fakeGenerator) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeGenerator) CreateLogo(ctx context.Context, brief domain.DesignBrief) (string, error) {
	f.record("CreateLogo")
	if f.createLogo != nil {
		return f.createLogo(brief)
	}
	return "data:image/png;base64,AAAA", nil
}

func (f *fakeGenerator) EditLogo(ctx context.Context, subject domain.ImageInput, instruction string) (string, error) {
	f.record("EditLogo")
	if f.editLogo != nil {
		return f.editLogo(subject, instruction)
	}
	return "data:image/png;base64," + instruction, nil
}

func (f *fakeGenerator) ExtractBrandKit(ctx context.Context, logo domain.ImageInput) (domain.BrandKit, error) {
	f.record("ExtractBrandKit")
	return domain.BrandKit{
		Colors:     []domain.Color{{Hex: "#112233"}},
		Typography: domain.Typography{HeadingFont: "Inter", BodyFont: "Lora"},
	}, nil
}

func (f *fakeGenerator) GenerateMockup(ctx context.Context, logo domain.ImageInput, mockupType domain.MockupType, personalization domain.Personalization) (string, error) {
	f.record("GenerateMockup")
	if f.mockup != nil {
		return f.mockup(mockupType)
	}
	return "mockup:" + string(mockupType), nil
}

func (f *fakeGenerator) GenerateVariation(ctx context.Context, logo domain.ImageInput, kind domain.VariationKind) (string, error) {
	f.record("GenerateVariation")
	return "variation:" + string(kind), nil
}

func (f *fakeGenerator) GenerateSocialPost(ctx context.Context, logo domain.ImageInput, brandName, vision string) (domain.SocialPost, error) {
	f.record("GenerateSocialPost")
	if f.socialPost != nil {
		return f.socialPost()
	}
	return domain.SocialPost{ImageURL: "post", Caption: "Meet " + brandName}, nil
}

func (f *fakeGenerator) GenerateGuidelines(ctx context.Context, logo domain.ImageInput) (domain.Guidelines, error) {
	f.record("GenerateGuidelines")
	return domain.Guidelines{Philosophy: "Warm"}, nil
}

func (f *fakeGenerator) SuggestBrandName(ctx context.Context, industry, vision string) (string, error) {
	f.record("SuggestBrandName")
	return "Name for " + industry, nil
}

func (f *fakeGenerator) SuggestBrandNameFromLogo(ctx context.Context, logo domain.ImageInput) (string, error) {
	f.record("SuggestBrandNameFromLogo")
	return "Logo Name", nil
}

func (f *fakeGenerator) SuggestSlogans(ctx context.Context, brandName, industry, vision string) ([]string, error) {
	f.record("SuggestSlogans")
	return []string{brandName + " one", brandName + " two"}, nil
}

func (f *fakeGenerator) SuggestSlogansFromLogo(ctx context.Context, logo domain.ImageInput, brandName string) ([]string, error) {
	f.record("SuggestSlogansFromLogo")
	return []string{"from logo"}, nil
}
