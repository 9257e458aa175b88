package session

import (
	"context"

	"github.com/shouni/gemini-brand-kit/pkg/domain"
)

// CreateLogo は現在のデザイン依頼でロゴを作成し、作業中の画像にするのだ。
// 作成を始めた時点で前の画像とブランドキットは捨てるのだ。
func (s *Session) CreateLogo(ctx context.Context) (string, error) {
	s.mu.Lock()
	s.image = ""
	s.history = nil
	s.brandKit = nil
	f := inflight{epoch: s.epoch, mode: s.mode, brief: s.brief, ticket: s.actions.Begin(ActionCreate)}
	s.mu.Unlock()

	url, err := s.gen.CreateLogo(ctx, f.brief)
	if err != nil {
		return "", fail(ctx, s, s.actions, f, err)
	}
	if err := succeed(ctx, s, s.actions, f, url, func() { s.setImageLocked(url) }); err != nil {
		return "", err
	}
	return url, nil
}

// Edit は作業中の画像に編集指示を適用し、結果を履歴に積むのだ。
func (s *Session) Edit(ctx context.Context, instruction string) (string, error) {
	f, err := begin(s, s.actions, ActionEdit, needsImage)
	if err != nil {
		return "", err
	}

	url, err := s.gen.EditLogo(ctx, f.logo, instruction)
	if err != nil {
		return "", fail(ctx, s, s.actions, f, err)
	}
	err = succeed(ctx, s, s.actions, f, url, func() {
		s.image = url
		s.history = append(s.history, EditEntry{Instruction: instruction, ResultImage: url})
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

// BuildBrandKit は作業中の画像からブランドキットを抜き出して保持するのだ。
func (s *Session) BuildBrandKit(ctx context.Context) (domain.BrandKit, error) {
	f, err := begin(s, s.actions, ActionBrandKit, needsImage)
	if err != nil {
		return domain.BrandKit{}, err
	}

	kit, err := s.gen.ExtractBrandKit(ctx, f.logo)
	if err != nil {
		return domain.BrandKit{}, fail(ctx, s, s.actions, f, err)
	}
	if err := succeed(ctx, s, s.actions, f, "", func() { s.brandKit = &kit }); err != nil {
		return domain.BrandKit{}, err
	}
	return kit, nil
}

// SuggestName はブランド名を提案して、依頼内容のブランド名にするのだ。
// create モードは業種とビジョンから、edit モードは作業中の画像から考えるのだ。
func (s *Session) SuggestName(ctx context.Context) (string, error) {
	f, err := begin(s, s.actions, ActionName, needsImageInEdit)
	if err != nil {
		return "", err
	}

	var name string
	if f.mode == ModeCreate {
		name, err = s.gen.SuggestBrandName(ctx, f.brief.Industry, f.brief.Vision)
	} else {
		name, err = s.gen.SuggestBrandNameFromLogo(ctx, f.logo)
	}
	if err != nil {
		return "", fail(ctx, s, s.actions, f, err)
	}
	if err := succeed(ctx, s, s.actions, f, name, func() { s.brief.BrandName = name }); err != nil {
		return "", err
	}
	return name, nil
}

// SuggestSlogans はスローガン候補を出すのだ。採用するときは SelectSlogan を呼ぶのだ。
func (s *Session) SuggestSlogans(ctx context.Context) ([]string, error) {
	f, err := begin(s, s.actions, ActionSlogans, needsImageInEdit)
	if err != nil {
		return nil, err
	}

	var slogans []string
	if f.mode == ModeCreate {
		slogans, err = s.gen.SuggestSlogans(ctx, f.brief.BrandName, f.brief.Industry, f.brief.Vision)
	} else {
		slogans, err = s.gen.SuggestSlogansFromLogo(ctx, f.logo, f.brief.BrandName)
	}
	if err != nil {
		return nil, fail(ctx, s, s.actions, f, err)
	}
	if err := succeed(ctx, s, s.actions, f, "", func() { s.slogans = slogans }); err != nil {
		return nil, err
	}
	return slogans, nil
}
