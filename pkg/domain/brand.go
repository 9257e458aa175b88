package domain

import (
	"fmt"
	"strings"
)

// Color はブランドカラー 1 色を表します。
type Color struct {
	Hex string `json:"hex"`
}

// Typography は見出し用・本文用のフォント提案です。
type Typography struct {
	HeadingFont string `json:"headingFont"`
	BodyFont    string `json:"bodyFont"`
}

// BrandKit はロゴから抽出したカラーパレットとタイポグラフィの組み合わせです。
type BrandKit struct {
	Colors     []Color    `json:"colors"`
	Typography Typography `json:"typography"`
}

// ColorUsage はガイドライン内での各カラーの用途説明です。
type ColorUsage struct {
	Hex   string `json:"hex"`
	Usage string `json:"usage"`
}

// Guidelines はロゴから生成したブランドガイドラインです。
type Guidelines struct {
	Philosophy     string       `json:"philosophy"`
	ClearSpaceRule string       `json:"clearSpaceRule"`
	MinimumSize    string       `json:"minimumSize"`
	ColorUsage     []ColorUsage `json:"colorUsage"`
	Misuse         []string     `json:"misuse"`
	ToneOfVoice    []string     `json:"toneOfVoice"`
}

// SocialPost は SNS 投稿用の画像とキャプションの組です。
// 画像とキャプションは必ず揃って生成され、片方だけが公開されることはありません。
type SocialPost struct {
	ImageURL string `json:"image"`
	Caption  string `json:"caption"`
}

// DesignBrief はロゴ新規作成時のデザイン依頼内容です。
type DesignBrief struct {
	BrandName    string
	Industry     string
	Slogan       string
	Vision       string
	Persona      string // Persona.Style の値
	Inspirations []ImageInput
}

// Validate はロゴ作成に必須の項目が揃っているかを検証します。
func (b DesignBrief) Validate() error {
	if strings.TrimSpace(b.BrandName) == "" {
		return fmt.Errorf("brand name is required")
	}
	if strings.TrimSpace(b.Industry) == "" {
		return fmt.Errorf("industry is required")
	}
	return nil
}

// References は参照に使うインスピレーション画像を上限枚数まで返します。
func (b DesignBrief) References() []ImageInput {
	if len(b.Inspirations) > MaxInspirations {
		return b.Inspirations[:MaxInspirations]
	}
	return b.Inspirations
}
