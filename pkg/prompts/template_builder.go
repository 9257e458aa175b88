package prompts

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
)

// PromptBuilder は、AIプロンプトを構築する契約です。
type PromptBuilder interface {
	Build(name string, data TemplateData) (string, error)
}

// BrandPromptBuilder は埋め込みテンプレートを名前で管理します。
type BrandPromptBuilder struct {
	templates map[string]*template.Template
}

// NewBrandPromptBuilder は埋め込まれたすべてのテンプレートを解析して初期化します。
func NewBrandPromptBuilder() (*BrandPromptBuilder, error) {
	files, err := fs.Glob(templateFS, "templates/*.md")
	if err != nil {
		return nil, fmt.Errorf("プロンプトテンプレートの列挙に失敗: %w", err)
	}

	parsed := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".md")
		content, err := fs.ReadFile(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' の読み込みに失敗: %w", name, err)
		}
		if len(content) == 0 {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' の内容が空です", name)
		}

		tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", name, err)
		}
		parsed[name] = tmpl
	}

	return &BrandPromptBuilder{templates: parsed}, nil
}

// Build は、指定された名前のテンプレートを実行します。
func (b *BrandPromptBuilder) Build(name string, data TemplateData) (string, error) {
	tmpl, ok := b.templates[name]
	if !ok {
		return "", fmt.Errorf("不明なプロンプトです: '%s'", name)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}

	return strings.TrimSpace(sb.String()), nil
}
