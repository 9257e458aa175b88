package adapters

import "google.golang.org/genai"

// 構造化出力のレスポンススキーマ。応答の検証にも同じ定義を使うのだ。
var (
	colorsSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"colors": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"hex": {Type: genai.TypeString, Description: "6-digit hex color code such as #1A2B3C"},
					},
					Required: []string{"hex"},
				},
			},
		},
		Required: []string{"colors"},
	}

	typographySchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"headingFont": {Type: genai.TypeString},
			"bodyFont":    {Type: genai.TypeString},
		},
		Required: []string{"headingFont", "bodyFont"},
	}

	captionSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"caption": {Type: genai.TypeString},
		},
		Required: []string{"caption"},
	}

	guidelinesSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"philosophy":     {Type: genai.TypeString},
			"clearSpaceRule": {Type: genai.TypeString},
			"minimumSize":    {Type: genai.TypeString},
			"colorUsage": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"hex":   {Type: genai.TypeString},
						"usage": {Type: genai.TypeString},
					},
					Required: []string{"hex", "usage"},
				},
			},
			"misuse":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"toneOfVoice": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"philosophy", "clearSpaceRule", "minimumSize", "colorUsage", "misuse", "toneOfVoice"},
	}

	slogansSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"slogans": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"slogans"},
	}
)
