package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")

// DecodeJSON は構造化レスポンスの本文を検証してから v にデコードするのだ。
// schema が指定されている場合は JSON Schema として検証し、不一致は MalformedResponse になるのだ。
func DecodeJSON(text string, schema *genai.Schema, v any) error {
	raw := extractJSON(text)

	if schema != nil {
		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(toJSONSchema(schema)),
			gojsonschema.NewStringLoader(raw),
		)
		if err != nil {
			return WrapFailure(FailureMalformedResponse, fmt.Sprintf("response was not valid JSON: %v", err), err)
		}
		if !result.Valid() {
			msgs := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				msgs = append(msgs, e.String())
			}
			return NewFailure(FailureMalformedResponse, "response did not match the expected structure: "+strings.Join(msgs, "; "))
		}
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return WrapFailure(FailureMalformedResponse, fmt.Sprintf("response was not valid JSON: %v", err), err)
	}
	return nil
}

// extractJSON はコードフェンスで囲まれた応答から JSON 部分を取り出すのだ。
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := jsonBlockRegex.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	return text
}

// toJSONSchema は genai.Schema を gojsonschema で扱える JSON Schema に変換するのだ。
// レスポンススキーマと検証スキーマを同じ定義から作るためのものなのだ。
func toJSONSchema(s *genai.Schema) map[string]any {
	out := map[string]any{}
	if s.Type != "" && s.Type != genai.TypeUnspecified {
		out["type"] = strings.ToLower(string(s.Type))
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			if p != nil {
				props[name] = toJSONSchema(p)
			}
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		required := make([]any, len(s.Required))
		for i, r := range s.Required {
			required[i] = r
		}
		out["required"] = required
	}
	if s.Items != nil {
		out["items"] = toJSONSchema(s.Items)
	}
	if len(s.Enum) > 0 {
		enum := make([]any, len(s.Enum))
		for i, e := range s.Enum {
			enum[i] = e
		}
		out["enum"] = enum
	}
	return out
}
