package adapters

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shouni/gemini-brand-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"github.com/shouni/gemini-brand-kit/pkg/prompts"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// routeFunc はリクエストのテキストから応答を決めるのだ。
type routeFunc func(prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type capturedCall struct {
	parts     []*genai.Part
	prompt    string
	config    *genai.GenerateContentConfig
	viaClient bool
}

// mockGenerator は generator.ContentGenerator のテスト用モックなのだ。
// 並行に呼ばれても応答が入れ替わらないよう、順番ではなく内容で振り分けるのだ。
type mockGenerator struct {
	mu    sync.Mutex
	route routeFunc
	calls []capturedCall
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return m.handle(capturedCall{parts: contents[0].Parts, config: config})
}

func (m *mockGenerator) handle(call capturedCall) (*genai.GenerateContentResponse, error) {
	for _, p := range call.parts {
		if p.Text != "" {
			call.prompt = p.Text
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	return m.route(call.prompt, call.config)
}

// mockAIClient は GenerateWithParts を gen の振り分けに流すのだ。
type mockAIClient struct {
	gemini.GenerativeModel
	gen *mockGenerator
}

func (m *mockAIClient) GenerateWithParts(ctx context.Context, model string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error) {
	resp, err := m.gen.handle(capturedCall{parts: parts, viaClient: true})
	if err != nil {
		return nil, err
	}
	return &gemini.Response{RawResponse: resp}, nil
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockGenerator) call(i int) capturedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[i]
}

// newTestAdapter は本物の GeminiBrandCore をモック通信で動かすのだ。
func newTestAdapter(t *testing.T, route routeFunc) (*BrandAdapter, *mockGenerator) {
	t.Helper()
	gen := &mockGenerator{route: route}

	core, err := generator.NewGeminiBrandCore(&mockAIClient{gen: gen}, gen, "image-model", "text-model")
	require.NoError(t, err)
	builder, err := prompts.NewBrandPromptBuilder()
	require.NoError(t, err)
	adapter, err := NewBrandAdapter(core, builder)
	require.NoError(t, err)

	return adapter, gen
}

// byPrompt はプロンプトに含まれる文字列で応答を選ぶのだ。
func byPrompt(routes map[string]*genai.GenerateContentResponse) routeFunc {
	return func(prompt string, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		for key, resp := range routes {
			if strings.Contains(prompt, key) {
				return resp, nil
			}
		}
		return nil, nil
	}
}

func always(resp *genai.GenerateContentResponse) routeFunc {
	return func(string, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return resp, nil
	}
}

func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonStop,
			Content: &genai.Content{
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}},
			},
		}},
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonStop,
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func finishedResponse(reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: reason}},
	}
}

const (
	foxLogo    = "data:image/png;base64,AAAA"
	foxDataURI = "data:image/png;base64,AAAA"
)

var foxPNG = []byte{0, 0, 0}
