package adapters

import (
	"context"
	"testing"

	"github.com/shouni/gemini-brand-kit/pkg/domain"
	"github.com/shouni/gemini-brand-kit/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestBrandAdapter_SuggestBrandName(t *testing.T) {
	ctx := context.Background()

	t.Run("引用符や余計な行を取り除く", func(t *testing.T) {
		adapter, gen := newTestAdapter(t, always(textResponse("\"Lumina\"\nA bright name for a lighting brand.")))

		got, err := adapter.SuggestBrandName(ctx, "lighting", "")

		require.NoError(t, err)
		assert.Equal(t, "Lumina", got)
		assert.True(t, gen.call(0).viaClient)
		assert.Nil(t, gen.call(0).config)
	})

	t.Run("業種が無ければ呼び出さない", func(t *testing.T) {
		adapter, gen := newTestAdapter(t, always(textResponse("x")))

		_, err := adapter.SuggestBrandName(ctx, "  ", "vision")

		assert.ErrorIs(t, err, ErrInvalidRequest)
		assert.Equal(t, 0, gen.callCount())
	})

	t.Run("ロゴから提案する", func(t *testing.T) {
		adapter, gen := newTestAdapter(t, always(textResponse("**Foxglow**")))

		got, err := adapter.SuggestBrandNameFromLogo(ctx, domain.ImageInput{Data: foxLogo})

		require.NoError(t, err)
		assert.Equal(t, "Foxglow", got)
		assert.NotNil(t, gen.call(0).parts[0].InlineData)
	})
}

func TestBrandAdapter_SuggestSlogans(t *testing.T) {
	ctx := context.Background()

	t.Run("空の候補を除いて返す", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, always(textResponse(`{"slogans":[" Sly sips ","","Brewed clever"]}`)))

		got, err := adapter.SuggestSlogans(ctx, "Kitsune", "coffee", "")

		require.NoError(t, err)
		assert.Equal(t, []string{"Sly sips", "Brewed clever"}, got)
	})

	t.Run("ブランド名が無ければ呼び出さない", func(t *testing.T) {
		adapter, gen := newTestAdapter(t, always(textResponse("{}")))

		_, err := adapter.SuggestSlogans(ctx, "", "coffee", "")
		assert.ErrorIs(t, err, ErrInvalidRequest)

		_, err = adapter.SuggestSlogansFromLogo(ctx, domain.ImageInput{Data: foxLogo}, "")
		assert.ErrorIs(t, err, ErrInvalidRequest)

		assert.Equal(t, 0, gen.callCount())
	})

	t.Run("レート制限はサーバーのメッセージで返る", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, func(string, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, genai.APIError{Code: 429, Message: "Quota exceeded", Status: "RESOURCE_EXHAUSTED"}
		})

		_, err := adapter.SuggestSlogansFromLogo(ctx, domain.ImageInput{Data: foxLogo}, "Kitsune")

		f, ok := generator.AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, generator.FailureRateLimited, f.Kind)
		assert.Equal(t, "Quota exceeded", f.Message)
	})
}
