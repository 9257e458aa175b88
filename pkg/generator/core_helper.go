package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/gemini-brand-kit/pkg/domain"
	"github.com/shouni/gemini-brand-kit/pkg/imgutil"
)

// ResolveImage は ImageInput を画像パーツに変換するのだ。
// データURIはそのまま分解し、URL 参照は取得してからインラインデータにするのだ。
func (c *GeminiBrandCore) ResolveImage(ctx context.Context, in domain.ImageInput) (RequestPart, error) {
	if !in.IsRemote() {
		return NewImagePart(in.Data, in.MimeType)
	}

	data, err := c.fetchImageData(ctx, in.URL)
	if err != nil {
		return RequestPart{}, WrapFailure(FailureInvalidImageData, fmt.Sprintf("failed to fetch reference image %s: %v", in.URL, err), err)
	}

	mimeType := in.MimeType
	if mimeType == "" {
		detected, ok := imgutil.DetectMIMEType(data)
		if !ok {
			return RequestPart{}, NewFailure(FailureInvalidImageData, fmt.Sprintf("reference %s is not an image (detected %s)", in.URL, detected))
		}
		mimeType = detected
	}

	if c.compress {
		data, mimeType = imgutil.ShrinkReference(data, mimeType, c.quality)
	}
	return NewImagePartFromBytes(data, mimeType), nil
}

// ResolveReferences は参照画像をまとめて解決するのだ。
// 解決できなかった参照はスキップし、警告ログを残すのだ。
func (c *GeminiBrandCore) ResolveReferences(ctx context.Context, inputs []domain.ImageInput) []RequestPart {
	parts := make([]RequestPart, 0, len(inputs))
	for i, in := range inputs {
		part, err := c.ResolveImage(ctx, in)
		if err != nil {
			slog.WarnContext(ctx, "参照画像の解決に失敗したためスキップします",
				"index", i,
				"url", in.URL,
				"error", err,
			)
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

func (c *GeminiBrandCore) fetchImageData(ctx context.Context, rawURL string) ([]byte, error) {
	cacheKey := cacheKeyReference + rawURL
	if c.cache != nil {
		if val, ok := c.cache.Get(cacheKey); ok {
			if data, ok := val.([]byte); ok {
				return data, nil
			}
		}
	}

	var (
		data []byte
		err  error
	)
	if isGCSURI(rawURL) {
		data, err = c.readRemote(ctx, rawURL)
	} else {
		data, err = c.fetchHTTP(ctx, rawURL)
	}
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(cacheKey, data, c.expiration)
	}
	return data, nil
}

func (c *GeminiBrandCore) readRemote(ctx context.Context, uri string) ([]byte, error) {
	if c.reader == nil {
		return nil, fmt.Errorf("remote reader is not configured for %s", uri)
	}
	rc, err := c.reader.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (c *GeminiBrandCore) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	if safe, err := IsSafeURL(rawURL); err != nil || !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	if c.httpClient == nil {
		return nil, fmt.Errorf("http client is not configured for %s", rawURL)
	}
	return c.httpClient.FetchBytes(ctx, rawURL)
}
