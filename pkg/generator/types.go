package generator

import "time"

const (
	cacheKeyReference = "reference:"

	// DefaultCacheTTL は参照画像キャッシュの既定の有効期限なのだ。
	DefaultCacheTTL = time.Hour
	// DefaultRetryInterval は再試行時の初回待機時間なのだ。
	DefaultRetryInterval = 2 * time.Second

	mimeTypeJSON = "application/json"
)
