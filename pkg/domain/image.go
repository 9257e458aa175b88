package domain

// ImageInput は生成リクエストに渡す画像 1 枚分の入力です。
// Data にはデータURI (data:<mime>;base64,<payload>) を、リモート画像の場合は URL を指定します。
type ImageInput struct {
	Data     string // ブラウザの FileReader 等で得たデータURI
	MimeType string // 空の場合はデータURIのヘッダ、または画像バイト列から判定します
	URL      string // http(s):// または gs:// の参照画像（Data が空の場合のみ使用）
}

// IsRemote は入力がURL参照かどうかを返します。
func (i ImageInput) IsRemote() bool {
	return i.Data == "" && i.URL != ""
}

// MaxInspirations はロゴ作成時に参照するインスピレーション画像の上限枚数です。
const MaxInspirations = 3
