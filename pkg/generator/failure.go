package generator

import (
	"errors"
	"fmt"
)

// FailureKind は生成失敗の分類なのだ。
// UI 側のメッセージ表示やリトライ可否の判断はこの分類に基づいて行うのだ。
type FailureKind string

const (
	// FailureBlocked はプロンプト自体がポリシーにより拒否されたことを示すのだ。
	FailureBlocked FailureKind = "Blocked"
	// FailureSafetyBlocked は候補が安全性フィルタで停止したことを示すのだ。
	FailureSafetyBlocked FailureKind = "SafetyBlocked"
	// FailureRecitationBlocked は著作物の再現の可能性で停止したことを示すのだ。
	FailureRecitationBlocked FailureKind = "RecitationBlocked"
	// FailureNoImageProducible はモデルが画像を生成できなかったことを示すのだ（言い換えで解決可能）。
	FailureNoImageProducible FailureKind = "NoImageProducible"
	FailureEmpty             FailureKind = "Empty"
	FailureMalformedResponse FailureKind = "MalformedResponse"
	FailureNoPayload         FailureKind = "NoPayload"
	// FailureRateLimited はクォータ超過などのバックオフ要求なのだ。
	FailureRateLimited FailureKind = "RateLimited"
	// FailureInvalidImageData は呼び出し側の入力不備なのだ。入力を直さずに再試行しても成功しないのだ。
	FailureInvalidImageData FailureKind = "InvalidImageData"
	FailureUnknown          FailureKind = "Unknown"
)

// Retryable は同じ入力のまま再試行して成功し得る分類かどうかを返すのだ。
func (k FailureKind) Retryable() bool {
	switch k {
	case FailureEmpty, FailureMalformedResponse, FailureNoPayload, FailureRateLimited:
		return true
	default:
		return false
	}
}

// Failure は分類付きの生成エラーなのだ。
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

// NewFailure は原因エラーを持たない Failure を生成するのだ。
func NewFailure(kind FailureKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// WrapFailure は原因エラーを保持した Failure を生成するのだ。
func WrapFailure(kind FailureKind, message string, err error) *Failure {
	return &Failure{Kind: kind, Message: message, Err: err}
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Retryable は Kind.Retryable のショートカットなのだ。
func (f *Failure) Retryable() bool {
	return f.Kind.Retryable()
}

// String はログ出力向けに分類付きの表現を返すのだ。
func (f *Failure) String() string {
	return fmt.Sprintf("Failure[%s]: %s", f.Kind, f.Message)
}

// AsFailure はエラーチェーンから *Failure を取り出すのだ。
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// KindOf はエラーの分類を返すのだ。nil の場合は空文字、分類不能な場合は FailureUnknown なのだ。
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}
	if f, ok := AsFailure(err); ok {
		return f.Kind
	}
	return FailureUnknown
}

// IsRetryable はエラーが再試行可能な分類かどうかを返すのだ。
func IsRetryable(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Retryable()
}
