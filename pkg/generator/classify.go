package generator

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	statusResourceExhausted = "RESOURCE_EXHAUSTED"
	msgRateLimited          = "rate limit exceeded; please wait a moment and try again"
)

// ClassifyError は通信層のエラーを Failure に分類するのだ。
// 既に Failure を含むエラーはそのまま返し、分類できないものは元のメッセージを保持した Unknown になるのだ。
func ClassifyError(err error) *Failure {
	if err == nil {
		return nil
	}
	if f, ok := AsFailure(err); ok {
		return f
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && isRateLimit(apiErr.Code, apiErr.Status) {
		return WrapFailure(FailureRateLimited, rateLimitMessage(apiErr.Message), err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && isRateLimit(apiErrPtr.Code, apiErrPtr.Status) {
		return WrapFailure(FailureRateLimited, rateLimitMessage(apiErrPtr.Message), err)
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, statusResourceExhausted) {
		return WrapFailure(FailureRateLimited, rateLimitMessage(extractServerMessage(msg)), err)
	}

	return WrapFailure(FailureUnknown, msg, err)
}

func isRateLimit(code int, status string) bool {
	return code == http.StatusTooManyRequests || status == statusResourceExhausted
}

func rateLimitMessage(detail string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return msgRateLimited
	}
	return detail
}

// extractServerMessage はエラーメッセージに埋め込まれた {"error":{"message":...}} 形式の本文を取り出すのだ。
func extractServerMessage(msg string) string {
	start := strings.Index(msg, "{")
	end := strings.LastIndex(msg, "}")
	if start == -1 || end <= start {
		return ""
	}

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(msg[start:end+1]), &body); err != nil {
		return ""
	}
	return body.Error.Message
}
