package generator

import (
	"strings"

	"github.com/shouni/gemini-brand-kit/pkg/imgutil"
	"google.golang.org/genai"
)

// SDK の定数が存在しないバージョンでも判定できるよう、文字列値で定義しておくのだ。
const (
	finishReasonImageSafety       genai.FinishReason = "IMAGE_SAFETY"
	finishReasonProhibitedContent genai.FinishReason = "PROHIBITED_CONTENT"
	finishReasonNoImage           genai.FinishReason = "NO_IMAGE"
)

const (
	msgEmpty          = "no content generated"
	msgMalformed      = "response did not contain expected content"
	msgNoImagePayload = "no image data found in response"
	msgNoTextPayload  = "no text found in response"
	msgSafety         = "request blocked for safety concerns"
	msgRecitation     = "blocked for potential copyrighted-material recitation"
	msgNoImage        = "model could not produce an image; ask the caller to rephrase with a more specific visual instruction"
	msgStoppedPrefix  = "generation stopped unexpectedly: "
)

type finishRule struct {
	kind    FailureKind
	message string
}

// finishReasonTable は正常終了以外の FinishReason と失敗分類の対応表なのだ。
var finishReasonTable = map[genai.FinishReason]finishRule{
	genai.FinishReasonSafety:      {FailureSafetyBlocked, msgSafety},
	finishReasonImageSafety:       {FailureSafetyBlocked, msgSafety},
	finishReasonProhibitedContent: {FailureSafetyBlocked, msgSafety},
	genai.FinishReasonRecitation:  {FailureRecitationBlocked, msgRecitation},
	finishReasonNoImage:           {FailureNoImageProducible, msgNoImage},
}

// NormalizeImage は画像生成レスポンスを解析し、最初のインライン画像を Image として返すのだ。
func NormalizeImage(resp *genai.GenerateContentResponse) Outcome {
	candidate, f := inspectResponse(resp)
	if f != nil {
		return failureOutcome(f)
	}

	for _, part := range candidate.Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mimeType := part.InlineData.MIMEType
		if mimeType == "" {
			// ラベルの無いブロブは中身が画像と判定できたときだけ採用するのだ
			detected, ok := imgutil.DetectMIMEType(part.InlineData.Data)
			if !ok {
				continue
			}
			mimeType = detected
		}
		return imageOutcome(imgutil.EncodeDataURI(mimeType, part.InlineData.Data))
	}

	return failureOutcome(NewFailure(FailureNoPayload, msgNoImagePayload))
}

// NormalizeText はテキスト生成レスポンスを解析し、思考パーツを除いた本文を Text として返すのだ。
func NormalizeText(resp *genai.GenerateContentResponse) Outcome {
	candidate, f := inspectResponse(resp)
	if f != nil {
		return failureOutcome(f)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return failureOutcome(NewFailure(FailureNoPayload, msgNoTextPayload))
	}
	return textOutcome(text)
}

// inspectResponse は画像・テキスト共通の判定（ブロック、候補なし、終了理由、コンテンツ欠落）を順に行うのだ。
func inspectResponse(resp *genai.GenerateContentResponse) (*genai.Candidate, *Failure) {
	if resp == nil {
		return nil, NewFailure(FailureEmpty, msgEmpty)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return nil, NewFailure(FailureBlocked, string(fb.BlockReason))
	}

	// 現在の仕様では、最初の候補 (Candidate) のみを利用する。
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, NewFailure(FailureEmpty, msgEmpty)
	}
	candidate := resp.Candidates[0]

	if f := classifyFinishReason(candidate.FinishReason); f != nil {
		return nil, f
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, NewFailure(FailureMalformedResponse, msgMalformed)
	}
	return candidate, nil
}

func classifyFinishReason(reason genai.FinishReason) *Failure {
	if reason == "" || reason == genai.FinishReasonStop || reason == genai.FinishReasonUnspecified {
		return nil
	}
	if rule, ok := finishReasonTable[reason]; ok {
		return NewFailure(rule.kind, rule.message)
	}
	return NewFailure(FailureUnknown, msgStoppedPrefix+string(reason))
}
