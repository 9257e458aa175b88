package generator

// OutcomeKind は Outcome の種別なのだ。
type OutcomeKind int

const (
	OutcomeImage OutcomeKind = iota + 1
	OutcomeText
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeImage:
		return "image"
	case OutcomeText:
		return "text"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome はレスポンス正規化の結果で、Image / Text / Failure のいずれか 1 つだけを保持するのだ。
// 値はこのパッケージの正規化処理でのみ生成されるのだ。
type Outcome struct {
	kind    OutcomeKind
	dataURI string
	text    string
	failure *Failure
}

func imageOutcome(dataURI string) Outcome {
	return Outcome{kind: OutcomeImage, dataURI: dataURI}
}

func textOutcome(text string) Outcome {
	return Outcome{kind: OutcomeText, text: text}
}

func failureOutcome(f *Failure) Outcome {
	return Outcome{kind: OutcomeFailure, failure: f}
}

func (o Outcome) Kind() OutcomeKind { return o.kind }

// DataURI は Image の場合のデータURIを返すのだ。
func (o Outcome) DataURI() string { return o.dataURI }

// Text は Text の場合の本文を返すのだ。
func (o Outcome) Text() string { return o.text }

// Failure は Failure の場合の詳細を返すのだ。それ以外は nil なのだ。
func (o Outcome) Failure() *Failure { return o.failure }

// Err は Failure の場合にエラーとして返すのだ。
func (o Outcome) Err() error {
	if o.failure == nil {
		return nil
	}
	return o.failure
}
