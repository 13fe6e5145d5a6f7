// Package domain holds the result and message types passed between
// pipeline stages.
package domain

// ExtractionResult is produced once per image by the text extractor and
// consumed immediately by the pipeline. Confidence is a length heuristic,
// not a calibrated probability; callers must not threshold on it.
type ExtractionResult struct {
	Success    bool
	Text       string
	Confidence int // 0..100
	Method     string
	Error      string
}

// ExtractionFailure builds a failed result that still names the backend
// (or stage) that produced it.
func ExtractionFailure(method, errMsg string) ExtractionResult {
	return ExtractionResult{Success: false, Method: method, Error: errMsg}
}

// TranslationResult is produced once per text payload. Method names the
// backend that actually answered, even after fallback.
type TranslationResult struct {
	Success        bool
	OriginalText   string
	TranslatedText string
	SourceLanguage string
	TargetLanguage string
	Method         string
	Error          string
}

// TranslationFailure builds a failed result carrying the original text so
// the caller is never left with nothing to show.
func TranslationFailure(original, method, errMsg string) TranslationResult {
	return TranslationResult{
		Success:      false,
		OriginalText: original,
		Method:       method,
		Error:        errMsg,
	}
}

// Outbound is the single reply the pipeline hands back to the transport.
type Outbound struct {
	Text   string
	Format Format
}

// Format selects how the transport should render the outbound text.
type Format string

const (
	FormatPlain Format = "plain"
	FormatRich  Format = "rich"
)
