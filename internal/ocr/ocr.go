// Package ocr extracts text from image bytes through one or more
// interchangeable backends.
package ocr

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"scanlate/internal/domain"
)

// Backend is one extraction capability. Implementations return the raw
// recognized text; empty text without an error means "nothing found".
type Backend interface {
	Name() string
	Extract(ctx context.Context, image []byte) (string, error)
}

// Service fans an image over every configured backend and keeps the longest
// non-empty text. Output length is a proxy for recognition quality, not a
// real confidence score; ties keep the earlier backend.
type Service struct {
	backends   []Backend
	preprocess bool
	log        zerolog.Logger
}

// NewService builds a Service over the given backends, in priority order.
func NewService(backends []Backend, preprocess bool, log zerolog.Logger) *Service {
	return &Service{backends: backends, preprocess: preprocess, log: log}
}

// Extract runs the configured backends and returns the best result. It never
// returns an error to the caller: failures come back as a failed result.
func (s *Service) Extract(ctx context.Context, image []byte) domain.ExtractionResult {
	if len(image) == 0 {
		return domain.ExtractionFailure("none", "empty image payload")
	}
	if len(s.backends) == 0 {
		return domain.ExtractionFailure("none", "no OCR backend configured")
	}

	input := image
	if s.preprocess {
		processed, err := Preprocess(image)
		if err != nil {
			// Preprocessing is best effort; OCR still runs on the original.
			s.log.Warn().Err(err).Msg("image preprocessing failed, using original")
		} else {
			input = processed
		}
	}

	var bestText, bestMethod string
	for _, b := range s.backends {
		if ctx.Err() != nil {
			return domain.ExtractionFailure(b.Name(), ctx.Err().Error())
		}

		text, err := b.Extract(ctx, input)
		if err != nil {
			s.log.Warn().Err(err).Str("backend", b.Name()).Msg("OCR backend failed")
			continue
		}

		text = CleanText(text)
		if text == "" {
			s.log.Debug().Str("backend", b.Name()).Msg("OCR backend found no text")
			continue
		}
		if len(text) > len(bestText) {
			bestText = text
			bestMethod = b.Name()
		}
	}

	if bestText == "" {
		return domain.ExtractionFailure("none", "no text recognized in image")
	}

	s.log.Info().Str("backend", bestMethod).Int("length", len(bestText)).Msg("text extracted")
	return domain.ExtractionResult{
		Success:    true,
		Text:       bestText,
		Confidence: confidence(bestText),
		Method:     bestMethod,
	}
}

// confidence derives the diagnostic confidence value from output length
// only, clamped to 50..100.
func confidence(text string) int {
	c := 2 * len(text)
	if c > 100 {
		return 100
	}
	if c < 50 {
		return 50
	}
	return c
}

// CleanText strips common OCR artifacts while leaving numbers, dates and
// table-like spacing untouched.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		line = strings.Map(func(r rune) rune {
			switch r {
			case '~', '`':
				return -1
			}
			return r
		}, line)

		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
			line = ""
		} else {
			blanks = 0
		}
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
