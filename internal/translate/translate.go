// Package translate orchestrates two interchangeable translation backends
// with a single silent retry on the secondary when the primary fails.
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"scanlate/internal/domain"
	"scanlate/internal/lang"
)

// MethodNoop marks results where translation was skipped because source and
// target already matched.
const MethodNoop = "no-op"

// Result is one backend's answer. DetectedSource is set when the backend
// learned the source language as a side effect (empty otherwise).
type Result struct {
	Text           string
	DetectedSource string
}

// Backend is one translation capability.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (Result, error)
}

// Detector identifies the language of a text, returning a code.
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

// Service tries the primary backend, then the secondary once; a second
// failure is returned as the secondary's failure result.
type Service struct {
	primary   Backend
	secondary Backend
	detector  Detector
	log       zerolog.Logger
}

// NewService wires the two backends and an optional detector.
func NewService(primary, secondary Backend, detector Detector, log zerolog.Logger) *Service {
	return &Service{primary: primary, secondary: secondary, detector: detector, log: log}
}

// Translate normalizes the language identifiers, short-circuits
// same-language requests, and applies the primary/secondary fallback.
// It never returns an error: failures come back as a failed result carrying
// the original text.
func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) domain.TranslationResult {
	if strings.TrimSpace(text) == "" {
		return domain.TranslationFailure(text, "none", "empty text for translation")
	}

	source := lang.Code(sourceLang)
	target := lang.Code(targetLang)

	// An exact code match is a no-op; "auto" still needs detection because
	// the user never declared a source.
	if source == lang.Auto {
		if detected := s.detect(ctx, text); detected != "" {
			source = detected
		}
	}
	if source != lang.Auto && source == target {
		return domain.TranslationResult{
			Success:        true,
			OriginalText:   text,
			TranslatedText: text,
			SourceLanguage: source,
			TargetLanguage: target,
			Method:         MethodNoop,
		}
	}

	res, backend, err := s.translateWithFallback(ctx, text, source, target)
	if err != nil {
		s.log.Error().Err(err).Str("backend", backend).Msg("translation exhausted both backends")
		return domain.TranslationFailure(text, backend, err.Error())
	}

	if res.DetectedSource != "" {
		source = lang.Code(res.DetectedSource)
	}

	s.log.Info().Str("backend", backend).Str("source", source).Str("target", target).Msg("text translated")
	return domain.TranslationResult{
		Success:        true,
		OriginalText:   text,
		TranslatedText: res.Text,
		SourceLanguage: source,
		TargetLanguage: target,
		Method:         backend,
	}
}

func (s *Service) translateWithFallback(ctx context.Context, text, source, target string) (Result, string, error) {
	res, err := s.primary.Translate(ctx, text, source, target)
	if err == nil {
		return res, s.primary.Name(), nil
	}
	s.log.Warn().Err(err).Str("backend", s.primary.Name()).Msg("primary translation backend failed, retrying with secondary")

	res, err = s.secondary.Translate(ctx, text, source, target)
	if err != nil {
		return Result{}, s.secondary.Name(), err
	}
	return res, s.secondary.Name(), nil
}

// FallbackDetector asks the primary detector first and the secondary only
// when the primary fails or is absent.
type FallbackDetector struct {
	primary   Detector
	secondary Detector
}

// NewFallbackDetector chains two detectors; either may be nil.
func NewFallbackDetector(primary, secondary Detector) *FallbackDetector {
	return &FallbackDetector{primary: primary, secondary: secondary}
}

// Detect implements Detector.
func (f *FallbackDetector) Detect(ctx context.Context, text string) (string, error) {
	var firstErr error
	if f.primary != nil {
		code, err := f.primary.Detect(ctx, text)
		if err == nil {
			return code, nil
		}
		firstErr = err
	}
	if f.secondary != nil {
		return f.secondary.Detect(ctx, text)
	}
	if firstErr != nil {
		return "", firstErr
	}
	return "", fmt.Errorf("no language detector configured")
}

// detect runs the configured detector, treating any failure as "unknown".
func (s *Service) detect(ctx context.Context, text string) string {
	if s.detector == nil {
		return ""
	}
	code, err := s.detector.Detect(ctx, text)
	if err != nil {
		s.log.Warn().Err(err).Msg("language detection failed")
		return ""
	}
	return lang.Code(code)
}

// Detect exposes detection for callers outside the translate flow.
func (s *Service) Detect(ctx context.Context, text string) string {
	return s.detect(ctx, text)
}
