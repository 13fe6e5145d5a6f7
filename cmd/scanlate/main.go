package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"scanlate/internal/config"
	"scanlate/internal/events"
	"scanlate/internal/improve"
	"scanlate/internal/logging"
	"scanlate/internal/ocr"
	"scanlate/internal/openai"
	"scanlate/internal/pipeline"
	"scanlate/internal/settings"
	"scanlate/internal/telegram"
	"scanlate/internal/translate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Fatal().Err(err).Msg("configuration error")
	}
	log := logging.New(cfg.LogLevel)
	log.Info().Msg("starting scanlate bot")

	httpClient := &http.Client{Timeout: cfg.NetworkTimeout}

	var llm *openai.Client
	if cfg.OpenAIAPIKey != "" {
		opts := []openai.Option{
			openai.WithAPIKey(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.OpenAIModel),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		llm, err = openai.NewClient(opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("openai client init failed")
		}
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, LLM vision, improvement and translation disabled")
	}

	extractor := ocr.NewService(buildOCRBackends(cfg, llm, httpClient, log), true, log)

	var improver improve.Improver = improve.Noop{}
	if cfg.ImproveText && llm != nil {
		improver = improve.NewLLM(llm)
	}

	google := translate.NewGoogle(httpClient)
	var llmBackend translate.Backend = translate.NewUnavailable("llm")
	if llm != nil {
		llmBackend = translate.NewLLM(llm)
	}

	var detector translate.Detector = google
	if llm != nil {
		detector = translate.NewFallbackDetector(google, translate.NewLLM(llm))
	}

	// Both orderings share the same backends; user settings pick per update.
	googleFirst := translate.NewService(google, llmBackend, detector, log)
	llmFirst := translate.NewService(llmBackend, google, detector, log)

	var sink events.Sink = events.Nop{}
	if cfg.RedisAddr != "" {
		redisSink, err := events.NewRedisSink(cfg.RedisAddr, cfg.StageEventQueue, log)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, stage events disabled")
		} else {
			defer redisSink.Close()
			sink = redisSink
		}
	}

	coord := pipeline.New(pipeline.Deps{
		Extractor:     extractor,
		Improver:      improver,
		Translator:    googleFirst,
		LLMTranslator: llmFirst,
		Sink:          sink,
		MaxImageBytes: cfg.MaxImageSize,
		MaxTextLen:    cfg.MaxTextLength,
		Log:           log,
	})

	defaults := settings.Defaults(cfg.DefaultSourceLang, cfg.DefaultTargetLang)
	defaults.UseLLMTranslation = cfg.TranslationService == "llm" && llm != nil
	defaults.ImproveExtractedText = cfg.ImproveText && llm != nil
	store := settings.NewStore(defaults)

	bot, err := telegram.New(cfg, coord, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("bot init failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("bot stopped")
	}
	log.Info().Msg("shutdown complete")
}

// buildOCRBackends honours the configured order; earlier backends win
// length ties in the extractor.
func buildOCRBackends(cfg *config.Config, llm *openai.Client, httpClient *http.Client, log zerolog.Logger) []ocr.Backend {
	var backends []ocr.Backend
	for _, name := range cfg.OCRBackends {
		switch name {
		case "tesseract":
			backends = append(backends, ocr.NewTesseract(cfg.OCRLanguages))
		case "ocrspace":
			if cfg.OCRSpaceAPIKey == "" {
				log.Warn().Msg("OCRSPACE_API_KEY not set, skipping ocrspace backend")
				continue
			}
			backends = append(backends, ocr.NewOCRSpace(cfg.OCRSpaceAPIKey, ocrSpaceLanguage(cfg.OCRLanguages), httpClient))
		case "vision":
			if llm == nil {
				log.Warn().Msg("no LLM configured, skipping vision backend")
				continue
			}
			backends = append(backends, ocr.NewVision(llm))
		default:
			log.Warn().Str("backend", name).Msg("unknown OCR backend in OCR_BACKENDS")
		}
	}
	return backends
}

// ocrSpaceLanguage maps the first tesseract-style language to the code
// ocr.space expects. Both happen to use three-letter codes.
func ocrSpaceLanguage(languages []string) string {
	if len(languages) == 0 {
		return "eng"
	}
	return languages[0]
}
