package config

import "testing"

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when bot token is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TRANSLATION_SERVICE", "")
	t.Setenv("MAX_IMAGE_SIZE", "")
	t.Setenv("OCR_BACKENDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxImageSize != 10*1024*1024 {
		t.Errorf("unexpected max image size: %d", cfg.MaxImageSize)
	}
	if cfg.DefaultTargetLang != "en" || cfg.DefaultSourceLang != "auto" {
		t.Errorf("unexpected default languages: %q / %q", cfg.DefaultSourceLang, cfg.DefaultTargetLang)
	}
	if len(cfg.OCRBackends) != 3 || cfg.OCRBackends[0] != "tesseract" {
		t.Errorf("unexpected OCR backend order: %v", cfg.OCRBackends)
	}
	if cfg.TranslationService != "google" {
		t.Errorf("unexpected default translation service: %q", cfg.TranslationService)
	}
}

func TestLoadRejectsUnknownTranslationService(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TRANSLATION_SERVICE", "babelfish")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown translation service")
	}
}

func TestFormatSupported(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TRANSLATION_SERVICE", "google")
	t.Setenv("SUPPORTED_IMAGE_FORMATS", "jpg,png")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.FormatSupported(".JPG") || !cfg.FormatSupported("png") {
		t.Error("expected jpg and png to be supported")
	}
	if cfg.FormatSupported("gif") {
		t.Error("expected gif to be unsupported")
	}
}
