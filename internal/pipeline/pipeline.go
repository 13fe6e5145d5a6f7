// Package pipeline sequences extract → improve → translate for one inbound
// update and formats the single outbound reply. Every stage call is wrapped
// so a failure downgrades the reply instead of aborting it.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"scanlate/internal/domain"
	"scanlate/internal/events"
	"scanlate/internal/improve"
	"scanlate/internal/lang"
	"scanlate/internal/settings"
)

// Extractor produces text from image bytes.
type Extractor interface {
	Extract(ctx context.Context, image []byte) domain.ExtractionResult
}

// Translator produces a translation result, applying its own backend
// fallback internally.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) domain.TranslationResult
}

// Coordinator owns the per-update pipeline. It is stateless per call aside
// from reading the settings passed in.
type Coordinator struct {
	extractor     Extractor
	improver      improve.Improver
	translator    Translator
	llmTranslator Translator
	sink          events.Sink

	maxImageBytes int64
	maxTextLen    int
	log           zerolog.Logger
}

// Deps collects the capabilities the Coordinator is constructed over.
// Improver and Sink may be nil; null implementations are substituted.
type Deps struct {
	Extractor Extractor
	Improver  improve.Improver
	// Translator serves users who switched LLM translation off.
	// LLMTranslator, when non-nil, serves users who keep it on.
	Translator    Translator
	LLMTranslator Translator
	Sink          events.Sink

	MaxImageBytes int64
	MaxTextLen    int
	Log           zerolog.Logger
}

// New wires a Coordinator.
func New(deps Deps) *Coordinator {
	if deps.Improver == nil {
		deps.Improver = improve.Noop{}
	}
	if deps.Sink == nil {
		deps.Sink = events.Nop{}
	}
	return &Coordinator{
		extractor:     deps.Extractor,
		improver:      deps.Improver,
		translator:    deps.Translator,
		llmTranslator: deps.LLMTranslator,
		sink:          deps.Sink,
		maxImageBytes: deps.MaxImageBytes,
		maxTextLen:    deps.MaxTextLen,
		log:           deps.Log,
	}
}

// HandleImage runs the full pipeline for a photo update. It always returns
// a user-displayable message and never panics or propagates errors.
func (c *Coordinator) HandleImage(ctx context.Context, image []byte, caption string, us settings.UserSettings) domain.Outbound {
	if len(image) == 0 {
		return plain("I received an empty image. Please send the photo again.")
	}
	if c.maxImageBytes > 0 && int64(len(image)) > c.maxImageBytes {
		// Rejected before the extractor ever runs.
		return plain(fmt.Sprintf("The image is too large (%d bytes, limit %d). Please send a smaller one.", len(image), c.maxImageBytes))
	}

	ext := c.extractor.Extract(ctx, image)
	c.record(ctx, "extract", ext.Method, ext.Success, ext.Error)
	if !ext.Success || strings.TrimSpace(ext.Text) == "" {
		return plain("No text found in the image.")
	}

	text := ext.Text
	improvedRan := false
	if us.ImproveExtractedText {
		improved, err := c.improver.Improve(ctx, text)
		if err != nil {
			// The improver never blocks the pipeline; carry on with the
			// raw extraction.
			c.log.Warn().Err(err).Msg("text improvement failed, keeping raw OCR output")
			c.record(ctx, "improve", c.improver.Name(), false, err.Error())
		} else if strings.TrimSpace(improved) != "" {
			improvedRan = improved != text
			text = improved
			c.record(ctx, "improve", c.improver.Name(), true, "")
		}
	}

	var sb strings.Builder
	if caption != "" {
		fmt.Fprintf(&sb, "🖼 %s\n\n", caption)
	}
	fmt.Fprintf(&sb, "📝 Extracted text (%s, confidence %d):\n%s", ext.Method, ext.Confidence, ext.Text)
	if improvedRan {
		fmt.Fprintf(&sb, "\n\n✨ Improved text:\n%s", text)
	}

	tr := c.pickTranslator(us).Translate(ctx, text, us.SourceLanguage, us.TargetLanguage)
	c.record(ctx, "translate", tr.Method, tr.Success, tr.Error)
	switch {
	case tr.Success && tr.Method != "no-op":
		fmt.Fprintf(&sb, "\n\n🔄 Translation (%s → %s, %s):\n%s",
			lang.Name(tr.SourceLanguage), lang.Name(tr.TargetLanguage), tr.Method, tr.TranslatedText)
	case !tr.Success:
		sb.WriteString("\n\n⚠️ Translation failed; showing the untranslated text.")
	}

	return rich(sb.String())
}

// HandleText translates a plain text update.
func (c *Coordinator) HandleText(ctx context.Context, text string, us settings.UserSettings) domain.Outbound {
	if strings.TrimSpace(text) == "" {
		return plain("Send me some text to translate, or a photo to read.")
	}
	if c.maxTextLen > 0 && len(text) > c.maxTextLen {
		// Rejected before any backend call.
		return plain(fmt.Sprintf("That text is too long (%d characters, limit %d).", len(text), c.maxTextLen))
	}

	tr := c.pickTranslator(us).Translate(ctx, text, us.SourceLanguage, us.TargetLanguage)
	c.record(ctx, "translate", tr.Method, tr.Success, tr.Error)

	switch {
	case tr.Success && tr.Method == "no-op":
		return rich(fmt.Sprintf("ℹ️ The text is already in %s:\n%s", lang.Name(tr.TargetLanguage), tr.TranslatedText))
	case tr.Success:
		return rich(fmt.Sprintf("🔄 Translation (%s → %s, %s):\n%s",
			lang.Name(tr.SourceLanguage), lang.Name(tr.TargetLanguage), tr.Method, tr.TranslatedText))
	default:
		// Exhausted fallback still hands the user their original text.
		return rich(fmt.Sprintf("⚠️ Translation failed (%s). Your original text:\n%s", tr.Error, tr.OriginalText))
	}
}

func (c *Coordinator) pickTranslator(us settings.UserSettings) Translator {
	if us.UseLLMTranslation && c.llmTranslator != nil {
		return c.llmTranslator
	}
	return c.translator
}

func (c *Coordinator) record(ctx context.Context, stage, method string, success bool, detail string) {
	m := events.MetaFrom(ctx)
	c.sink.Record(ctx, events.StageEvent{
		UserID:    m.UserID,
		RequestID: m.RequestID,
		Stage:     stage,
		Method:    method,
		Success:   success,
		Detail:    detail,
	})
}

func plain(text string) domain.Outbound {
	return domain.Outbound{Text: text, Format: domain.FormatPlain}
}

func rich(text string) domain.Outbound {
	return domain.Outbound{Text: text, Format: domain.FormatRich}
}
