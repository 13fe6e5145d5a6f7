package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanlate/internal/settings"
)

func TestApplySetLangTargetOnly(t *testing.T) {
	store := settings.NewStore(settings.Defaults("auto", "en"))

	us, err := applySetLang([]string{"german"}, store, 7)

	require.NoError(t, err)
	assert.Equal(t, "de", us.TargetLanguage)
	assert.Equal(t, "auto", us.SourceLanguage)
	assert.Equal(t, "de", store.Get(7).TargetLanguage)
}

func TestApplySetLangTargetAndSource(t *testing.T) {
	store := settings.NewStore(settings.Defaults("auto", "en"))

	us, err := applySetLang([]string{"en", "russian"}, store, 7)

	require.NoError(t, err)
	assert.Equal(t, "en", us.TargetLanguage)
	assert.Equal(t, "ru", us.SourceLanguage)
}

func TestApplySetLangUnknownLanguage(t *testing.T) {
	store := settings.NewStore(settings.Defaults("auto", "en"))

	_, err := applySetLang([]string{"klingon"}, store, 7)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "klingon")
	assert.Equal(t, "en", store.Get(7).TargetLanguage)
}

func TestApplySetLangBadArgCount(t *testing.T) {
	store := settings.NewStore(settings.Defaults("auto", "en"))

	_, err := applySetLang(nil, store, 7)
	require.Error(t, err)

	_, err = applySetLang([]string{"en", "de", "fr"}, store, 7)
	require.Error(t, err)
}

func TestSenderIDFallsBackToChat(t *testing.T) {
	withFrom := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 99},
		Chat: &tgbotapi.Chat{ID: 1234},
	}
	assert.Equal(t, int64(99), senderID(withFrom))

	anonymous := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1234}}
	assert.Equal(t, int64(1234), senderID(anonymous))
}

func TestFormatSettings(t *testing.T) {
	us := settings.UserSettings{
		TargetLanguage:       "de",
		SourceLanguage:       "auto",
		UseLLMTranslation:    false,
		ImproveExtractedText: true,
	}

	out := formatSettings(us)

	assert.Contains(t, out, "target language: german")
	assert.Contains(t, out, "source language: auto")
	assert.Contains(t, out, "engine: google")
	assert.Contains(t, out, "cleanup: on")
}

func TestFormatLanguagesListsCodes(t *testing.T) {
	out := formatLanguages()

	assert.Contains(t, out, "english (en)")
	assert.Contains(t, out, "japanese (ja)")
}

func TestSplitMessageShortTextUntouched(t *testing.T) {
	chunks := splitMessage("hello", 4000)

	assert.Equal(t, []string{"hello"}, chunks)
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	text := strings.Repeat("line one\n", 3) + "tail"

	chunks := splitMessage(text, 20)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 20)
	}
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "tail"))
}

func TestSplitMessageKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("привет", 10)

	chunks := splitMessage(text, 25)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d is not valid UTF-8: %q", i, c)
		assert.LessOrEqual(t, len(c), 25)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitMessageHardCutWithoutNewlines(t *testing.T) {
	text := strings.Repeat("a", 45)

	chunks := splitMessage(text, 20)

	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("a", 20), chunks[0])
	assert.Equal(t, strings.Repeat("a", 5), chunks[2])
}
