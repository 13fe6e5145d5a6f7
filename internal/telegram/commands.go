package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"scanlate/internal/domain"
	"scanlate/internal/lang"
	"scanlate/internal/settings"
)

const welcomeText = `👋 Hi! Send me a photo with text and I will read it, clean it up and translate it for you. Plain text messages get translated directly.

Commands:
/settings — show your current preferences
/setlang <target> [source] — choose translation languages
/languages — list supported languages
/engine llm|google — pick the translation engine
/improve on|off — toggle OCR text cleanup
/help — this message`

func (b *Bot) handleCommand(msg *tgbotapi.Message, us settings.UserSettings) domain.Outbound {
	userID := senderID(msg)
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		return domain.Outbound{Text: welcomeText, Format: domain.FormatPlain}

	case "settings":
		return domain.Outbound{Text: formatSettings(us), Format: domain.FormatPlain}

	case "languages":
		return domain.Outbound{Text: formatLanguages(), Format: domain.FormatPlain}

	case "setlang":
		updated, err := applySetLang(args, b.store, userID)
		if err != nil {
			return domain.Outbound{Text: err.Error(), Format: domain.FormatPlain}
		}
		return domain.Outbound{
			Text:   fmt.Sprintf("Languages updated.\n%s", formatSettings(updated)),
			Format: domain.FormatPlain,
		}

	case "engine":
		if len(args) != 1 || (args[0] != "llm" && args[0] != "google") {
			return domain.Outbound{Text: "Usage: /engine llm or /engine google", Format: domain.FormatPlain}
		}
		useLLM := args[0] == "llm"
		b.store.Update(userID, func(s *settings.UserSettings) { s.UseLLMTranslation = useLLM })
		return domain.Outbound{Text: fmt.Sprintf("Translation engine set to %s.", args[0]), Format: domain.FormatPlain}

	case "improve":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return domain.Outbound{Text: "Usage: /improve on or /improve off", Format: domain.FormatPlain}
		}
		enable := args[0] == "on"
		b.store.Update(userID, func(s *settings.UserSettings) { s.ImproveExtractedText = enable })
		state := "disabled"
		if enable {
			state = "enabled"
		}
		return domain.Outbound{Text: fmt.Sprintf("OCR text cleanup %s.", state), Format: domain.FormatPlain}

	default:
		return domain.Outbound{Text: "Unknown command. /help lists what I understand.", Format: domain.FormatPlain}
	}
}

// applySetLang validates the /setlang arguments and stores them. The first
// argument is the target language, the optional second the source.
func applySetLang(args []string, store *settings.Store, userID int64) (settings.UserSettings, error) {
	if len(args) < 1 || len(args) > 2 {
		return settings.UserSettings{}, fmt.Errorf("Usage: /setlang <target> [source], e.g. /setlang german or /setlang en russian")
	}

	target := lang.Code(args[0])
	if !lang.Known(target) {
		return settings.UserSettings{}, fmt.Errorf("I don't know the language %q. /languages lists what I support.", args[0])
	}

	source := lang.Auto
	if len(args) == 2 {
		source = lang.Code(args[1])
		if source != lang.Auto && !lang.Known(source) {
			return settings.UserSettings{}, fmt.Errorf("I don't know the language %q. /languages lists what I support.", args[1])
		}
	}

	return store.Update(userID, func(s *settings.UserSettings) {
		s.TargetLanguage = target
		s.SourceLanguage = source
	}), nil
}

func formatSettings(us settings.UserSettings) string {
	engine := "google"
	if us.UseLLMTranslation {
		engine = "llm"
	}
	improve := "off"
	if us.ImproveExtractedText {
		improve = "on"
	}
	source := us.SourceLanguage
	if source != lang.Auto {
		source = lang.Name(source)
	}
	return fmt.Sprintf("⚙️ Your settings:\n• target language: %s\n• source language: %s\n• translation engine: %s\n• OCR cleanup: %s",
		lang.Name(us.TargetLanguage), source, engine, improve)
}

func formatLanguages() string {
	var sb strings.Builder
	sb.WriteString("🌍 Supported languages:\n")
	for _, name := range lang.Names() {
		fmt.Fprintf(&sb, "• %s (%s)\n", name, lang.Code(name))
	}
	sb.WriteString("\nUse /setlang <target> [source]. Source \"auto\" means detect.")
	return sb.String()
}

// splitMessage breaks text into chunks of at most limit bytes, preferring
// newline boundaries so formatted sections stay intact. Hard cuts back up
// to a rune boundary so no chunk carries a torn multi-byte character.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		chunks = append(chunks, strings.TrimRight(text[:cut], "\n"))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
