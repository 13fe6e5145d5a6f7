// Package lang maps human-readable language names to ISO-639 style codes
// and back. Users type close variants of language names, so lookup is
// exact-match first with a substring fallback.
package lang

import (
	"sort"
	"strings"
)

// Auto is the sentinel source language meaning "detect it".
const Auto = "auto"

var nameToCode = map[string]string{
	"english":    "en",
	"russian":    "ru",
	"german":     "de",
	"french":     "fr",
	"spanish":    "es",
	"italian":    "it",
	"portuguese": "pt",
	"chinese":    "zh",
	"japanese":   "ja",
	"korean":     "ko",
	"arabic":     "ar",
	"turkish":    "tr",
	"polish":     "pl",
	"ukrainian":  "uk",
	"czech":      "cs",
	"dutch":      "nl",
	"swedish":    "sv",
	"norwegian":  "no",
	"danish":     "da",
	"finnish":    "fi",
	"greek":      "el",
	"hungarian":  "hu",
	"romanian":   "ro",
	"bulgarian":  "bg",
	"croatian":   "hr",
	"slovak":     "sk",
	"slovenian":  "sl",
	"estonian":   "et",
	"latvian":    "lv",
	"lithuanian": "lt",
	"hindi":      "hi",
	"vietnamese": "vi",
	"thai":       "th",
	"hebrew":     "he",
	"indonesian": "id",
}

var codeToName = func() map[string]string {
	m := make(map[string]string, len(nameToCode))
	for name, code := range nameToCode {
		m[code] = name
	}
	return m
}()

// sortedNames fixes the scan order for the substring fallback, so an
// identifier matching several names always resolves the same way.
var sortedNames = func() []string {
	out := make([]string, 0, len(nameToCode))
	for name := range nameToCode {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}()

// Code resolves a language identifier (name or code, any casing) to a code.
// Identifiers absent from the table pass through unchanged as a best-effort
// code.
func Code(identifier string) string {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" || id == Auto {
		return Auto
	}

	if _, ok := codeToName[id]; ok {
		return id
	}
	if code, ok := nameToCode[id]; ok {
		return code
	}

	// Tolerate truncated names such as "ukrain" or "portug" by substring
	// matching against the known names, first alphabetical match wins.
	for _, name := range sortedNames {
		if strings.Contains(name, id) || strings.Contains(id, name) {
			return nameToCode[name]
		}
	}

	return id
}

// Name returns the human-readable name for a code, or the upper-cased code
// when it is not in the table.
func Name(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if name, ok := codeToName[c]; ok {
		return name
	}
	return strings.ToUpper(c)
}

// Known reports whether the identifier resolves to a code in the table.
func Known(identifier string) bool {
	_, ok := codeToName[Code(identifier)]
	return ok
}

// Names returns the supported language names, sorted for stable display.
func Names() []string {
	out := make([]string, len(sortedNames))
	copy(out, sortedNames)
	return out
}
