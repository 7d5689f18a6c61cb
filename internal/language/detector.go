// Package language infers the user's natural language from message text.
// Detection runs once per turn for every modality, so a transcribed voice
// note and a typed message are treated identically downstream.
package language

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// Supported reply languages, as BCP-47 tags.
var (
	English    = language.MustParse("en-US")
	Urdu       = language.MustParse("ur-PK")
	Arabic     = language.MustParse("ar-SA")
	Hindi      = language.MustParse("hi-IN")
	Chinese    = language.MustParse("zh-CN")
	Japanese   = language.MustParse("ja-JP")
	Korean     = language.MustParse("ko-KR")
	Russian    = language.MustParse("ru-RU")
	Greek      = language.MustParse("el-GR")
	Thai       = language.MustParse("th-TH")
	Spanish    = language.MustParse("es-ES")
	French     = language.MustParse("fr-FR")
	German     = language.MustParse("de-DE")
	Italian    = language.MustParse("it-IT")
	Portuguese = language.MustParse("pt-PT")
)

// Letters that exist in Urdu script but not in standard Arabic. One hit is
// enough to prefer ur-PK over ar-SA for Arabic-script text.
var urduMarkers = map[rune]struct{}{
	'ٹ': {}, 'ڈ': {}, 'ڑ': {}, 'ں': {}, 'ے': {}, 'پ': {}, 'چ': {}, 'گ': {}, 'ژ': {},
}

var latinStopwords = map[string]language.Tag{
	// Spanish
	"hola": Spanish, "vuelo": Spanish, "quiero": Spanish, "gracias": Spanish, "desde": Spanish, "hasta": Spanish,
	// French
	"bonjour": French, "vol": French, "je": French, "merci": French, "voudrais": French, "vers": French,
	// German
	"hallo": German, "flug": German, "ich": German, "danke": German, "nach": German, "möchte": German,
	// Italian
	"ciao": Italian, "volo": Italian, "vorrei": Italian, "grazie": Italian, "verso": Italian,
	// Portuguese
	"olá": Portuguese, "voo": Portuguese, "obrigado": Portuguese, "quero": Portuguese,
}

// Detect returns the BCP-47 tag for the message text. Non-Latin scripts are
// decided by codepoint ranges; Latin text falls back to stopword votes and
// defaults to en-US. The result is deterministic for a given input.
func Detect(text string) language.Tag {
	text = strings.TrimSpace(text)
	if text == "" {
		return English
	}

	var arabic, devanagari, han, kana, hangul, cyrillic, greek, thai int
	urdu := false
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Arabic, r):
			arabic++
			if _, ok := urduMarkers[r]; ok {
				urdu = true
			}
		case unicode.Is(unicode.Devanagari, r):
			devanagari++
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			kana++
		case unicode.Is(unicode.Hangul, r):
			hangul++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Greek, r):
			greek++
		case unicode.Is(unicode.Thai, r):
			thai++
		}
	}

	switch {
	case kana > 0:
		return Japanese
	case han > 0:
		return Chinese
	case hangul > 0:
		return Korean
	case arabic > 0 && urdu:
		return Urdu
	case arabic > 0:
		return Arabic
	case devanagari > 0:
		return Hindi
	case cyrillic > 0:
		return Russian
	case greek > 0:
		return Greek
	case thai > 0:
		return Thai
	}

	votes := make(map[language.Tag]int)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?¿¡:;\"'")
		if tag, ok := latinStopwords[word]; ok {
			votes[tag]++
		}
	}

	best := English
	bestVotes := 0
	for tag, n := range votes {
		if n > bestVotes {
			best, bestVotes = tag, n
		}
	}
	if bestVotes >= 2 {
		return best
	}
	return English
}
