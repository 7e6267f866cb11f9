// Package textnorm provides language detection and script-aware text
// normalization for English and Arabic question text.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

// Language identifies the script of a text.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageAuto    Language = "auto"
)

// arabicRatioThreshold is the share of Arabic letters above which a text is
// treated as Arabic.
const arabicRatioThreshold = 0.3

// minTokenLength is the shortest token (in runes) kept after normalization.
const minTokenLength = 3

// Document is the normalized form of a record question or a raw query.
// It is derived on demand and never persisted.
type Document struct {
	ID          string
	Language    Language
	Tokens      []string
	CleanedText string
}

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	// Everything outside word characters, whitespace and the Arabic blocks is
	// replaced by a space so punctuation acts as a token boundary.
	specialPattern    = regexp.MustCompile(`[^\w\s\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	// Arabic diacritical marks (harakat), the superscript alef and tatweel.
	arabicMarkPattern = regexp.MustCompile(`[\x{064B}-\x{0652}\x{0670}\x{0640}]`)
)

// arabicLetterforms unifies variant letterforms onto their base forms.
var arabicLetterforms = strings.NewReplacer(
	"أ", "ا", // alef with hamza above
	"إ", "ا", // alef with hamza below
	"آ", "ا", // alef with madda
	"ة", "ه", // taa marbuta -> haa
	"ى", "ي", // alef maksura -> yaa
)

// DetectLanguage returns LanguageArabic when the share of Arabic letters
// among all alphabetic runes exceeds 0.3, and LanguageEnglish otherwise.
// Empty or non-alphabetic text defaults to English.
func DetectLanguage(text string) Language {
	if text == "" {
		return LanguageEnglish
	}

	arabicChars := 0
	totalChars := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			totalChars++
		}
		if r >= 0x0600 && r <= 0x06FF {
			arabicChars++
		}
	}

	if totalChars == 0 {
		return LanguageEnglish
	}

	if float64(arabicChars)/float64(totalChars) > arabicRatioThreshold {
		return LanguageArabic
	}
	return LanguageEnglish
}

// Normalize cleans and tokenizes text for the given language. LanguageAuto
// (or empty) triggers detection. Malformed or empty input yields a Document
// with no tokens rather than an error; callers treat that as "no match".
func Normalize(text string, lang Language) Document {
	if lang == LanguageAuto || lang == "" {
		lang = DetectLanguage(text)
	}

	cleaned := cleanText(text)

	var tokens []string
	if lang == LanguageArabic {
		tokens = normalizeArabic(cleaned)
	} else {
		tokens = normalizeEnglish(cleaned)
	}

	return Document{
		Language:    lang,
		Tokens:      tokens,
		CleanedText: strings.Join(tokens, " "),
	}
}

// NormalizeRecord is Normalize carrying the originating record id.
func NormalizeRecord(id, text string, lang Language) Document {
	doc := Normalize(text, lang)
	doc.ID = id
	return doc
}

// cleanText strips HTML tags, URLs, email addresses and special characters,
// collapsing runs of whitespace.
func cleanText(text string) string {
	if text == "" {
		return ""
	}

	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = urlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")
	text = specialPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

func normalizeEnglish(text string) []string {
	text = strings.ToLower(text)

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len([]rune(tok)) < minTokenLength {
			continue
		}
		if _, ok := englishStopwords[tok]; ok {
			continue
		}
		tokens = append(tokens, Stem(tok))
	}

	return tokens
}

func normalizeArabic(text string) []string {
	text = arabicMarkPattern.ReplaceAllString(text, "")
	text = arabicLetterforms.Replace(text)

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len([]rune(tok)) < minTokenLength {
			continue
		}
		if _, ok := arabicStopwords[tok]; ok {
			continue
		}
		tokens = append(tokens, tok)
	}

	return tokens
}
