package speech

import "strings"

// Voice is a platform speech voice.
type Voice struct {
	Name   string // platform identifier passed to the speech binary
	Locale string // locale tag, e.g. "te-IN"
}

// regionalFallbacks maps a base language to locales whose voices read it
// acceptably when no dedicated voice exists. South Indian languages share
// regional voices; Hindi is the broadest Indic fallback.
var regionalFallbacks = map[string][]string{
	"te": {"te-IN", "hi-IN", "ta-IN"},
	"ta": {"ta-IN", "te-IN", "hi-IN"},
	"kn": {"kn-IN", "te-IN", "hi-IN"},
	"ml": {"ml-IN", "ta-IN", "hi-IN"},
	"hi": {"hi-IN", "en-IN"},
}

// ResolveVoice picks a voice for the requested language. The cascade is:
// exact locale match, language-prefix match, curated regional fallback,
// any voice for the base language, then the first available voice.
func ResolveVoice(language string, voices []Voice) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}

	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return voices[0], true
	}

	if v, ok := matchLocale(lang, voices); ok {
		return v, true
	}
	if v, ok := matchPrefix(lang, voices); ok {
		return v, true
	}
	for _, locale := range regionalFallbacks[baseLanguage(lang)] {
		if v, ok := matchLocale(locale, voices); ok {
			return v, true
		}
		if v, ok := matchPrefix(locale, voices); ok {
			return v, true
		}
	}
	base := baseLanguage(lang)
	for _, v := range voices {
		if baseLanguage(v.Locale) == base {
			return v, true
		}
	}
	return voices[0], true
}

func matchLocale(locale string, voices []Voice) (Voice, bool) {
	for _, v := range voices {
		if strings.EqualFold(v.Locale, locale) {
			return v, true
		}
	}
	return Voice{}, false
}

func matchPrefix(lang string, voices []Voice) (Voice, bool) {
	prefix := strings.ToLower(lang) + "-"
	for _, v := range voices {
		if strings.HasPrefix(strings.ToLower(v.Locale), prefix) {
			return v, true
		}
	}
	return Voice{}, false
}

func baseLanguage(tag string) string {
	tag = strings.ToLower(tag)
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		return tag[:i]
	}
	return tag
}
