package pipeline

import "strings"

// languageNames maps the ISO 639-1 codes the transcriber emits to display
// names for status messages.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
	"pl": "Polish",
	"ru": "Russian",
	"uk": "Ukrainian",
	"tr": "Turkish",
	"ar": "Arabic",
	"hi": "Hindi",
	"id": "Indonesian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
}

// languageName resolves a code to a display name, falling back to the
// upper-cased code for anything outside the table.
func languageName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexByte(code, '-'); i > 0 {
		code = code[:i]
	}
	if name, ok := languageNames[code]; ok {
		return name
	}
	return strings.ToUpper(code)
}
