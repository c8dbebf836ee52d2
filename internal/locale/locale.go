// Package locale maps BCP-47-ish language codes from the request to the
// phrasing the prompts and fallback messages need.
package locale

import "strings"

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"bn": "Bengali",
	"te": "Telugu",
	"mr": "Marathi",
	"ta": "Tamil",
	"gu": "Gujarati",
	"kn": "Kannada",
	"ml": "Malayalam",
	"pa": "Punjabi",
	"or": "Odia",
}

var unavailableMessages = map[string]string{
	"en": "Market intelligence could not be processed right now. Please try again later.",
	"hi": "बाज़ार जानकारी अभी उपलब्ध नहीं हो सकी। कृपया बाद में पुनः प्रयास करें।",
	"pa": "ਮਾਰਕੀਟ ਜਾਣਕਾਰੀ ਇਸ ਸਮੇਂ ਉਪਲਬਧ ਨਹੀਂ ਹੋ ਸਕੀ। ਕਿਰਪਾ ਕਰਕੇ ਬਾਅਦ ਵਿੱਚ ਦੁਬਾਰਾ ਕੋਸ਼ਿਸ਼ ਕਰੋ।",
}

// Name returns the English name of a language code, defaulting to English
// for unknown codes so prompts always carry a usable instruction.
func Name(code string) string {
	if name, ok := languageNames[normalize(code)]; ok {
		return name
	}
	return "English"
}

// Unavailable returns a localized "could not process" message.
func Unavailable(code string) string {
	if msg, ok := unavailableMessages[normalize(code)]; ok {
		return msg
	}
	return unavailableMessages["en"]
}

func normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return code
}
