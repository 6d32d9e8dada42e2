package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Bibliographic ISO 639-2 codes and English word forms that x/text does not
// resolve on its own.
var aliases = map[string]string{
	"fre":        "fr",
	"ger":        "de",
	"dut":        "nl",
	"chi":        "zh",
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"dutch":      "nl",
	"polish":     "pl",
}

// ToISO2 converts a language code, tag or English word to ISO 639-1.
// Returns empty string for empty or unrecognized input.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if mapped, ok := aliases[code]; ok {
		return mapped
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == xlanguage.No {
		return ""
	}
	value := base.String()
	if len(value) != 2 {
		return ""
	}
	return value
}

// DisplayName returns the English name for a recognized code. Empty input
// reads as automatic detection.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Auto-detect"
	}
	iso := ToISO2(code)
	if iso == "" {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	name := display.English.Languages().Name(xlanguage.Make(iso))
	if name == "" {
		return strings.ToUpper(iso)
	}
	return name
}

// Validate reports whether code is empty or resolves to an ISO 639-1 code.
func Validate(code string) error {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	if ToISO2(code) == "" {
		return fmt.Errorf("unrecognized language %q", code)
	}
	return nil
}
