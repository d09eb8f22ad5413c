package screening

import (
	"strings"
	"unicode"
)

var (
	consentYes = []string{"yes", "y", "yeah", "yep", "sure", "ok", "okay", "of course", "i agree", "i consent", "agree"}
	consentNo  = []string{"no", "n", "nope", "not", "don't", "dont", "do not", "decline", "refuse"}
)

// parseConsent reads a yes/no answer. A reply carrying both an affirmative and a
// negative phrase ("yes, no problem", "I do not agree") stays pending and is asked
// again, as does anything unrecognised.
func parseConsent(input string) ConsentStatus {
	input = strings.ReplaceAll(strings.ToLower(input), "’", "'")
	words := strings.FieldsFunc(input, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	if len(words) == 0 {
		return ConsentPending
	}
	text := " " + strings.Join(words, " ") + " "

	yes, no := containsPhrase(text, consentYes), containsPhrase(text, consentNo)
	switch {
	case yes && no:
		return ConsentPending
	case yes:
		return ConsentGranted
	case no:
		return ConsentDenied
	default:
		return ConsentPending
	}
}

func containsPhrase(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, " "+phrase+" ") {
			return true
		}
	}
	return false
}
