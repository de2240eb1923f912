package dialog

import "strings"

// Confirmation lexicons. Matching is case-insensitive exact phrase
// comparison; anything outside both sets is ambiguous and goes to the
// generative responder.
var (
	affirmatives = []string{"yes", "yeah", "yep", "correct", "right", "that's right", "that's correct", "yes it is"}
	negatives    = []string{"no", "nope", "not correct", "wrong", "incorrect", "no it's not"}
)

type intent int

const (
	intentAmbiguous intent = iota
	intentAffirmative
	intentNegative
)

func classifyIntent(input string) intent {
	lowered := strings.ToLower(strings.TrimSpace(input))
	for _, phrase := range affirmatives {
		if lowered == phrase {
			return intentAffirmative
		}
	}
	for _, phrase := range negatives {
		if lowered == phrase {
			return intentNegative
		}
	}
	return intentAmbiguous
}
