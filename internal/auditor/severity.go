package auditor

import "strings"

type severity string
type severityOptions []severity

func (option severity) Match(input string) bool {
	return strings.ToUpper(input) == string(option)
}

func (options severityOptions) Includes(input string) bool {
	for _, s := range options {
		if s.Match(input) {
			return true
		}
	}
	return false
}

const (
	LOW      severity = "LOW"
	MEDIUM   severity = "MEDIUM"
	HIGH     severity = "HIGH"
	CRITICAL severity = "CRITICAL"
)

var ValidSeverities severityOptions = severityOptions{
	"LOW",      // nothing sensitive found, or trivia only
	"MEDIUM",   // borderline material worth reviewing before sharing
	"HIGH",     // clearly sensitive content present
	"CRITICAL", // live credentials or equivalent exposure
}

// NormalizeSeverity lowercases a model-reported severity, substituting
// "medium" when the value is not one of the known levels.
func NormalizeSeverity(input string) string {
	if !ValidSeverities.Includes(input) {
		return "medium"
	}
	return strings.ToLower(input)
}
