// Package moderation screens submitted text against a small blocklist.
package moderation

import (
	"regexp"
	"strings"

	"github.com/DolphinWorld/demandsolution-codex/pkg/utils"
)

// maxScanLength is how many characters of the joined input are scanned.
const maxScanLength = 5000

type rule struct {
	label   string
	pattern *regexp.Regexp
}

var rules = []rule{
	{"hate slur", regexp.MustCompile(`(?i)\b(?:nigger|faggot|kike|chink)\b`)},
	{"sexual slur", regexp.MustCompile(`(?i)\b(?:cunt|whore)\b`)},
	{"explicit profanity", regexp.MustCompile(`(?i)\b(?:fuck|motherfucker|shit|asshole|bitch)\b`)},
	{"violent abuse", regexp.MustCompile(`(?i)\b(?:rape|kill\s+all|exterminate\s+all)\b`)},
}

// Result lists the blocklist categories a text matched.
type Result struct {
	Blocked bool     `json:"blocked"`
	Labels  []string `json:"labels"`
}

// Check scans the non-blank inputs, joined by newlines, and reports every matching category.
func Check(inputs ...string) Result {
	parts := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if strings.TrimSpace(in) != "" {
			parts = append(parts, in)
		}
	}
	text := utils.FirstNRunes(strings.Join(parts, "\n"), maxScanLength)

	labels := []string{}
	if text == "" {
		return Result{Labels: labels}
	}
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			labels = append(labels, r.label)
		}
	}
	return Result{Blocked: len(labels) > 0, Labels: labels}
}
