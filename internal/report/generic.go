package report

import (
	"strings"

	"github.com/domainworth/domainworth/internal/core"
)

// filler lists tokens that pad a name without adding identity. Names
// built mostly from these read as keyword stuffing.
var filler = map[string]bool{
	"best": true, "buy": true, "cheap": true, "click": true, "deal": true,
	"deals": true, "discount": true, "free": true, "get": true, "my": true,
	"now": true, "official": true, "online": true, "pro": true, "sale": true,
	"shop": true, "site": true, "store": true, "super": true, "the": true,
	"top": true, "web": true, "your": true,
}

// DetectGeneric flags names whose appraisal narrative would carry no
// name-specific signal. Flagged reports keep their factual sections
// but withhold the verdict line instead of padding it with filler.
func DetectGeneric(name string, results []*core.SectionResult) (bool, []string) {
	name = strings.ToLower(strings.TrimSpace(name))

	var reasons []string

	if name == "" {
		return true, []string{"empty name"}
	}

	if tokens := hyphenTokens(name); len(tokens) >= 3 {
		reasons = append(reasons, "hyphen chain")
	}

	if stuffed(name) {
		reasons = append(reasons, "keyword stuffing")
	}

	if countDigits(name) == len(name) {
		reasons = append(reasons, "numeric name")
	}

	if len(results) > 0 && allUnresolved(results) {
		reasons = append(reasons, "no resolvable signals")
	}

	return len(reasons) > 0, reasons
}

func hyphenTokens(name string) []string {
	parts := strings.Split(name, "-")
	tokens := parts[:0]
	for _, part := range parts {
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// stuffed reports whether the name decomposes into two or more filler
// tokens with nothing distinctive left over.
func stuffed(name string) bool {
	tokens := hyphenTokens(name)
	if len(tokens) == 1 {
		tokens = greedyTokens(tokens[0])
	}
	if len(tokens) < 2 {
		return false
	}

	fillerCount := 0
	for _, token := range tokens {
		if filler[token] {
			fillerCount++
		}
	}
	return fillerCount >= 2 && fillerCount >= len(tokens)-1
}

// greedyTokens splits a bare name into known filler and dictionary
// tokens, longest match first. Returns nil when the name does not
// decompose fully.
func greedyTokens(name string) []string {
	var tokens []string
	rest := name
	for rest != "" {
		matched := ""
		for i := len(rest); i >= 2; i-- {
			candidate := rest[:i]
			if filler[candidate] || dictionary[candidate] {
				matched = candidate
				break
			}
		}
		if matched == "" {
			return nil
		}
		tokens = append(tokens, matched)
		rest = rest[len(matched):]
	}
	return tokens
}

func allUnresolved(results []*core.SectionResult) bool {
	for _, result := range results {
		if result == nil {
			continue
		}
		switch result.Outcome {
		case core.OutcomeAvailable, core.OutcomeTaken:
			return false
		}
	}
	return true
}
