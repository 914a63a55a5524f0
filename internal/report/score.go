package report

import (
	"fmt"
	"strings"

	"github.com/domainworth/domainworth/internal/core"
)

// dictionary lists short common words that make a name readable. A
// name matching one outright, or splitting cleanly into two, scores as
// brandable.
var dictionary = map[string]bool{
	"app": true, "base": true, "bay": true, "bit": true, "black": true,
	"blue": true, "board": true, "book": true, "box": true, "cal": true,
	"cap": true, "car": true, "cast": true, "chat": true, "check": true,
	"city": true, "cloud": true, "code": true, "coin": true, "craft": true,
	"dash": true, "data": true, "day": true, "deal": true, "deck": true,
	"desk": true, "dev": true, "dog": true, "door": true, "dot": true,
	"drive": true, "drop": true, "earth": true, "east": true, "edge": true,
	"farm": true, "fast": true, "field": true, "file": true, "fire": true,
	"fish": true, "flow": true, "fly": true, "forge": true, "form": true,
	"fox": true, "frame": true, "fresh": true, "gate": true, "gear": true,
	"gem": true, "go": true, "gold": true, "grid": true, "grow": true,
	"hive": true, "home": true, "host": true, "house": true, "hub": true,
	"ink": true, "iron": true, "jet": true, "key": true, "kit": true,
	"lab": true, "lake": true, "land": true, "leaf": true, "light": true,
	"line": true, "link": true, "lion": true, "list": true, "live": true,
	"lock": true, "log": true, "loop": true, "mail": true, "map": true,
	"mark": true, "mesh": true, "mind": true, "mint": true, "moon": true,
	"nest": true, "net": true, "node": true, "north": true, "note": true,
	"oak": true, "ocean": true, "open": true, "orbit": true, "pad": true,
	"page": true, "park": true, "path": true, "peak": true, "pen": true,
	"pine": true, "pixel": true, "plan": true, "play": true, "point": true,
	"port": true, "post": true, "press": true, "pulse": true, "rail": true,
	"rain": true, "reef": true, "ridge": true, "ring": true, "river": true,
	"rock": true, "root": true, "rose": true, "run": true, "sail": true,
	"salt": true, "scan": true, "sea": true, "seed": true, "shift": true,
	"ship": true, "shop": true, "sky": true, "snap": true, "snow": true,
	"space": true, "spark": true, "spring": true, "stack": true, "star": true,
	"stone": true, "storm": true, "stream": true, "sun": true, "swift": true,
	"tab": true, "table": true, "tap": true, "team": true, "tide": true,
	"time": true, "tool": true, "track": true, "trail": true, "tree": true,
	"true": true, "vault": true, "wave": true, "way": true, "web": true,
	"well": true, "west": true, "wind": true, "wire": true, "wolf": true,
	"wood": true, "work": true, "yard": true, "zen": true, "zone": true,
}

// Score grades a bare name from its shape and the collected section
// results. Deterministic: the same inputs always produce the same
// appraisal.
func Score(name string, results []*core.SectionResult) core.Appraisal {
	name = strings.ToLower(strings.TrimSpace(name))

	score := 50
	var signals []string

	add := func(delta int, signal string) {
		score += delta
		signals = append(signals, signal)
	}

	switch length := len(name); {
	case length == 0:
	case length <= 4:
		add(20, "very short name")
	case length <= 6:
		add(15, "short name")
	case length <= 9:
		add(8, "compact name")
	case length <= 14:
	default:
		add(-12, "long name")
	}

	if hyphens := strings.Count(name, "-"); hyphens > 0 {
		penalty := hyphens * 8
		if penalty > 16 {
			penalty = 16
		}
		add(-penalty, fmt.Sprintf("%d hyphen(s)", hyphens))
	}

	if digits := countDigits(name); digits > 0 {
		penalty := digits * 5
		if penalty > 15 {
			penalty = 15
		}
		add(-penalty, fmt.Sprintf("%d digit(s)", digits))
	}

	switch {
	case dictionary[name]:
		add(12, "dictionary word")
	case splitsIntoWords(name):
		add(8, "compound of dictionary words")
	}

	for _, result := range results {
		if result == nil {
			continue
		}
		switch result.Section {
		case core.SectionAvailability:
			switch {
			case result.TLD == "com" && result.Outcome == core.OutcomeAvailable:
				add(15, ".com available")
			case result.TLD == "com" && result.Outcome == core.OutcomeTaken:
				add(-5, ".com taken")
			case result.Outcome == core.OutcomeAvailable:
				add(3, "."+result.TLD+" available")
			}
		case core.SectionCommunity:
			switch result.Outcome {
			case core.OutcomeAvailable:
				add(5, "matching handle free")
			case core.OutcomeTaken:
				add(-2, "matching handle taken")
			}
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return core.Appraisal{
		Score:   score,
		Grade:   grade(score),
		Signals: signals,
	}
}

func grade(score int) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 55:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

func countDigits(name string) int {
	count := 0
	for _, r := range name {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

// splitsIntoWords reports whether the name is exactly two dictionary
// words back to back.
func splitsIntoWords(name string) bool {
	for i := 2; i <= len(name)-2; i++ {
		if dictionary[name[:i]] && dictionary[name[i:]] {
			return true
		}
	}
	return false
}
