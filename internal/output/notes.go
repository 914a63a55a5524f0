package output

import (
	"fmt"
	"strings"

	"github.com/domainworth/domainworth/internal/core"
)

func displayName(result *core.SectionResult) string {
	if result == nil {
		return ""
	}

	name := strings.TrimSpace(result.Name)
	switch result.Section {
	case core.SectionCommunity:
		if name == "" {
			return ""
		}
		return "@" + name
	case core.SectionAvailability:
		if name != "" {
			return name
		}
		if result.TLD != "" {
			return "." + result.TLD
		}
		return ""
	default:
		if name != "" {
			return name
		}
		return string(result.Section)
	}
}

func statusLabel(result *core.SectionResult) string {
	if result == nil {
		return "unknown"
	}
	return result.Outcome.String()
}

func formatNotes(result *core.SectionResult) string {
	if result == nil {
		return ""
	}

	parts := []string{}
	if result.Message != "" && result.Outcome == core.OutcomeError {
		parts = append(parts, result.Message)
	}
	if result.Provenance.FromCache {
		parts = append(parts, "cached")
	}

	switch result.Section {
	case core.SectionAvailability:
		parts = append(parts, availabilityNotes(result)...)
	case core.SectionCommunity:
		parts = append(parts, communityNotes(result)...)
	}

	return strings.Join(parts, "; ")
}

func availabilityNotes(result *core.SectionResult) []string {
	if result == nil || result.ExtraData == nil {
		return nil
	}
	notes := []string{}
	if expiration, ok := result.ExtraData["expiration"]; ok {
		notes = append(notes, fmt.Sprintf("exp: %v", expiration))
	}
	if registrar, ok := result.ExtraData["registrar"]; ok {
		notes = append(notes, fmt.Sprintf("registrar: %v", registrar))
	}
	return notes
}

func communityNotes(result *core.SectionResult) []string {
	if result == nil || result.ExtraData == nil {
		return nil
	}
	notes := []string{}
	if accountType, ok := result.ExtraData["account_type"]; ok {
		notes = append(notes, fmt.Sprintf("type: %v", accountType))
	}
	if followers, ok := result.ExtraData["followers"]; ok {
		notes = append(notes, fmt.Sprintf("followers: %v", followers))
	}
	return notes
}

func priceCell(row core.PricingRow) string {
	cell := fmt.Sprintf("$%.2f/$%.2f", row.RegisterUSD, row.RenewUSD)
	if row.Premium {
		cell += " (premium)"
	}
	return cell
}
