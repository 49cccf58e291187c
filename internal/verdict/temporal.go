package verdict

import "regexp"

var yearRe = regexp.MustCompile(`\b(20\d{2})\b`)

// extractYears collects the distinct 4-digit years beginning "20"
// mentioned in the text.
func extractYears(text string) map[int]bool {
	years := make(map[int]bool)
	for _, m := range yearRe.FindAllString(text, -1) {
		year := 0
		for _, ch := range m {
			year = year*10 + int(ch-'0')
		}
		years[year] = true
	}
	return years
}

// IsTemporallyValid reports whether a snippet is current enough for the
// claim. When both mention years, the snippet is rejected if its most
// recent year trails the claim's most recent year by more than one
// year. If either side mentions no year there is no temporal signal and
// the snippet passes.
func IsTemporallyValid(claim, snippet string) bool {
	claimYears := extractYears(claim)
	snippetYears := extractYears(snippet)
	if len(claimYears) == 0 || len(snippetYears) == 0 {
		return true
	}

	maxClaim := maxYear(claimYears)
	maxSnippet := maxYear(snippetYears)
	return maxSnippet >= maxClaim-1
}

func maxYear(years map[int]bool) int {
	max := 0
	for y := range years {
		if y > max {
			max = y
		}
	}
	return max
}
