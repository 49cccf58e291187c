// Package authority assigns discrete trust tiers to source domains.
// The table is a fixed literal lookup, deterministic and side-effect
// free: authority never comes from a learned score.
package authority

import (
	"net/url"
	"strings"
)

// The four tiers. Scores are discrete constants, never interpolated.
const (
	TierOfficial     = 1.0  // gov/edu/mil and international health bodies
	TierEstablished  = 0.85 // wire services, fact-checkers, national outlets
	TierEncyclopedic = 0.6  // crowd-sourced references
	TierGeneral      = 0.3  // everything else
)

// officialMarkers match government, military, academic, and
// international-body domains.
var officialMarkers = []string{".gov", ".mil", ".edu", ".nic.in", "who.int", "un.org"}

// establishedOutlets is the allow-list of wire services, fact-checking
// outlets, and established national media. Matched as substrings of the
// normalized domain.
var establishedOutlets = []string{
	"reuters", "apnews", "bbc", "bloomberg", "afp", "nature.com", "sciencemag",
	"thehindu", "indianexpress", "timesofindia", "ndtv", "ddnews", "ptinews",
	"nytimes", "wsj.com", "economist", "mayoclinic", "webmd", "telanganatoday",
	"altnews.in", "boomlive.in", "snopes.com", "politifact.com",
}

// Domain extracts the normalized domain from a URL: host, lower-cased,
// with a leading "www." stripped. Malformed URLs yield "".
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	return strings.TrimPrefix(host, "www.")
}

// Score returns the authority tier for a URL. It never fails: any URL
// that cannot be attributed to a higher tier, including malformed ones,
// lands in the general tier.
func Score(rawURL string) float64 {
	return ScoreDomain(Domain(rawURL))
}

// ScoreDomain classifies an already-normalized domain. Checks run in
// tier order; the first match wins.
func ScoreDomain(domain string) float64 {
	for _, marker := range officialMarkers {
		if strings.Contains(domain, marker) {
			return TierOfficial
		}
	}
	for _, outlet := range establishedOutlets {
		if strings.Contains(domain, outlet) {
			return TierEstablished
		}
	}
	if strings.Contains(domain, "wikipedia.org") {
		return TierEncyclopedic
	}
	return TierGeneral
}

// TierName maps a score to the external tier label used in the
// transparency trail.
func TierName(score float64) string {
	if score >= 0.8 {
		return "High"
	}
	return "General"
}
