// Package query turns natural-language claims into search-friendly
// queries and detects scam-pattern intent.
package query

import (
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`\w+`)

// stopwords are dropped from the query so the search provider focuses
// on entities.
var stopwords = map[string]bool{
	"i": true, "me": true, "my": true, "received": true, "a": true,
	"the": true, "from": true, "that": true, "this": true, "is": true,
	"was": true, "an": true, "has": true, "have": true,
}

// safetyTriggers mark phrases that evoke impersonation, refund, or
// urgent-payment scam patterns. Matched against the raw lower-cased
// claim, not the tokenized query.
var safetyTriggers = []string{
	"received a call", "asked for", "verification code", "otp", "bank account",
	"credit card", "won a", "urgent", "immediate action", "police", "arrest",
	"customer service", "bot", "refund",
}

// extremeMarkers is the sensationalist-word set behind the raised
// burden of proof for extraordinary claims.
var extremeMarkers = map[string]bool{
	"overnight": true, "immediately": true, "miracle": true, "cure": true,
	"100%": true, "everyone": true, "nobody": true, "destroyed": true,
	"proof": true, "proven": true, "secret": true, "banned": true,
	"explode": true, "exploding": true, "massive": true, "tremendous": true,
	"by a lot": true, "vastly": true,
}

// HasSafetyTrigger reports whether the text contains any scam-pattern
// phrase.
func HasSafetyTrigger(text string) bool {
	lower := strings.ToLower(text)
	for _, trigger := range safetyTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

// IsExtreme reports whether the claim's words intersect the
// sensationalist-marker set.
func IsExtreme(claim string) bool {
	for _, w := range wordRe.FindAllString(strings.ToLower(claim), -1) {
		if extremeMarkers[w] {
			return true
		}
	}
	return false
}

// Optimize tokenizes the claim to lower-cased word characters, drops
// stopwords, and rejoins with single spaces. If the raw claim carries a
// safety trigger, the literal tokens "scam fraud alert" are appended so
// the provider surfaces fraud coverage. Pure; re-optimizing an
// optimized query never flips the safety flag it was produced with.
func Optimize(claim string) (query string, isSafetyIntent bool) {
	isSafetyIntent = HasSafetyTrigger(claim)

	words := wordRe.FindAllString(strings.ToLower(claim), -1)
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if !stopwords[w] {
			keywords = append(keywords, w)
		}
	}

	query = strings.Join(keywords, " ")
	if isSafetyIntent {
		query += " scam fraud alert"
	}
	return query, isSafetyIntent
}
