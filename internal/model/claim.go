package model

import "strings"

// Claim is the statement being fact-checked. It is treated as immutable
// for the lifetime of one request.
type Claim string

// NewClaim trims surrounding whitespace and wraps the text.
func NewClaim(text string) Claim {
	return Claim(strings.TrimSpace(text))
}

func (c Claim) String() string {
	return string(c)
}

// IsEmpty reports whether the claim carries no text at all.
func (c Claim) IsEmpty() bool {
	return len(c) == 0
}
