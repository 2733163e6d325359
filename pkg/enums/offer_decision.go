package enums

import (
	"fmt"
	"strings"
)

// OfferDecision represents the receiver's response to a pending offer.
type OfferDecision string

const (
	// OfferDecisionAccept executes the exchange.
	OfferDecisionAccept OfferDecision = "accept"
	// OfferDecisionReject closes the offer with no inventory effect.
	OfferDecisionReject OfferDecision = "reject"
)

// ParseOfferDecision converts raw input into an OfferDecision. Matching is
// case-insensitive, mirroring the public API contract.
func ParseOfferDecision(value string) (OfferDecision, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(OfferDecisionAccept):
		return OfferDecisionAccept, nil
	case string(OfferDecisionReject):
		return OfferDecisionReject, nil
	}
	return "", fmt.Errorf("invalid decision %q (expected 'accept' or 'reject')", value)
}
