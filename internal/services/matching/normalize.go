package matching

import "strings"

// Sentinels for invoices whose counterparty name is missing.
const (
	UnknownBuyer    = "UNKNOWN BUYER"
	UnknownSupplier = "UNKNOWN SUPPLIER"
)

// NormalizeParty canonicalizes a free-text party name into a grouping key.
// Empty input maps to the fallback sentinel instead of failing.
func NormalizeParty(raw, fallback string) string {
	name := strings.ToUpper(strings.TrimSpace(raw))
	if name == "" {
		return fallback
	}
	return name
}
