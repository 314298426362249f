package rates

import "strings"

// stablecoinKeywords is the recognized-stablecoin vocabulary used by the
// low-risk view. Matching is case-insensitive substring over the network
// name, so "USDT Flexible" and "usdt" both qualify.
var stablecoinKeywords = []string{
	"USDC",
	"USDT",
	"DAI",
	"BUSD",
	"TUSD",
	"USDP",
	"GUSD",
	"USDD",
	"USTC",
	"EURT",
	"FRAX",
	"EURS",
	"LUSD",
}

// IsStablecoinNetwork reports whether the network name references a known
// stablecoin.
func IsStablecoinNetwork(name string) bool {
	upper := strings.ToUpper(name)
	for _, keyword := range stablecoinKeywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

// FilterLowRisk returns only records whose network references a known
// stablecoin. The input is never mutated; no match yields an empty,
// non-nil slice so callers can tell "nothing matched" from "no data".
func FilterLowRisk(records []RateRecord) []RateRecord {
	filtered := make([]RateRecord, 0, len(records))
	for _, record := range records {
		if IsStablecoinNetwork(record.Network) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
