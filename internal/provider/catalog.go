package provider

import "cryptomax/internal/rates"

// parseCatalog walks a list of earn-catalog products, probing the given
// rate and network field names. Entries whose rate or network cannot be
// extracted are skipped, never fatal; rates go through fraction-to-percent
// normalization because catalog APIs report both 0.05 and 5.0 styles.
func parseCatalog(provider, url string, items []any, metric rates.Metric, rateKeys, networkKeys []string) []rates.RateRecord {
	records := make([]rates.RateRecord, 0, len(items))
	for _, item := range items {
		product, ok := item.(map[string]any)
		if !ok {
			continue
		}

		raw, ok := pickFirst(product, rateKeys...)
		if !ok {
			continue
		}
		rate, ok := normalizePercent(raw)
		if !ok {
			continue
		}

		network := pickString(product, networkKeys...)
		if network == "" {
			network = "Unknown"
		}

		records = append(records, rates.RateRecord{
			Provider:   provider,
			Network:    network,
			Rate:       rate,
			Metric:     metric,
			Source:     url,
			RawSnippet: snippet(product),
		})
	}
	return records
}
