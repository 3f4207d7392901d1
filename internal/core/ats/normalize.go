package ats

import (
	"net/url"
	"strings"
)

// referrerTag is the listing's tracking value on ref= parameters.
const referrerTag = "simplify"

// NormalizeApplyURL strips tracking parameters (utm_* and ref=Simplify) from an
// apply link while preserving the order of the remaining parameters. A link
// that fails to parse is returned unchanged; normalization is never fatal to
// ingestion.
func NormalizeApplyURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}

	kept := make([]string, 0, 4)
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k := strings.ToLower(key)
		if strings.HasPrefix(k, "utm_") {
			continue
		}
		if k == "ref" && strings.EqualFold(value, referrerTag) {
			continue
		}
		kept = append(kept, pair)
	}

	u.RawQuery = strings.Join(kept, "&")
	return u.String()
}
