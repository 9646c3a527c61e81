package indicators

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ImpersonatedBrands are the names phishing senders most often imitate
var ImpersonatedBrands = []string{
	"paypal",
	"amazon",
	"microsoft",
	"google",
	"apple",
	"facebook",
	"netflix",
	"linkedin",
	"dropbox",
	"docusign",
	"wellsfargo",
	"bankofamerica",
}

const minLookalikeToken = 4

// IsLookalikeDomain reports whether a sender domain imitates a brand, either by a small
// misspelling of its name (paypa1, micros0ft) or by decorating the exact name (paypal-secure).
// The brand's own domain is not a look-alike.
func IsLookalikeDomain(domain string) bool {
	labels := strings.Split(strings.ToLower(strings.TrimSpace(domain)), ".")
	if len(labels) < 2 {
		return false
	}
	name := labels[len(labels)-2]

	tokens := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	for _, token := range tokens {
		if len(token) < minLookalikeToken {
			continue
		}
		for _, brand := range ImpersonatedBrands {
			if token == brand {
				if name != brand {
					return true
				}
				continue
			}
			d := levenshtein.ComputeDistance(token, brand)
			if d > 0 && d <= editThreshold(brand) {
				return true
			}
		}
	}
	return false
}

// editThreshold allows one edit for short names, two for medium, ~15% beyond that
func editThreshold(name string) int {
	l := len(name)
	switch {
	case l <= 11:
		return 1
	case l <= 15:
		return 2
	default:
		return int(math.Ceil(float64(l) * 0.15))
	}
}
