package indicators

import (
	"regexp"
	"strings"
)

// DefaultTrustedDomains are the sender domains treated as a safety signal
var DefaultTrustedDomains = []string{
	"gmail.com",
	"outlook.com",
	"yahoo.com",
	"hotmail.com",
	"company.com",
	"business.org",
	"acme-corp.com",
	"microsoft.com",
	"google.com",
	"apple.com",
	"amazon.com",
	"linkedin.com",
}

// NormalizeDomains trims, lowercases and deduplicates a domain list, dropping empty entries
func NormalizeDomains(domains []string) []string {
	seen := make(map[string]struct{}, len(domains))
	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		d := strings.ToLower(strings.TrimSpace(domain))
		d = strings.TrimPrefix(d, "@")
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		normalized = append(normalized, d)
	}
	return normalized
}

// domainPattern matches an address at one of the domains or one of their subdomains
func domainPattern(domains []string) *regexp.Regexp {
	normalized := NormalizeDomains(domains)
	if len(normalized) == 0 {
		normalized = DefaultTrustedDomains
	}

	quoted := make([]string, len(normalized))
	for i, d := range normalized {
		quoted[i] = regexp.QuoteMeta(d)
	}
	return regexp.MustCompile(`@([a-z0-9-]+\.)*(` + strings.Join(quoted, "|") + `)([^a-z0-9.-]|$)`)
}

// SenderDomain extracts the lowercased domain of an address, or "" when there is none
func SenderDomain(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		from = strings.TrimSuffix(from[i+1:], ">")
	}
	parts := strings.Split(strings.TrimSpace(from), "@")
	if len(parts) != 2 {
		return ""
	}
	return strings.ToLower(parts[1])
}
