package indicators

import (
	"regexp"
)

// Category separates rules that point towards phishing from rules that point away from it
type Category string

const (
	CategoryThreat Category = "threat"
	CategorySafety Category = "safety"
)

// Rule is one row of the indicator table
type Rule struct {
	Type     string
	Pattern  *regexp.Regexp
	Weight   int
	Category Category
	// Exclude discards individual matches of Pattern, e.g. generic salutations
	Exclude *regexp.Regexp
	// SenderMatch, when set, also fires the rule on the sender domain alone
	SenderMatch func(domain string) bool
}

// matches reports whether at least one match of the rule survives the exclusion pattern
func (r Rule) matches(text, senderDomain string) bool {
	if r.SenderMatch != nil && senderDomain != "" && r.SenderMatch(senderDomain) {
		return true
	}
	if r.Exclude == nil {
		return r.Pattern.MatchString(text)
	}
	for _, m := range r.Pattern.FindAllString(text, -1) {
		if !r.Exclude.MatchString(m) {
			return true
		}
	}
	return false
}

// ThreatRules returns the ordered threat table
func ThreatRules() []Rule {
	return []Rule{
		{
			Type:     "Urgency language",
			Pattern:  regexp.MustCompile(`\b(urgent|urgently|immediately|asap|right away|as soon as possible|within (24|48|72) hours|act now|expires? (today|soon)|final (notice|warning)|last chance|time[- ]sensitive)\b`),
			Weight:   3,
			Category: CategoryThreat,
		},
		{
			Type:     "Account or credential request",
			Pattern:  regexp.MustCompile(`\b(verify your (account|identity|information|details)|confirm your (account|identity|password|details)|passwords?|login credentials|sign[- ]in details|security questions?|social security|ssn|update your (account|billing|payment) (information|details))\b`),
			Weight:   3,
			Category: CategoryThreat,
		},
		{
			Type:     "Financial keywords",
			Pattern:  regexp.MustCompile(`\b(bank account|credit card|debit card|wire transfer|refund|overdue invoice|outstanding (payment|balance)|tax return|prize|lottery|winner)\b`),
			Weight:   2,
			Category: CategoryThreat,
		},
		{
			Type:     "Call to action",
			Pattern:  regexp.MustCompile(`\b(click (here|the link|below|this link)|follow the link|open the attachment|download (the|this) (file|attachment|form)|log ?in (here|now|immediately)|tap here|visit the link)\b`),
			Weight:   2,
			Category: CategoryThreat,
		},
		{
			Type:        "Look-alike domain",
			Pattern:     regexp.MustCompile(`[a-z0-9-]*(paypa1|amaz0n|micros0ft|g00gle|app1e|faceb00k|netfl1x|netfiix|linkedln|-secure|-verify|-support|-alerts|-billing|-login)[a-z0-9-]*\.(com|net|org|co|info|xyz)\b`),
			SenderMatch: IsLookalikeDomain,
			Weight:      4,
			Category:    CategoryThreat,
		},
		{
			Type:     "Suspension or unauthorized activity",
			Pattern:  regexp.MustCompile(`\b(suspend|suspended|suspension|locked|deactivated|deactivation|unauthori[sz]ed|unusual (activity|sign-in|login)|suspicious activity|security breach|compromised)\b`),
			Weight:   3,
			Category: CategoryThreat,
		},
		{
			Type:     "Unusual payment method",
			Pattern:  regexp.MustCompile(`\b(gift cards?|bitcoin|crypto|cryptocurrency|western union|moneygram|prepaid (card|debit card)|itunes cards?|wire the funds)\b`),
			Weight:   3,
			Category: CategoryThreat,
		},
	}
}

// SafetyRules returns the ordered safety table. trustedDomains feeds the recognized-domain rule;
// an empty list falls back to DefaultTrustedDomains.
func SafetyRules(trustedDomains []string) []Rule {
	return []Rule{
		{
			Type:     "Business or meeting vocabulary",
			Pattern:  regexp.MustCompile(`\b(meeting|agenda|schedule|scheduled|calendar|project|quarterly|report|presentation|deadline|conference|minutes|milestone)\b`),
			Weight:   2,
			Category: CategorySafety,
		},
		{
			Type:     "Personal salutation",
			Pattern:  regexp.MustCompile(`\b(dear|hi|hello|good (morning|afternoon))\s+((mr|ms|mrs|dr)\.?\s+)?[a-z]{2,}\b`),
			Exclude:  regexp.MustCompile(`\s(customer|user|client|member|sir|madam|valued|account|friend|there|all|team|everyone|holder)$`),
			Weight:   1,
			Category: CategorySafety,
		},
		{
			Type:     "Recognized legitimate domain",
			Pattern:  domainPattern(trustedDomains),
			Weight:   3,
			Category: CategorySafety,
		},
		{
			Type:     "Collaborative phrasing",
			Pattern:  regexp.MustCompile(`\b(let me know|looking forward|please (find|see) attached|as discussed|thanks for|thank you for|happy to help|feel free to|your thoughts|any feedback)\b`),
			Weight:   2,
			Category: CategorySafety,
		},
		{
			Type:     "Professional closing",
			Pattern:  regexp.MustCompile(`\b(best regards|kind regards|sincerely|warm regards|best wishes|many thanks|thanks again)\b`),
			Weight:   1,
			Category: CategorySafety,
		},
	}
}

// DefaultRules returns the complete threat and safety table
func DefaultRules(trustedDomains []string) []Rule {
	return append(ThreatRules(), SafetyRules(trustedDomains)...)
}
