package synth

import (
	"github.com/mikey/phish-trainer/internal/core"
)

// Look-alike domains use visually confusable substitutions or brand-plus-keyword hyphenation
var suspiciousDomains = []string{
	"paypa1.com",
	"amaz0n-security.com",
	"micros0ft-support.com",
	"g00gle-verify.com",
	"app1e-id.com",
	"netfiix-billing.com",
	"bankofamerica-secure.net",
	"wellsfargo-alerts.co",
}

var suspiciousRoles = []string{
	"security",
	"support",
	"account-services",
	"billing",
	"no-reply",
	"admin",
	"verification",
}

var legitimateDomains = []string{
	"gmail.com",
	"outlook.com",
	"yahoo.com",
	"company.com",
	"business.org",
	"acme-corp.com",
}

var legitimateNames = []string{
	"sarah.johnson",
	"michael.chen",
	"emily.davis",
	"david.wilson",
	"jessica.martinez",
	"james.anderson",
	"olivia.brown",
}

// senderFor picks a sender address matching the prompt type
func (s *Synthesizer) senderFor(promptType core.PromptType) string {
	if promptType == core.PromptSuspicious {
		return s.pick(suspiciousRoles) + "@" + s.pick(suspiciousDomains)
	}
	return s.pick(legitimateNames) + "@" + s.pick(legitimateDomains)
}

func (s *Synthesizer) pick(options []string) string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return options[s.rng.Intn(len(options))]
}
