package core

import "fmt"

const promptFormat = `You are writing material for a phishing awareness training game.
Write one short %s email of about 60 words.
%s
Start with a line of the form "Subject: <subject>" followed by the email body.
Do not include a greeting line, a closing, a signature, placeholders in brackets, or any commentary.`

// PromptFor returns the generation prompt for a prompt type
func PromptFor(promptType PromptType) string {
	switch promptType {
	case PromptSuspicious:
		return fmt.Sprintf(promptFormat, "phishing",
			"Use typical phishing traits such as urgency, account verification requests, payment demands or suspicious links.")
	default:
		return fmt.Sprintf(promptFormat, "legitimate workplace",
			"Make it an ordinary business message such as a meeting follow-up, a project update or a team announcement.")
	}
}
