package dialog

import (
	"fmt"
	"strings"

	"github.com/voxverify/voxverify/internal/domain"
)

// Greeting opens every session.
const Greeting = "Hello! Welcome to the Employment Verification System. Let's start by collecting some information. What is your full name?"

const promptDOB = "Great! What is your date of birth? Please say it in a format like day, month, year."

func promptExperience(first string) string {
	return fmt.Sprintf("Nice to meet you, %s! How many years of experience do you have?", first)
}

func promptEmail(first string) string {
	return fmt.Sprintf("Thank you, %s! Now, please provide your email address so I can check our records.", first)
}

func promptVerifyEmployment(first, company string) string {
	return fmt.Sprintf("Hi %s, it's great to talk with you! Our records show you work at %s. Is that still correct?", first, company)
}

func promptNoRecord(email string) string {
	return fmt.Sprintf("I couldn't find any employment records for %s. Could you please tell me your current company name?", email)
}

func promptVerifiedComplete(first string) string {
	return fmt.Sprintf("Perfect! Thank you %s, your employment verification is complete. Have a great day!", first)
}

func promptAskCompany(first string) string {
	return fmt.Sprintf("No worries, %s! Could you please tell me your current company name?", first)
}

func numberedList(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%d: %s", i+1, n)
	}
	return strings.Join(parts, ", ")
}

func promptMatches(candidates []string) string {
	return fmt.Sprintf("I found some possible matches: %s. Please say the number of your company, or say your company name if it's not listed.", numberedList(candidates))
}

func promptDirectory(listing []string) string {
	return fmt.Sprintf("Here are the companies in our directory: %s. Please say the number of your company, or say your company name if it's not listed.", numberedList(listing))
}

func promptUpdatedCompany(first, selected string) string {
	return fmt.Sprintf("Great! I've updated your company to %s. Thank you %s, your verification is complete!", selected, first)
}

func promptRecordedCompany(first, company string) string {
	return fmt.Sprintf("Thank you! I've recorded your company as %s. Your verification is complete, %s!", company, first)
}

func promptConfirmUnknown(input string) string {
	return fmt.Sprintf("I couldn't find %s in our company directory. Would you like me to record it as your company anyway?", input)
}

// reprompt is the deterministic question for the session's current
// state, used when the generative responder cannot produce a reply.
func reprompt(sess *domain.Session) string {
	switch sess.State {
	case domain.StateGreeting:
		return "Could you tell me your full name, please?"
	case domain.StateCollectingExperience:
		return "How many years of experience do you have?"
	case domain.StateCollectingDOB:
		return promptDOB
	case domain.StateCollectingEmail:
		return "Please provide your email address so I can check our records."
	case domain.StateVerifyingEmployment:
		return promptVerifyEmployment(sess.FirstName(), sess.Fields[domain.FieldRecordCompany])
	case domain.StateAskingCompany:
		return "Could you please tell me your current company name?"
	case domain.StateSelectingCompany:
		if len(sess.Candidates) > 0 {
			return promptMatches(sess.Candidates)
		}
		return "Please say the number of your company, or say your company name."
	case domain.StateConfirmingUnknownCompany:
		return promptConfirmUnknown(sess.Fields[domain.FieldPendingCompany])
	default:
		return fmt.Sprintf("Your verification is already complete, %s. Have a great day!", sess.FirstName())
	}
}
