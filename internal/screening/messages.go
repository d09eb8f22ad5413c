package screening

import (
	"fmt"
	"strings"
)

const (
	msgSummaryUnavailable = "I couldn't prepare a summary of your profile right now. The screening will continue without it."
	msgConsentGranted     = "Thank you for your consent. Your profile will be stored when the screening ends.\n\nNow I'll ask you a few technical questions based on your skills."
	msgConsentDenied      = "Understood, I will not store your profile.\n\nWe can still proceed with a brief technical screening for practice. Let's continue."
	msgConsentUnclear     = "I didn't clearly understand your consent choice. Please reply with Yes if you agree, or No if you do not."
	msgFirstAnswer        = "Thanks, I've noted your answer."
	msgEveryFifthAnswer   = "Thanks, that helps me understand your experience. Here's the next question."
	msgSessionOver        = "This screening is already complete. Thank you for your time."
	msgRecordNotStored    = "Your answers could not be saved. A recruiter may contact you to repeat the screening."
)

func greeting(exitCommand string) string {
	return fmt.Sprintf("Hi, I'm SkillScout, your screening assistant. I'll collect a few details about you "+
		"and then ask some technical questions based on your skills. Type '%s' at any time to finish.", exitCommand)
}

func fieldPrompt(field Field) string {
	return fmt.Sprintf("Please provide your %s.", field.Label())
}

func niceToMeetYou(name string) string {
	return fmt.Sprintf("Nice to meet you, %s!", name)
}

func seniorityAck(label string) string {
	return fmt.Sprintf("Got it, I'll treat you as %s based on your experience.", label)
}

func consentPrompt() string {
	return "Thanks for sharing your profile and tech stack.\n\n" +
		"Before we continue, do you consent to storing your profile (name, experience, and tech stack) " +
		"together with your answers? Please reply Yes or No."
}

func fallbackMessage(exitCommand string) string {
	return fmt.Sprintf("I'm sorry, I couldn't process that properly. Please answer the last question or type '%s' to finish.", exitCommand)
}

func completionMessage(firstName string, capReached bool) string {
	var b strings.Builder
	if firstName != "" {
		fmt.Fprintf(&b, "Thank you, %s. ", firstName)
	} else {
		b.WriteString("Thank you. ")
	}
	b.WriteString("Your screening is now complete. A recruiter will review your answers and, " +
		"if there's a suitable match, contact you about next steps.")
	if capReached {
		b.WriteString(" (We've reached the maximum number of questions for this session.)")
	}
	return b.String()
}
