package booking

import "fmt"

// Scripted intercept replies. These are spoken verbatim by the surrounding
// dialogue layer, so they stay short and unambiguous.

func replyProposeSlot(spoken string) string {
	return fmt.Sprintf("The earliest opening I have is %s. Does that work for you?", spoken)
}

func replyAskAlternative() string {
	return "No problem. What day and time would suit you better?"
}

func replyFullyBooked() string {
	return "I'm sorry, we look fully booked over the coming days. Could you suggest another time?"
}

func replyAskEmail() string {
	return "Before I lock that in, could I grab your email address for the confirmation?"
}

func replyAlreadyBooked(spoken string) string {
	return fmt.Sprintf("Good news - you're already booked in for %s, so you're all set.", spoken)
}

func replyExistingFound(spoken string) string {
	return fmt.Sprintf("I can see you already have an appointment on %s. Would you like to move it, keep it, or book an extra appointment?", spoken)
}

func replyKeepConfirmed(spoken string) string {
	return fmt.Sprintf("No worries, I'll leave your appointment on %s as it is.", spoken)
}

func replyCancelledAskNewTime() string {
	return "I've cancelled that appointment. What new day and time would suit you?"
}

func replyRescheduled(spoken string) string {
	return fmt.Sprintf("All done - I've moved your appointment to %s. You'll receive a confirmation shortly.", spoken)
}

func replyBooked(spoken string) string {
	return fmt.Sprintf("You're booked in for %s. I've sent a confirmation to your phone.", spoken)
}

func replySorry() string {
	return "I'm sorry, I'm having trouble reaching the booking system right now. We'll follow up with you shortly to finalize your appointment."
}
