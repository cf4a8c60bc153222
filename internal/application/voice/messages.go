package voice

import (
	"strings"

	"github.com/doeshing/shai-voice/internal/domain"
)

// StatusMessages are the fixed sentences spoken when the assistant does not
// produce a usable response.
var StatusMessages = map[domain.ExecutionStatus]string{
	domain.StatusTimeout:      "The assistant took too long to respond, so I stopped it. Try a shorter request.",
	domain.StatusAuthError:    "The assistant is not signed in. Run claude in a terminal to log in, then try again.",
	domain.StatusNetworkError: "I could not reach the assistant service. Check your internet connection and try again.",
	domain.StatusRateLimited:  "The assistant is rate limited right now. Wait a moment and try again.",
	domain.StatusGeneralError: "The assistant reported an error",
	domain.StatusCancelled:    "Request cancelled.",
}

// Phrases spoken around capture.
const (
	MessageNothingHeard   = "I didn't catch that. Please try again."
	MessageCaptureFailed  = "Speech recognition failed"
	MessageEmptyResponse  = "The assistant returned an empty response."
	MessageGoodbye        = "Goodbye."
	MessageCaptureUnknown = "Something went wrong with speech recognition."
)

// exitWords end a session when they make up the whole utterance.
var exitWords = map[string]bool{
	"exit":           true,
	"quit":           true,
	"q":              true,
	"goodbye":        true,
	"stop listening": true,
}

// StatusMessage returns the sentence for a non-success result. General errors
// carry the extracted stderr line when there is one.
func StatusMessage(result domain.ExecutionResult) string {
	msg, ok := StatusMessages[result.Status]
	if !ok {
		msg = StatusMessages[domain.StatusGeneralError]
	}
	if result.Status == domain.StatusGeneralError || !ok {
		if detail := strings.TrimSpace(result.Message); detail != "" {
			return msg + ": " + strings.TrimRight(detail, ".") + "."
		}
		return msg + "."
	}
	return msg
}

// IsExitWord reports whether an utterance asks to end the session. Case and
// trailing punctuation are ignored.
func IsExitWord(prompt string) bool {
	normalized := strings.ToLower(strings.TrimSpace(prompt))
	normalized = strings.TrimRight(normalized, ".!?")
	return exitWords[strings.Join(strings.Fields(normalized), " ")]
}
