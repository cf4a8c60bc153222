package domain

import "strings"

// CaptureKind enumerates the shapes a voice capture may produce.
type CaptureKind string

const (
	CaptureRecognized CaptureKind = "recognized"
	CaptureTimeout    CaptureKind = "timeout"
	CaptureError      CaptureKind = "error"
)

// CaptureResult is what a VoiceCapture adapter hands back to the core.
type CaptureResult struct {
	Kind    CaptureKind
	Text    string
	Message string
}

// Recognized builds a successful capture.
func Recognized(text string) CaptureResult {
	return CaptureResult{Kind: CaptureRecognized, Text: text}
}

// CaptureTimedOut builds a capture that heard nothing in time.
func CaptureTimedOut() CaptureResult {
	return CaptureResult{Kind: CaptureTimeout}
}

// CaptureFailed builds a capture that reported an error.
func CaptureFailed(message string) CaptureResult {
	return CaptureResult{Kind: CaptureError, Message: message}
}

// Prompt returns the trimmed recognized text and whether it is usable.
func (c CaptureResult) Prompt() (string, bool) {
	if c.Kind != CaptureRecognized {
		return "", false
	}
	text := strings.TrimSpace(c.Text)
	return text, text != ""
}
