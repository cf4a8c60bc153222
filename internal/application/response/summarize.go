package response

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/doeshing/shai-voice/internal/domain"
)

const (
	editorHint      = "Check your editor for the complete implementation."
	continueOffer   = " Would you like me to continue with more details?"
	terminalHint    = "Check your terminal for the complete response."
	genericLanguage = "code"
)

// languageRule pairs a spoken language name with the pattern that detects it.
type languageRule struct {
	name    string
	pattern *regexp.Regexp
}

// languageRules are checked in order; the first match names the language.
var languageRules = []languageRule{
	{"JavaScript", regexp.MustCompile(`(?i)\.(?:js|jsx|mjs)\b|\bjavascript\b|\bnode\.?js\b|console\.log|require\(|module\.exports`)},
	{"TypeScript", regexp.MustCompile(`(?i)\.(?:ts|tsx)\b|\btypescript\b|\binterface\s+\w+\s*\{|:\s*(?:string|number|boolean)\b`)},
	{"Python", regexp.MustCompile(`(?im)\.py\b|\bpython3?\b|^\s*def\s+\w+\s*\(|^\s*from\s+\w+\s+import\b|\bprint\(`)},
	{"Bash", regexp.MustCompile(`(?i)\.(?:sh|bash)\b|\bbash\b|#!/bin/(?:ba)?sh|\bshell script\b`)},
	{"Java", regexp.MustCompile(`(?i)\.java\b|\bjava\b|public\s+static\s+void|System\.out\.println`)},
	{"Go", regexp.MustCompile(`(?i)\.go\b|\bgolang\b|\bpackage\s+main\b|\bfunc\s+\w+\s*\(|fmt\.Print`)},
	{"Rust", regexp.MustCompile(`(?i)\.rs\b|\brust\b|\bfn\s+\w+\s*\(|\blet\s+mut\b|println!`)},
}

// errorHint pairs a message fragment with the advice spoken after it.
type errorHint struct {
	pattern *regexp.Regexp
	hint    string
}

var errorHints = []errorHint{
	{regexp.MustCompile(`(?i)command not found|not recognized as .*command`), "Make sure the command is installed and available in your PATH."},
	{regexp.MustCompile(`(?i)permission denied|operation not permitted|EACCES`), "Check the file ownership and permissions, then try again."},
	{regexp.MustCompile(`(?i)no such file|ENOENT|cannot find the (?:file|path)`), "Verify that the file path exists and is spelled correctly."},
	{regexp.MustCompile(`(?i)syntax ?error|unexpected token`), "Review the syntax near the reported location."},
}

const defaultErrorHint = "Check the full output for more details."

var (
	errorLine  = regexp.MustCompile(`(?i)error:`)
	blankLine  = regexp.MustCompile(`\n[ \t]*\r?\n`)
	spaceRun   = regexp.MustCompile(` {2,}`)
	labelStrip = regexp.MustCompile(`(?i)^\s*(?:error|exception|failed|failure)\s*:\s*`)
)

// Summarize compresses text according to category. The category is trusted
// as given and never recomputed. Callers only invoke it once the text exceeds
// the summarize threshold.
func Summarize(category domain.ResponseCategory, text string, maxSpokenLines int) string {
	switch category {
	case domain.CategoryCode:
		return summarizeCode(text)
	case domain.CategoryError:
		return summarizeError(text)
	case domain.CategoryExplanation:
		return summarizeExplanation(text)
	default:
		return summarizeGeneric(text, maxSpokenLines)
	}
}

// DetectLanguage names the dominant language of a code response.
func DetectLanguage(text string) string {
	for _, rule := range languageRules {
		if rule.pattern.MatchString(text) {
			return rule.name
		}
	}
	return genericLanguage
}

// CountCreatedFiles counts distinct source files named next to a creation verb.
func CountCreatedFiles(text string) int {
	return len(createdFiles(text))
}

// summarizeCode says "1 file" rather than "1 files", and names an undetected
// language once ("I've generated code.") instead of "code code".
func summarizeCode(text string) string {
	language := DetectLanguage(text)
	files := CountCreatedFiles(text)
	code := language + " code"
	if language == genericLanguage {
		code = genericLanguage
	}
	if files > 0 {
		noun := "files"
		if files == 1 {
			noun = "file"
		}
		return fmt.Sprintf("I've created %d %s with %s. %s", files, noun, code, editorHint)
	}
	return fmt.Sprintf("I've generated %s. %s", code, editorHint)
}

func summarizeError(text string) string {
	message := extractErrorMessage(text)
	return fmt.Sprintf("Error: %s. %s", message, HintFor(message))
}

// HintFor selects the spoken advice for an error message.
func HintFor(message string) string {
	for _, h := range errorHints {
		if h.pattern.MatchString(message) {
			return h.hint
		}
	}
	return defaultErrorHint
}

// extractErrorMessage prefers the first line containing "error:" and strips
// everything up to that label. Lines labelled exception/failed/failure are the
// fallback, then the first non-empty line.
func extractErrorMessage(text string) string {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if loc := errorLine.FindStringIndex(line); loc != nil {
			return tidyMessage(line[loc[1]:])
		}
	}
	for _, line := range lines {
		if labelStrip.MatchString(line) {
			return tidyMessage(labelStrip.ReplaceAllString(line, ""))
		}
	}
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return tidyMessage(line)
		}
	}
	return "unknown error"
}

func tidyMessage(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".")
	if s == "" {
		return "unknown error"
	}
	return s
}

func summarizeExplanation(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	para := strings.TrimSpace(text)
	if loc := blankLine.FindStringIndex(para); loc != nil {
		para = para[:loc[0]]
	}
	para = strings.ReplaceAll(para, "\n", " ")
	para = spaceRun.ReplaceAllString(para, " ")
	return strings.TrimSpace(para) + continueOffer
}

func summarizeGeneric(text string, maxSpokenLines int) string {
	if maxSpokenLines < 1 {
		maxSpokenLines = 1
	}
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\n")
	if len(lines) <= maxSpokenLines {
		return text
	}
	remaining := len(lines) - maxSpokenLines
	first := strings.Join(lines[:maxSpokenLines], "\n")
	return fmt.Sprintf("%s... and %d more lines. %s", first, remaining, terminalHint)
}
