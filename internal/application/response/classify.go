// Package response turns raw assistant output into text fit for speech.
//
// Classify labels the output, Summarize compresses long output according to
// that label, and Normalize rewrites symbols into words. Render composes the
// three. Every function here is pure and total: any string is a valid input.
package response

import (
	"regexp"
	"strings"

	"github.com/doeshing/shai-voice/internal/domain"
)

const explanationMinWords = 100

// sourceExtensions are the file extensions treated as source code. Data and
// document formats (md, json, yaml, toml) are left out so that saving notes
// or settings does not read as generated code.
var sourceExtensions = []string{
	"js", "jsx", "mjs", "ts", "tsx", "py", "sh", "bash", "zsh", "java", "go", "rs",
	"rb", "php", "c", "h", "cpp", "hpp", "cc", "cs", "swift", "kt", "scala",
	"html", "css", "scss", "sql",
}

var (
	fencePattern      = regexp.MustCompile("```")
	constructPattern  = regexp.MustCompile(`(?m)^\s*(?:function|class|def|import|const|let|var|public|private)\b`)
	creationVerb      = regexp.MustCompile(`(?i)\b(?:create|created|creating|generate|generated|generating|save|saved|saving|write|wrote|written|writing)\b`)
	sourceFilePattern = regexp.MustCompile(`(?i)[\w./-]+\.(?:` + strings.Join(sourceExtensions, "|") + `)\b`)
	errorLabelPattern = regexp.MustCompile(`(?im)^\s*(?:error|exception|failed|failure)\s*:`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Classify assigns a category to response text. Checks run in a fixed order
// and the first match wins.
func Classify(text string) domain.ResponseCategory {
	switch {
	case IsCode(text):
		return domain.CategoryCode
	case IsError(text):
		return domain.CategoryError
	case IsExplanation(text):
		return domain.CategoryExplanation
	default:
		return domain.CategoryGeneric
	}
}

// IsCode reports a fenced block, a line starting with a common language
// construct, or a line that creates a file with a source extension.
func IsCode(text string) bool {
	if fencePattern.MatchString(text) || constructPattern.MatchString(text) {
		return true
	}
	return len(createdFiles(text)) > 0
}

// IsError reports a line that starts with an error label and a colon.
func IsError(text string) bool {
	return errorLabelPattern.MatchString(text)
}

// IsExplanation reports long prose that is not code.
func IsExplanation(text string) bool {
	return WordCount(text) > explanationMinWords && !IsCode(text)
}

// WordCount counts whitespace separated fields.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// LineCount counts newline separated lines, ignoring trailing newlines.
func LineCount(text string) int {
	trimmed := strings.TrimRight(text, "\r\n")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "\n") + 1
}

// createdFiles returns the distinct source files named on lines that also
// carry a creation verb, in order of first appearance.
func createdFiles(text string) []string {
	var files []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		if !creationVerb.MatchString(line) {
			continue
		}
		for _, name := range sourceFilePattern.FindAllString(line, -1) {
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			files = append(files, name)
		}
	}
	return files
}
