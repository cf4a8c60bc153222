package response

import "strings"

// symbolWords spells out symbols a synthesizer would skip or mispronounce.
// Operators come first: at each position the replacer prefers the earliest
// listed match, so "<=" never degrades into "less than" plus a stray "=".
var symbolWords = strings.NewReplacer(
	"==", " equals equals ",
	"!=", " not equals ",
	"<=", " less than or equal ",
	">=", " greater than or equal ",
	"`", " backtick ",
	"$", " dollar ",
	"#", " hash ",
	"*", " asterisk ",
	"|", " pipe ",
	`\`, " backslash ",
	"~", " tilde ",
	"^", " caret ",
	"&", " ampersand ",
	"@", " at ",
	"[", " open bracket ",
	"]", " close bracket ",
	"{", " open brace ",
	"}", " close brace ",
	"<", " less than ",
	">", " greater than ",
)

// Normalize rewrites symbols as words and collapses whitespace. It is always
// the last step before text reaches speech output.
func Normalize(text string) string {
	spoken := symbolWords.Replace(text)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(spoken, " "))
}
