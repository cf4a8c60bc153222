package domain

// ResponseCategory labels a successful response text. It is always derived
// from the text and never stored.
type ResponseCategory string

const (
	CategoryCode        ResponseCategory = "code"
	CategoryError       ResponseCategory = "error"
	CategoryExplanation ResponseCategory = "explanation"
	CategoryGeneric     ResponseCategory = "generic"
)

// TurnOutcome summarises one capture/execute/speak cycle for the CLI.
type TurnOutcome struct {
	Prompt      string
	Result      ExecutionResult
	Category    ResponseCategory
	Summarized  bool
	SpokenText  string
	Interrupted bool
	Exit        bool
}
