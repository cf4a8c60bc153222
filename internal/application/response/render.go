package response

import "github.com/doeshing/shai-voice/internal/domain"

// RenderOptions carries the thresholds taken from configuration.
type RenderOptions struct {
	SummarizeThreshold int
	MaxSpokenLines     int
}

// OptionsFrom extracts render thresholds from the effective configuration.
func OptionsFrom(cfg domain.Config) RenderOptions {
	return RenderOptions{
		SummarizeThreshold: cfg.GetSummarizeThreshold(),
		MaxSpokenLines:     cfg.GetMaxSpokenLines(),
	}
}

// Rendered is the speech-ready form of a response.
type Rendered struct {
	Category   domain.ResponseCategory
	Summarized bool
	Text       string
}

// Render classifies text, summarizes it when it has more lines than the
// threshold, and normalizes the result for speech.
func Render(text string, opts RenderOptions) Rendered {
	category := Classify(text)
	spoken := text
	summarized := false
	if LineCount(text) > opts.SummarizeThreshold {
		spoken = Summarize(category, text, opts.MaxSpokenLines)
		summarized = true
	}
	return Rendered{
		Category:   category,
		Summarized: summarized,
		Text:       Normalize(spoken),
	}
}
