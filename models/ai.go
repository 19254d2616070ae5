package models

// GeneratedQuestion is one item produced by the question generator
type GeneratedQuestion struct {
	Question         string   `json:"question"`
	Category         string   `json:"category"`
	ExpectedKeywords []string `json:"expected_keywords"`
	SampleAnswer     string   `json:"sample_answer,omitempty"`
	ExpectedAnswer   string   `json:"expected_answer,omitempty"`
}

// KeywordAnalysis summarizes keyword coverage in a scored answer
type KeywordAnalysis struct {
	KeywordsUsed    []string `json:"keywords_used"`
	KeywordsMissing []string `json:"keywords_missing"`
}

// FeedbackResult is the structured outcome of scoring an answer.
// Score is always within [1,10].
type FeedbackResult struct {
	Feedback        string           `json:"feedback"`
	Score           int              `json:"score"`
	Suggestions     []string         `json:"suggestions"`
	Strengths       []string         `json:"strengths,omitempty"`
	Improvements    []string         `json:"improvements,omitempty"`
	KeywordAnalysis *KeywordAnalysis `json:"keyword_analysis,omitempty"`
}
