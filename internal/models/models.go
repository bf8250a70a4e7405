package models

// SearchResult is one web-search hit, ordered by backend relevance.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// PageStatus reports how extraction of a single URL went.
type PageStatus int

const (
	PageOK PageStatus = iota
	PageEmpty
	PageFetchError
	PageTimeout
)

func (s PageStatus) String() string {
	switch s {
	case PageOK:
		return "ok"
	case PageEmpty:
		return "empty"
	case PageFetchError:
		return "fetch_error"
	case PageTimeout:
		return "timeout"
	}
	return "unknown"
}

// ExtractedPage is the readable-text excerpt pulled from one result URL.
// Text is populated only when Status is PageOK.
type ExtractedPage struct {
	SourceURL string
	Text      string
	Status    PageStatus
}

// PromptContext carries everything the assembler folds into one prompt.
// Built fresh per inbound message, never persisted.
type PromptContext struct {
	Query    string
	Snippets []SearchResult
	Pages    []ExtractedPage
	Persona  string
}

// Stage identifies which pipeline step produced a failure.
type Stage int

const (
	StageClassify Stage = iota
	StageSearch
	StageExtract
	StageGenerate
)

func (s Stage) String() string {
	switch s {
	case StageClassify:
		return "understanding the question"
	case StageSearch:
		return "searching the web"
	case StageExtract:
		return "reading result pages"
	case StageGenerate:
		return "generating the answer"
	}
	return "processing"
}

// Outcome is the pipeline's result: either an answer or a stage failure,
// never both. Use Answered or Failed to construct it.
type Outcome struct {
	answer string
	stage  Stage
	detail string
	failed bool
}

func Answered(text string) Outcome {
	return Outcome{answer: text}
}

func Failed(stage Stage, detail string) Outcome {
	return Outcome{stage: stage, detail: detail, failed: true}
}

func (o Outcome) Failed() bool { return o.failed }

// Answer returns the generated text; empty when the outcome is a failure.
func (o Outcome) Answer() string { return o.answer }

// Failure returns the failing stage and its detail; zero values when the
// outcome is an answer.
func (o Outcome) Failure() (Stage, string) { return o.stage, o.detail }
