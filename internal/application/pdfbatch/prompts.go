package pdfbatch

// Prompt is one step of the fixed sequence issued against every uploaded
// document.
type Prompt struct {
	Key  string
	Text string
}

// Prompts is the ordered sequence. A prompt failing never prevents the next
// one from being attempted.
var Prompts = []Prompt{
	{Key: "summarize", Text: "Summarize this paper."},
	{Key: "symbolic_logic", Text: "Refactor the paper's core insights using symbolic logic."},
	{Key: "cpp_examples", Text: "Refactor the paper's core insights using C++ code examples."},
}
