package tool

import (
	"context"
	"strings"
)

// summarizerMinChars mirrors the minimum length below which a summary adds
// nothing over the input itself.
const summarizerMinChars = 100

// summarizerMaxFindings bounds the key findings section.
const summarizerMaxFindings = 3

// Summarizer reduces arbitrary input text into a fixed-structure digest
// (topic, key findings, gaps). It is a pure function of its input and
// performs no external I/O.
type Summarizer struct{}

// NewSummarizer constructs the summarizer tool.
func NewSummarizer() *Summarizer { return &Summarizer{} }

// Name implements Tool.
func (t *Summarizer) Name() string { return "summarizer" }

// Description implements Tool.
func (t *Summarizer) Description() string {
	return "Create a structured summary of research content with topic, key findings, and gaps. Input should be the text to summarize."
}

// Invoke implements Tool.
func (t *Summarizer) Invoke(_ context.Context, input string) (string, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return "", NewEvaluationError(t.Name(), "empty input text")
	}
	if len(text) < summarizerMinChars {
		return "", NewEvaluationError(t.Name(), "text too short to summarize")
	}

	sentences := splitSentences(text)

	topic := sentences[0]
	if len([]rune(topic)) > 120 {
		topic = truncateRunes(topic, 117) + "..."
	}

	findings := keyFindings(sentences)

	var b strings.Builder
	b.WriteString("Topic: " + topic + "\n")
	b.WriteString("Key findings:\n")
	for _, f := range findings {
		b.WriteString("- " + f + "\n")
	}
	b.WriteString("Gaps: ")
	if len(sentences) <= summarizerMaxFindings+1 {
		b.WriteString("the source is brief; claims are not corroborated by independent material.")
	} else {
		b.WriteString("supporting detail beyond the findings above was condensed; verify specifics against the source.")
	}
	return b.String(), nil
}

// splitSentences performs a naive sentence split sufficient for digesting
// prose observations. Always returns at least one element.
func splitSentences(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	sentences := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if len(f) > 3 {
			sentences = append(sentences, f)
		}
	}
	if len(sentences) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return sentences
}

// keyFindings picks the longest sentences after the topic, preserving their
// original order. Length is a crude salience proxy but keeps the digest a
// pure function of its input.
func keyFindings(sentences []string) []string {
	rest := sentences
	if len(rest) > 1 {
		rest = rest[1:]
	}
	if len(rest) <= summarizerMaxFindings {
		return rest
	}

	type ranked struct {
		index int
		text  string
	}
	byLength := make([]ranked, len(rest))
	for i, s := range rest {
		byLength[i] = ranked{index: i, text: s}
	}
	// Selection by length, then restore document order.
	for i := 0; i < summarizerMaxFindings; i++ {
		best := i
		for j := i + 1; j < len(byLength); j++ {
			if len(byLength[j].text) > len(byLength[best].text) {
				best = j
			}
		}
		byLength[i], byLength[best] = byLength[best], byLength[i]
	}
	top := byLength[:summarizerMaxFindings]
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			if top[j].index < top[i].index {
				top[i], top[j] = top[j], top[i]
			}
		}
	}
	findings := make([]string, len(top))
	for i, r := range top {
		findings[i] = r.text
	}
	return findings
}
