package tool

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

const summarizerSample = "Quantum error correction protects quantum information from decoherence. " +
	"Surface codes are currently the leading approach for fault tolerance in superconducting hardware. " +
	"Recent experiments demonstrated logical error rates below physical error rates. " +
	"Scaling remains limited by qubit counts and cryogenic control electronics."

func TestSummarizer_StructuredDigest(t *testing.T) {
	s := NewSummarizer()

	out, err := s.Invoke(context.Background(), summarizerSample)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Topic: "), "digest must open with topic: %q", out)
	assert.Contains(t, out, "Key findings:")
	assert.Contains(t, out, "Gaps: ")
}

func TestSummarizer_PureFunction(t *testing.T) {
	s := NewSummarizer()

	first, err := s.Invoke(context.Background(), summarizerSample)
	assert.NoError(t, err)
	second, err := s.Invoke(context.Background(), summarizerSample)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummarizer_TopicTruncationKeepsValidUTF8(t *testing.T) {
	s := NewSummarizer()
	input := strings.Repeat("é", 130) + ". Second sentence with supporting detail. Third sentence closes the argument."

	out, err := s.Invoke(context.Background(), input)
	assert.NoError(t, err)
	assert.True(t, utf8.ValidString(out))

	topicLine, _, _ := strings.Cut(out, "\n")
	assert.True(t, strings.HasSuffix(topicLine, "..."), "long topic must be shortened: %q", topicLine)
	topic := strings.TrimSuffix(strings.TrimPrefix(topicLine, "Topic: "), "...")
	assert.Len(t, []rune(topic), 117)
}

func TestSummarizer_TooShort(t *testing.T) {
	s := NewSummarizer()

	_, err := s.Invoke(context.Background(), "short text")
	var te *Error
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, KindEvaluation, te.Kind)
}

func TestCitationGenerator_Deterministic(t *testing.T) {
	c := NewCitationGenerator()

	in := "Attention Is All You Need | Vaswani et al. | 2017 | https://arxiv.org/abs/1706.03762"
	first, err := c.Invoke(context.Background(), in)
	assert.NoError(t, err)
	second, err := c.Invoke(context.Background(), in)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "Vaswani et al. (2017). Attention Is All You Need.")
	assert.Contains(t, first, "https://arxiv.org/abs/1706.03762")
}

func TestCitationGenerator_TaggedFields(t *testing.T) {
	c := NewCitationGenerator()

	out, err := c.Invoke(context.Background(), "title: Deep Learning | year: 2015 | url: https://example.org")
	assert.NoError(t, err)
	assert.Contains(t, out, "(2015). Deep Learning.")
	assert.Contains(t, out, "https://example.org")
}

func TestCitationGenerator_MissingTitle(t *testing.T) {
	c := NewCitationGenerator()

	_, err := c.Invoke(context.Background(), "")
	var te *Error
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, KindEvaluation, te.Kind)
}

func TestComparator_SideBySide(t *testing.T) {
	c := NewComparator()

	out, err := c.Invoke(context.Background(), "surface codes: hardware-friendly vs cat qubits: bosonic encoding")
	assert.NoError(t, err)
	assert.Contains(t, out, "1. surface codes")
	assert.Contains(t, out, "2. cat qubits")
	assert.Contains(t, out, "hardware-friendly")
}

func TestComparator_SingleSubject(t *testing.T) {
	c := NewComparator()

	_, err := c.Invoke(context.Background(), "surface codes")
	var te *Error
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, KindInsufficientInput, te.Kind)
	assert.False(t, te.Transient)
}
