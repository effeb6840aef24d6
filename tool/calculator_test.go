package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculator_Invoke(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "symbolic", input: "2+2", want: "4"},
		{name: "natural language prefix", input: "What is 2+2?", want: "4"},
		{name: "precedence", input: "2+3*4", want: "14"},
		{name: "parens and division", input: "(17*3)/4", want: "12.75"},
		{name: "power caret", input: "2^10", want: "1024"},
		{name: "calculate prefix", input: "calculate 100 - 58", want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Invoke(context.Background(), tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculator_MalformedInput(t *testing.T) {
	calc := NewCalculator()

	for _, input := range []string{"", "2+*", "what is"} {
		_, err := calc.Invoke(context.Background(), input)
		assert.Error(t, err, "input %q", input)
		var te *Error
		assert.ErrorAs(t, err, &te)
		assert.Equal(t, KindEvaluation, te.Kind)
		assert.False(t, te.Transient)
	}
}

func TestCalculator_NoCodeExecution(t *testing.T) {
	calc := NewCalculator()

	// Identifiers resolve to nothing; the result is not arithmetic and the
	// invocation must fail rather than reach any runtime facility.
	_, err := calc.Invoke(context.Background(), `os.Exit(1)`)
	assert.Error(t, err)
	var te *Error
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, KindEvaluation, te.Kind)
}
