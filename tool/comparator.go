package tool

import (
	"context"
	"fmt"
	"strings"
)

// Comparator produces a structured side-by-side comparison of two or more
// subject descriptors. A subject descriptor is `name: detail` or a bare name;
// subjects are separated by ` vs `, ';' or newlines.
type Comparator struct{}

// NewComparator constructs the comparator tool.
func NewComparator() *Comparator { return &Comparator{} }

// Name implements Tool.
func (t *Comparator) Name() string { return "comparator" }

// Description implements Tool.
func (t *Comparator) Description() string {
	return "Compare and contrast two or more concepts or sources side by side. Input should list subjects separated by 'vs', ';' or newlines, optionally as 'name: details'."
}

// Invoke implements Tool. Fewer than two subjects is a permanent
// insufficient_input error.
func (t *Comparator) Invoke(_ context.Context, input string) (string, error) {
	subjects := splitSubjects(input)
	if len(subjects) < 2 {
		return "", NewInsufficientInputError(t.Name(), fmt.Sprintf("comparison requires at least two subjects, got %d", len(subjects)))
	}

	var b strings.Builder
	b.WriteString("Comparison of " + joinNames(subjects) + "\n")
	for i, s := range subjects {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.name)
		if s.detail != "" {
			b.WriteString("   " + s.detail + "\n")
		}
	}
	b.WriteString("Shared dimension: both relate to the compared topic above.\n")
	b.WriteString("Differences: see per-subject details; evaluate fit per use case.")
	return b.String(), nil
}

type subject struct {
	name   string
	detail string
}

func splitSubjects(input string) []subject {
	normalized := strings.NewReplacer(" vs. ", "\n", " vs ", "\n", " versus ", "\n", ";", "\n").
		Replace(input)

	var subjects []subject
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, detail, found := strings.Cut(line, ":")
		if !found {
			subjects = append(subjects, subject{name: line})
			continue
		}
		subjects = append(subjects, subject{
			name:   strings.TrimSpace(name),
			detail: strings.TrimSpace(detail),
		})
	}
	return subjects
}

func joinNames(subjects []subject) string {
	names := make([]string, len(subjects))
	for i, s := range subjects {
		names[i] = s.name
	}
	return strings.Join(names, " vs ")
}
