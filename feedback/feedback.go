// Package feedback records user ratings of answered turns as an append-only
// JSON Lines log. The log is write-only from the system's point of view;
// analysis happens offline.
package feedback

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Entry is one feedback record. Rating is a 1-5 scale.
type Entry struct {
	TurnID      string    `json:"turn_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Log appends feedback entries as one JSON object per line. Safe for
// concurrent use.
type Log struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLog wraps an arbitrary writer, typically an os.File opened in append
// mode.
func NewLog(w io.Writer) *Log {
	return &Log{w: w}
}

// Open opens (or creates) the JSONL file at path for appending and returns
// a log backed by it. The caller owns closing the returned file.
func Open(path string) (*Log, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open feedback log: %w", err)
	}
	return NewLog(f), f, nil
}

// Submit validates and appends one entry, stamping it with the current UTC
// time.
func (l *Log) Submit(turnID string, rating int, comment string) error {
	if strings.TrimSpace(turnID) == "" {
		return fmt.Errorf("feedback requires a turn id")
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	entry := Entry{
		TurnID:      turnID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
		SubmittedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(data); err != nil {
		return fmt.Errorf("append feedback: %w", err)
	}
	return nil
}
