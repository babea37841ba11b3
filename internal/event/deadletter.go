package event

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/osse101/CaseBot_Go/internal/logger"
)

// DeadLetterSchemaVersion is the current version of the dead-letter log format
const DeadLetterSchemaVersion = "1.0"

// DeadLetterWriter appends undeliverable events to a JSON-lines file
type DeadLetterWriter struct {
	file *os.File
	mu   sync.Mutex
}

// DeadLetterEntry represents an event that failed to publish after all retries
type DeadLetterEntry struct {
	SchemaVersion string          `json:"schema_version"`
	Timestamp     time.Time       `json:"timestamp"`
	Event         json.RawMessage `json:"event"`
	EventType     Type            `json:"event_type"`
	Attempts      int             `json:"attempts"`
	LastError     string          `json:"last_error,omitempty"`
}

// NewDeadLetterWriter opens (or creates) the dead-letter file for appending
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("open dead letter file: %w", err)
	}
	return &DeadLetterWriter{file: f}, nil
}

// Write records a failed event
func (dlw *DeadLetterWriter) Write(event Event, attempts int, lastError error) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf(ErrMsgEncodeEventFailed, event.Type, err)
	}
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now().UTC(),
		Event:         body,
		EventType:     event.Type,
		Attempts:      attempts,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	dlw.mu.Lock()
	defer dlw.mu.Unlock()
	if dlw.file == nil {
		return os.ErrClosed
	}
	if _, err := dlw.file.Write(append(line, '\n')); err != nil {
		return err
	}
	logger.Warn(LogMsgEventDeadLettered, "event_type", event.Type, "event_id", event.ID, "attempts", attempts, "error", entry.LastError)
	return nil
}

// Close closes the dead-letter file
func (dlw *DeadLetterWriter) Close() error {
	dlw.mu.Lock()
	defer dlw.mu.Unlock()
	if dlw.file == nil {
		return nil
	}
	err := dlw.file.Close()
	dlw.file = nil
	return err
}

// ReadDeadLetters loads every entry of a dead-letter file, for replay tooling
func ReadDeadLetters(path string) ([]DeadLetterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []DeadLetterEntry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e DeadLetterEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("decode dead letter line %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}
