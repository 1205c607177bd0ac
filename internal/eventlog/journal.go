// Package eventlog appends session events to .woodpecker/events.jsonl.
// Each run is stamped with its own session id so the file can hold the
// history of many runs.
package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thruflo/woodpecker/internal/logging"
	"github.com/thruflo/woodpecker/internal/trainer"
)

// FileName is the journal file inside the config directory.
const FileName = "events.jsonl"

// Record is a single JSON line in the journal.
type Record struct {
	Time           time.Time `json:"time"`
	Session        string    `json:"session"`
	Event          string    `json:"event"`
	Puzzle         string    `json:"puzzle,omitempty"`
	Index          int       `json:"index"`
	Move           string    `json:"move,omitempty"`
	Side           string    `json:"side,omitempty"`
	ElapsedSeconds int       `json:"elapsed,omitempty"`
	Cycle          int       `json:"cycle"`
	Error          string    `json:"error,omitempty"`
}

// Journal writes append-only JSONL records for one session.
type Journal struct {
	path    string
	session string
	now     func() time.Time
	logger  *logging.Logger
	mu      sync.Mutex
}

// Open creates a Journal writing to events.jsonl inside dir, creating dir
// if needed. An existing file is never truncated.
func Open(dir string, logger *logging.Logger) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Journal{
		path:    filepath.Join(dir, FileName),
		session: uuid.NewString(),
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger,
	}, nil
}

// Session returns the id stamped on every record this Journal writes.
func (j *Journal) Session() string {
	return j.session
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Append writes rec as one line. Time and Session are filled in when unset.
func (j *Journal) Append(rec Record) error {
	if rec.Time.IsZero() {
		rec.Time = j.now()
	}
	if rec.Session == "" {
		rec.Session = j.session
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal journal record: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write journal record: %w", err)
	}
	return nil
}

// RecordFor converts a trainer event into a journal record.
func RecordFor(e trainer.Event) Record {
	rec := Record{
		Event:          e.Kind.String(),
		Puzzle:         e.PuzzleID,
		Index:          e.PuzzleIndex,
		Move:           e.Move,
		ElapsedSeconds: e.ElapsedSeconds,
	}
	if e.Kind == trainer.EventPuzzleStarted {
		rec.Side = e.HumanSide.String()
	}
	if e.Progress != nil {
		rec.Cycle = e.Progress.CurrentCycle
	}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}
	return rec
}

// Sink returns a trainer.Sink that journals every event. Write failures
// are logged and otherwise ignored.
func (j *Journal) Sink() trainer.Sink {
	return func(e trainer.Event) {
		if err := j.Append(RecordFor(e)); err != nil {
			j.logger.Warn("failed to journal event", "event", e.Kind, "error", err)
		}
	}
}

// ReadFile parses the journal at path.
// Returns an empty slice (not an error) if the file does not exist.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	records := []Record{}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse journal line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return records, nil
}

// ForSession filters records to one session id.
func ForSession(records []Record, session string) []Record {
	var out []Record
	for _, rec := range records {
		if rec.Session == session {
			out = append(out, rec)
		}
	}
	return out
}

// Sessions returns the session ids in records in order of first appearance.
func Sessions(records []Record) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, rec := range records {
		if !seen[rec.Session] {
			seen[rec.Session] = true
			ids = append(ids, rec.Session)
		}
	}
	return ids
}
