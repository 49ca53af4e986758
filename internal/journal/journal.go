// Package journal writes an append-only NDJSON record of evaluations.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config controls evaluation journaling.
type Config struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Entry is one journaled evaluation.
type Entry struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"ts"`
	RequestID        string    `json:"request_id,omitempty"`
	Owner            string    `json:"email"`
	Topic            string    `json:"topic"`
	Argument         string    `json:"argument"`
	Outcome          string    `json:"outcome"`
	RationalityScore float64   `json:"rationality_score"`
	Fallbacks        string    `json:"fallbacks,omitempty"`
	Error            string    `json:"error,omitempty"`
	DurationMS       int64     `json:"duration_ms"`
}

// Logger accepts journal entries without blocking the caller.
type Logger interface {
	Log(Entry)
	Close() error
}

// Noop discards entries.
type Noop struct{}

func (Noop) Log(Entry) {}
func (Noop) Close() error { return nil }

// anonymousOwner names the file for entries without an owner.
const anonymousOwner = "_anonymous"

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9@._+-]`)

// Journal appends entries to <dir>/<owner>.ndjson from a single writer goroutine.
// Entries arriving while the queue is full are dropped.
type Journal struct {
	dir    string
	queue  chan Entry
	done   chan struct{}
	log    *slog.Logger
	onDrop func()

	mu     sync.Mutex
	closed bool
}

// Option configures a Journal.
type Option func(*Journal)

// WithDropHook is called once for every dropped entry.
func WithDropHook(fn func()) Option {
	return func(j *Journal) {
		if fn != nil {
			j.onDrop = fn
		}
	}
}

// New creates a journal, or a Noop when cfg is disabled.
func New(cfg Config, log *slog.Logger, opts ...Option) (Logger, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	if cfg.Dir == "" {
		return nil, errors.New("journal directory must not be empty")
	}
	if cfg.QueueSize <= 0 {
		return nil, errors.New("journal queue size must be > 0")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	j := &Journal{
		dir:    cfg.Dir,
		queue:  make(chan Entry, cfg.QueueSize),
		done:   make(chan struct{}),
		log:    log,
		onDrop: func() {},
	}
	for _, opt := range opts {
		opt(j)
	}

	go j.run()
	return j, nil
}

// Log enqueues e. It never blocks.
func (j *Journal) Log(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}

	select {
	case j.queue <- e:
	default:
		j.onDrop()
		j.log.Warn("Evaluation journal queue full, dropping entry", "owner", e.Owner)
	}
}

// Close flushes queued entries and stops the writer.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.queue)
	j.mu.Unlock()

	<-j.done
	return nil
}

func (j *Journal) run() {
	defer close(j.done)
	for e := range j.queue {
		if err := j.write(e); err != nil {
			j.log.Warn("Failed to write evaluation journal entry", "owner", e.Owner, "error", err)
		}
	}
}

func (j *Journal) write(e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(j.pathFor(e.Owner), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal file: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("append entry: %w", err)
	}
	return f.Close()
}

func (j *Journal) pathFor(owner string) string {
	name := unsafePathChars.ReplaceAllString(owner, "_")
	if name == "" || name == "." || name == ".." {
		name = anonymousOwner
	}
	return filepath.Join(j.dir, name+".ndjson")
}
