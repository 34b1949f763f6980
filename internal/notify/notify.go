// Package notify delivers short user-facing messages (the client's "toasts").
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Level is the severity of a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelInfo
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Notification is one message shown to the user.
type Notification struct {
	Level   Level
	Message string
}

// Notifier shows notifications. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// Success shows a success message.
func Success(n Notifier, msg string) { n.Notify(Notification{Level: LevelSuccess, Message: msg}) }

// Info shows an informational message.
func Info(n Notifier, msg string) { n.Notify(Notification{Level: LevelInfo, Message: msg}) }

// Error shows an error message.
func Error(n Notifier, msg string) { n.Notify(Notification{Level: LevelError, Message: msg}) }

// Writer prints notifications as single lines, e.g. to stderr.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter constructs a Writer.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Notify implements Notifier.
func (w *Writer) Notify(n Notification) {
	prefix := "✓"
	switch n.Level {
	case LevelError:
		prefix = "✗"
	case LevelInfo:
		prefix = "•"
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.w, "%s %s\n", prefix, n.Message)
}

// Logged forwards to next and records every notification in the log.
type Logged struct {
	next Notifier
	log  *zap.Logger
}

// WithLog wraps next so that each notification is also logged.
func WithLog(next Notifier, log *zap.Logger) *Logged { return &Logged{next: next, log: log} }

// Notify implements Notifier.
func (l *Logged) Notify(n Notification) {
	l.log.Debug("notification", zap.Stringer("level", n.Level), zap.String("message", n.Message))
	l.next.Notify(n)
}

// Discard drops every notification.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(Notification) {}

// Recorder keeps notifications in memory; used by tests and headless callers.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Messages returns the recorded messages of the given level.
func (r *Recorder) Messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.items {
		if n.Level == level {
			out = append(out, n.Message)
		}
	}
	return out
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}

var (
	_ Notifier = (*Writer)(nil)
	_ Notifier = (*Logged)(nil)
	_ Notifier = Discard{}
	_ Notifier = (*Recorder)(nil)
)
