// Package notify delivers short user-facing outcome messages (toasts).
package notify

import (
	"sync"

	"github.com/labstack/gommon/log"
)

// Notifier shows the outcome of a user action.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to a gommon logger.
type LogNotifier struct {
	Logger *log.Logger
}

// NewLogNotifier returns a notifier writing through logger, or through the
// package-level logger when logger is nil.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) Success(msg string) {
	if n.Logger == nil {
		log.Info(msg)
		return
	}
	n.Logger.Info(msg)
}

func (n *LogNotifier) Error(msg string) {
	if n.Logger == nil {
		log.Error(msg)
		return
	}
	n.Logger.Error(msg)
}

// Kind distinguishes recorded notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Note is one recorded notification.
type Note struct {
	Kind    Kind
	Message string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	notes []Note
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(KindError, msg) }

func (r *Recorder) add(kind Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, Note{Kind: kind, Message: msg})
}

// Notes returns a copy of the recorded notifications.
func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.notes...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Note{}, false
	}
	return r.notes[len(r.notes)-1], true
}
