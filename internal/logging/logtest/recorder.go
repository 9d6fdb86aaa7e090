// Package logtest provides a recording logger for assertions in tests.
package logtest

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// Entry is one recorded log call.
type Entry struct {
	Level  string
	Msg    string
	Args   []any
	Fields map[string]any
}

// Arg returns the value following key in the entry's variadic arguments.
func (e Entry) Arg(key string) (any, bool) {
	for i := 0; i+1 < len(e.Args); i += 2 {
		if k, ok := e.Args[i].(string); ok && k == key {
			return e.Args[i+1], true
		}
	}
	return nil, false
}

// Recorder implements interfaces.Logger and interfaces.LoggerProvider.
// Loggers derived through WithFields share the recorder's entry list.
type Recorder struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  map[string]any
	names   *[]string
}

var (
	_ interfaces.Logger         = (*Recorder)(nil)
	_ interfaces.FieldsLogger   = (*Recorder)(nil)
	_ interfaces.LoggerProvider = (*Recorder)(nil)
)

func New() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, entries: &[]Entry{}, names: &[]string{}}
}

func (r *Recorder) record(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, Entry{Level: level, Msg: msg, Args: args, Fields: maps.Clone(r.fields)})
}

func (r *Recorder) Trace(msg string, args ...any) { r.record("trace", msg, args) }
func (r *Recorder) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.record("error", msg, args) }
func (r *Recorder) Fatal(msg string, args ...any) { r.record("fatal", msg, args) }

func (r *Recorder) WithContext(context.Context) interfaces.Logger { return r }

func (r *Recorder) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(r.fields)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, fields)
	return &Recorder{mu: r.mu, entries: r.entries, fields: merged, names: r.names}
}

// GetLogger records the requested name and returns the recorder.
func (r *Recorder) GetLogger(name string) interfaces.Logger {
	r.mu.Lock()
	*r.names = append(*r.names, name)
	r.mu.Unlock()
	return r
}

// Entries returns a snapshot of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), *r.entries...)
}

// Find returns the first entry logged with msg.
func (r *Recorder) Find(msg string) (Entry, bool) {
	for _, entry := range r.Entries() {
		if entry.Msg == msg {
			return entry, true
		}
	}
	return Entry{}, false
}

// Names returns the logger names requested through GetLogger.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), *r.names...)
}
