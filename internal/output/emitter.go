package output

import (
	"encoding/json"
	"io"
	"sync"
)

type EventEmitter interface {
	Emit(event Event) error
}

// Reporter is the sink workers share: structured events plus the live
// completion signal ticked on every task dequeue.
type Reporter interface {
	EventEmitter
	Progress(checked, total int)
}

type JSONEmitter struct {
	enc *json.Encoder
	mu  sync.Mutex
}

func NewJSONEmitter(w io.Writer) *JSONEmitter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONEmitter{enc: enc}
}

func (e *JSONEmitter) Emit(event Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(event)
}

// JSONReporter emits newline-delimited JSON events and carries no terminal
// display, so progress ticks are dropped.
type JSONReporter struct {
	*JSONEmitter
}

func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{JSONEmitter: NewJSONEmitter(w)}
}

func (r *JSONReporter) Progress(checked, total int) {}
