package events

import (
	"strings"
	"time"
)

type Kind string

// Namespace returns the source grouping of the kind, the part before the
// first dot ("session", "user_input", "assistant").
func (k Kind) Namespace() string {
	if i := strings.IndexByte(string(k), '.'); i >= 0 {
		return string(k)[:i]
	}
	return string(k)
}

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
