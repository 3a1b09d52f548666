package orchestration

import (
	"strings"
	"sync"
)

// fragmentBuffer accumulates streamed response text and replays it through
// an iterator. The producer appends fragments as the model emits them and
// the consumer ranges over them, blocking until more text arrives or the
// stream is declared complete.
type fragmentBuffer struct {
	mu                sync.Mutex
	fragments         []string
	fragmentsConsumed int
	complete          bool
	updateSignal      chan struct{}
	cleared           bool
}

func newFragmentBuffer() *fragmentBuffer {
	b := &fragmentBuffer{
		updateSignal: make(chan struct{}, 1),
	}
	return b
}

func (b *fragmentBuffer) Add(fragment string) {
	b.mu.Lock()
	b.fragments = append(b.fragments, fragment)
	b.mu.Unlock()
	b.signalUpdate()
}

// Complete marks the end of the stream. Consumers drain what is buffered
// and return.
func (b *fragmentBuffer) Complete() {
	b.mu.Lock()
	b.complete = true
	b.mu.Unlock()
	b.signalUpdate()
}

func (b *fragmentBuffer) Fragments(yield func(string) bool) {
	for {
		b.mu.Lock()
		if b.cleared {
			b.mu.Unlock()
			return
		}

		if b.fragmentsConsumed < len(b.fragments) {
			fragment := b.fragments[b.fragmentsConsumed]
			b.fragmentsConsumed++
			b.mu.Unlock()
			if !yield(fragment) {
				return
			}
			continue
		}

		if b.complete {
			b.mu.Unlock()
			return
		}

		b.mu.Unlock()
		<-b.updateSignal
	}
}

func (b *fragmentBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.Join(b.fragments, "")
}

// Clear terminates the iterator and discards anything not yet consumed.
func (b *fragmentBuffer) Clear() {
	b.mu.Lock()
	b.cleared = true
	b.mu.Unlock()
	b.signalUpdate()
}

func (b *fragmentBuffer) signalUpdate() {
	select {
	case b.updateSignal <- struct{}{}:
	default:
	}
}
