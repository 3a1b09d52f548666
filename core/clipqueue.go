package orchestration

import (
	"context"
	"sync"
)

// audioClip is a synthesized speech chunk ready for playback.
type audioClip struct {
	ordinal int
	text    string
	emotion string
	audio   []byte
}

// clipQueue hands synthesized clips from the synthesis worker to the
// playback worker. It holds at most lookAhead unplayed clips so synthesis
// stays a little ahead of playback without racing through the whole
// response, which keeps the audio cheap to throw away on an interruption.
type clipQueue struct {
	mu sync.Mutex

	clips    []audioClip
	playhead int
	loaded   bool
	stopped  bool

	lookAhead int

	updateSignal chan struct{}
}

func newClipQueue(lookAhead int) *clipQueue {
	if lookAhead < 1 {
		lookAhead = 1
	}
	return &clipQueue{
		lookAhead:    lookAhead,
		updateSignal: make(chan struct{}, 1),
	}
}

// Add enqueues a clip, blocking while the look-ahead window is full. Clips
// added after the queue was stopped are silently dropped.
func (q *clipQueue) Add(ctx context.Context, clip audioClip) error {
	for {
		q.mu.Lock()
		if q.stopped {
			q.mu.Unlock()
			return nil
		}
		if len(q.clips)-q.playhead < q.lookAhead {
			q.clips = append(q.clips, clip)
			q.mu.Unlock()
			q.signalUpdate()
			return nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.updateSignal:
		}
	}
}

// Loaded marks the end of synthesis. The iterator drains what is queued and
// returns.
func (q *clipQueue) Loaded() {
	q.mu.Lock()
	q.loaded = true
	q.mu.Unlock()
	q.signalUpdate()
}

func (q *clipQueue) Clips(yield func(audioClip) bool) {
	for {
		q.mu.Lock()
		if q.stopped {
			q.mu.Unlock()
			return
		}

		if q.playhead < len(q.clips) {
			clip := q.clips[q.playhead]
			q.playhead++
			q.mu.Unlock()
			q.signalUpdate()
			if !yield(clip) {
				return
			}
			continue
		}

		if q.loaded {
			q.mu.Unlock()
			return
		}

		q.mu.Unlock()
		<-q.updateSignal
	}
}

// Stop terminates both ends of the queue: the iterator returns and further
// Adds are dropped.
func (q *clipQueue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()
	q.signalUpdate()
}

func (q *clipQueue) signalUpdate() {
	select {
	case q.updateSignal <- struct{}{}:
	default:
	}
}
