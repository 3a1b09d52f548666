package orchestration

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const promptQueueCapacity = 10

// turnRequest is one queued assistant turn: a user prompt to respond to or
// a scripted line to speak. Exactly one of the two is set.
type turnRequest struct {
	prompt   string
	scripted string

	// followsBargeIn marks a prompt transcribed right after the user cut
	// the assistant off, which routes it through interruption handling.
	followsBargeIn bool

	// closing marks the farewell line, the last turn a session processes.
	closing bool

	queuedAt time.Time
}

// promptQueue serializes assistant turns. Turns are processed one at a
// time, in arrival order, so a response is never generated while another
// is still being spoken.
type promptQueue struct {
	queue   chan turnRequest
	closeCh chan struct{}
	done    chan struct{}

	startOnce sync.Once
	endOnce   sync.Once

	started atomic.Bool
}

func newPromptQueue() *promptQueue {
	return &promptQueue{
		queue:   make(chan turnRequest, promptQueueCapacity),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (q *promptQueue) CanIngest() bool {
	if q == nil {
		return false
	}

	select {
	case <-q.closeCh:
		return false
	default:
		return true
	}
}

func (q *promptQueue) StartLoop(baseCtx context.Context, processTurn func(context.Context, turnRequest) error) (started bool) {
	if q == nil || processTurn == nil || !q.CanIngest() {
		return false
	}

	q.startOnce.Do(func() {
		if !q.CanIngest() {
			return
		}

		started = true
		q.started.Store(true)
		go func() {
			defer close(q.done)

			for {
				select {
				case <-q.closeCh:
					return
				case request := <-q.queue:
					if !q.CanIngest() {
						return
					}
					q.processQueuedRequest(baseCtx, request, processTurn)
				}
			}
		}()
	})

	return started
}

func (q *promptQueue) Stop() {
	if q == nil {
		return
	}

	q.endOnce.Do(func() { close(q.closeCh) })
}

func (q *promptQueue) Clear() {
	if q == nil {
		return
	}

	for {
		select {
		case <-q.queue:
		default:
			return
		}
	}
}

func (q *promptQueue) AwaitDone() {
	if q == nil {
		return
	}

	if q.started.Load() {
		<-q.done
	}
}

func (q *promptQueue) Ingest(request turnRequest) bool {
	if q == nil || !q.CanIngest() {
		return false
	}

	request.queuedAt = time.Now()
	select {
	case <-q.closeCh:
		return false
	case q.queue <- request:
		return true
	}
}

func (q *promptQueue) processQueuedRequest(
	baseContext context.Context,
	request turnRequest,
	processTurn func(context.Context, turnRequest) error,
) {
	if q == nil || processTurn == nil {
		return
	}

	turnCtx, turnCancel := context.WithCancel(baseContext)
	defer turnCancel()

	go func() {
		select {
		case <-q.closeCh:
			turnCancel()
		case <-turnCtx.Done():
		}
	}()

	ctx, span := tracer.Start(turnCtx, "process turn")
	defer span.End()

	queuedTime := time.Since(request.queuedAt).Seconds()
	span.AddEvent("taken out of queue", trace.WithAttributes(attribute.Float64("assistant_turn.queued_time", queuedTime)))
	span.SetAttributes(attribute.Float64("assistant_turn.queued_time", queuedTime))

	if err := processTurn(ctx, request); err != nil {
		err := fmt.Errorf("failed to process turn: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (q *promptQueue) queuedCount() int {
	if q == nil {
		return 0
	}

	return len(q.queue)
}
