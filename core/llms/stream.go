package llms

import "context"

// Stream is a lazily evaluated response stream. Chunks returns a
// range-over-func iterator; iteration stops when the caller breaks, the
// context is cancelled, or the stream ends.
type Stream interface {
	Chunks(context.Context) func(func(StreamChunk, error) bool)
}

type StreamChunk interface {
	FinishReason() *string
}

type StreamRoleChunk interface {
	StreamChunk
	Role() string
}

type StreamContentChunk interface {
	StreamChunk
	Content() string
}

type StreamUsageChunk interface {
	StreamChunk
	Usage() Usage
}

type Usage struct {
	// InputTokens represents the number of input tokens.
	InputTokens int
	// OutputTokens represents the number of output tokens.
	OutputTokens int
	// TotalTokens represents the total number of tokens used.
	TotalTokens int

	// QueueTime represents the time the request spent queued.
	//
	// Note: This might be just an approximation.
	QueueTime float64
	// CompletionTime represents the time it took to complete the request.
	//
	// Note: This might be just an approximation.
	CompletionTime float64
	// TotalTime represents the total time it took to complete the request.
	//
	// Note: This might be just an approximation.
	TotalTime float64
}
