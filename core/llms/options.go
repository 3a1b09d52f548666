package llms

// PromptOptions carries everything a provider needs to build a request
// besides the prompt itself.
type PromptOptions struct {
	Instructions string
	Turns        []Turn
	MaxTokens    int
	Temperature  *float64
}

// PromptOption mutates PromptOptions. It satisfies both the streaming and
// the structured option interfaces so shared options work in either context.
type PromptOption func(*PromptOptions)

type StreamingPromptOptions struct {
	PromptOptions
}

type StreamingPromptOption interface {
	ApplyToStreaming(*StreamingPromptOptions)
}

type StructuredPromptOptions struct {
	PromptOptions
}

type StructuredPromptOption interface {
	ApplyToStructured(*StructuredPromptOptions)
}

func (f PromptOption) ApplyToStreaming(o *StreamingPromptOptions) {
	f(&o.PromptOptions)
}

func (f PromptOption) ApplyToStructured(o *StructuredPromptOptions) {
	f(&o.PromptOptions)
}

// WithSystemPrompt sets the system instructions for the prompt.
// Repeating this option overwrites the previous instructions.
func WithSystemPrompt(prompt string) PromptOption {
	return func(opts *PromptOptions) {
		opts.Instructions = prompt
	}
}

// WithTurns adds conversation context to the prompt. Repeating this option
// sequentially adds more turns.
func WithTurns(turns ...Turn) PromptOption {
	return func(opts *PromptOptions) {
		opts.Turns = append(opts.Turns, turns...)
	}
}

// WithMaxTokens caps the generated length.
func WithMaxTokens(maxTokens int) PromptOption {
	return func(opts *PromptOptions) {
		opts.MaxTokens = maxTokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) PromptOption {
	return func(opts *PromptOptions) {
		opts.Temperature = &temperature
	}
}
