// Package interruptions defines how user speech that cuts the assistant
// off mid-playback is interpreted.
package interruptions

// Classification is the semantic reading of a transcript that arrived
// right after the user talked over the assistant.
type Classification string

const (
	// ClassificationContinuation means the user kept extending their
	// previous request rather than reacting to the response.
	ClassificationContinuation Classification = "continuation"
	// ClassificationNewPrompt means the user changed course and the
	// transcript stands on its own.
	ClassificationNewPrompt Classification = "new_prompt"
	// ClassificationNoise means the transcript carries no usable intent
	// and should be dropped.
	ClassificationNoise Classification = "noise"
)
