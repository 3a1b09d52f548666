package orchestration

import events "github.com/ziclari/prueba-STT-TTS-LLM/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts OrchestrateOptions) eventEmitter {
	return func(event events.Event) {
		if opts.onEvent != nil {
			opts.onEvent(event)
		}

		switch typedEvent := event.(type) {
		case events.SessionPhaseChanged:
			if opts.onPhaseChanged != nil {
				opts.onPhaseChanged(Phase(typedEvent.From), Phase(typedEvent.To))
			}
		case events.SessionTimeRemaining:
			if opts.onTimeRemaining != nil {
				opts.onTimeRemaining(typedEvent.Remaining)
			}
		case events.SessionEnded:
			if opts.onSessionEnd != nil {
				opts.onSessionEnd(typedEvent.Reason)
			}
		case events.UserTranscriptInterim:
			if opts.onInterimTranscription != nil {
				opts.onInterimTranscription(typedEvent.Transcript)
			}
		case events.UserTranscriptFinal:
			if opts.onTranscription != nil {
				opts.onTranscription(typedEvent.Transcript)
			}
		case events.AssistantTextFragment:
			if opts.onResponseText != nil {
				opts.onResponseText(typedEvent.Fragment)
			}
		case events.AssistantChunkSpoken:
			if opts.onSpokenResponse != nil {
				opts.onSpokenResponse(typedEvent.Text)
			}
		case events.AssistantEmotion:
			if opts.onEmotion != nil {
				opts.onEmotion(typedEvent.Emotion)
			}
		}
	}
}
