// Package events defines the typed session event contract, the only outward
// integration surface of the orchestration core.
//
// Event kinds are grouped by source namespaces:
//
//   - session.*
//   - user_input.*
//   - assistant.*
//
// session events
//
//   - SessionStarted (session.started): session began with its configured
//     duration.
//   - SessionPhaseChanged (session.phase_changed): dialogue state machine
//     transition.
//   - SessionTimeRemaining (session.time_remaining): periodic remaining-time
//     notice, at most once per minute boundary.
//   - SessionTimeWarning (session.time_warning): one-shot near-end warning.
//   - SessionWrappingUp (session.wrapping_up): one-shot signal that further
//     generation is biased toward saying goodbye.
//   - SessionExpired (session.expired): the session clock ran out.
//   - SessionEnded (session.ended): teardown completed.
//
// user_input events
//
//   - UserSpeechStarted (user_input.speech_started): speech activity began.
//   - UserSpeechEnded (user_input.speech_ended): speech activity ended.
//   - UserAudioSegment (user_input.audio_segment): completed speech segment
//     audio, pre-roll included.
//   - UserTranscriptInterim (user_input.transcript_interim): mutable interim
//     transcript snapshot, advisory only.
//   - UserTranscriptFinal (user_input.transcript_final): terminal transcript
//     for the utterance, the text that enters the session history.
//
// assistant events
//
//   - AssistantGenerationStarted (assistant.generation_started): response
//     generation began.
//   - AssistantTextFragment (assistant.text_fragment): streamed generated
//     text fragment with its ordinal.
//   - AssistantChunkReady (assistant.chunk_ready): speakable chunk emitted by
//     the chunker with its parsed emotion.
//   - AssistantChunkSpoken (assistant.chunk_spoken): playback of one chunk
//     completed.
//   - AssistantEmotion (assistant.emotion): the spoken emotion tag changed.
//   - AssistantGenerationEnded (assistant.generation_ended): the generator
//     finished, carrying the complete text.
//   - AssistantBargedIn (assistant.barged_in): the user interrupted playback;
//     carries pre-roll audio seeding the next transcription segment.
//   - AssistantResponseTruncated (assistant.response_truncated): a response
//     was cut short; carries exactly the text that was played.
package events
