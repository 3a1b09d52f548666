package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio/vad"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/events"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/interruptions"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms"
)

// DefaultSessionDuration is how long a session runs unless
// WithSessionDuration overrides it.
const DefaultSessionDuration = 5 * time.Minute

const (
	defaultLookAhead = 2

	// transcriptionTimeout is how long detected speech may go without a
	// final transcript before the assistant asks the user to repeat.
	transcriptionTimeout = 3 * time.Second

	// maxConsecutiveFailures is how many turns in a row may fail with the
	// same kind of error before the session gives up and says goodbye.
	maxConsecutiveFailures = 2
)

type Orchestrator struct {
	llm        llm
	classifier InterruptionClassifier

	// speechToText is the STT facade used to handle optional client wiring.
	speechToText *speechToText
	synthesizer  *textToSpeech
	// audioInput is the input facade used to normalize capture behavior.
	audioInput  *audioInput
	audioOutput *audioOutput

	duration  time.Duration
	persona   string
	greeting  string
	closing   string
	lookAhead int
	vadConfig vad.Config

	session   *session
	timer     *sessionTimer
	queue     *promptQueue
	segmenter *vad.Segmenter
	bargeIn   *bargeInMonitor

	// responsePipeline holds the turn currently generating or speaking,
	// nil between turns.
	responsePipeline atomic.Pointer[responsePipeline]

	started        atomic.Bool
	expired        atomic.Bool
	followsBargeIn atomic.Bool

	mu                    sync.Mutex
	phase                 Phase
	endReason             string
	transcriptionDeadline *time.Timer

	// generationFailures and synthesisFailures count consecutive failed
	// turns per kind. Only the turn loop touches them.
	generationFailures int
	synthesisFailures  int

	closeOnce sync.Once
	endOnce   sync.Once
	ended     chan struct{}

	orchestrateOptions OrchestrateOptions
	emitEvent          eventEmitter
	baseContext        context.Context
	cancelRun          context.CancelFunc
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		llm:          newLLM(),
		speechToText: newSpeechToText(nil),
		synthesizer:  newTextToSpeech(nil),
		audioInput:   newAudioInput(nil),
		audioOutput:  newAudioOutput(nil),

		duration:  DefaultSessionDuration,
		persona:   DefaultPersona,
		greeting:  DefaultGreeting,
		closing:   DefaultClosing,
		lookAhead: defaultLookAhead,

		queue: newPromptQueue(),

		phase:     PhaseIdle,
		endReason: "cancelled",
		ended:     make(chan struct{}),

		emitEvent:   noopEventEmitter,
		baseContext: context.Background(),
	}
	o.bargeIn = newBargeInMonitor(o.handleBargeIn)

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Orchestrate opens the session: it starts transcription and capture, arms
// the session clock, queues the greeting and returns. The conversation then
// runs on its own goroutines until the session ends; use AwaitEnd to block
// until it is over.
//
// ctx is the base context for every turn; cancelling it tears the session
// down immediately. Call Orchestrate at most once per orchestrator.
func (o *Orchestrator) Orchestrate(ctx context.Context, opts ...OrchestrateOption) error {
	if o.isClosed() {
		return errors.New("orchestrator already closed")
	}
	if !o.started.CompareAndSwap(false, true) {
		return errors.New("orchestrator already started")
	}

	for _, opt := range opts {
		opt(&o.orchestrateOptions)
	}

	runCtx, cancel := context.WithCancel(ctx)
	o.baseContext = runCtx
	o.cancelRun = cancel

	o.emitEvent = newCallbackEventEmitter(o.orchestrateOptions)
	o.llm.persona = o.persona
	o.llm.emitEvent = o.emitEvent
	o.speechToText.SetEventEmitter(o.emitEvent)

	o.session = newSession(o.duration)
	o.timer = newSessionTimer(o.session)
	o.timer.onTimeRemaining = func(remaining time.Duration) { o.emitEvent(events.NewSessionTimeRemaining(remaining)) }
	o.timer.onTimeWarning = func(remaining time.Duration) { o.emitEvent(events.NewSessionTimeWarning(remaining)) }
	o.timer.onWrapUp = func(remaining time.Duration) { o.emitEvent(events.NewSessionWrappingUp(remaining)) }
	o.timer.onExpired = o.handleExpiry

	encodingInfo := o.audioInput.EncodingInfo()
	if err := o.speechToText.Start(
		runCtx,
		speechToTextCallbacks{
			onSpeechStarted: o.handleSpeechStarted,
			onSpeechEnded:   o.handleSpeechEnded,
			onTranscription: o.handleTranscription,
		},
		&encodingInfo,
	); err != nil {
		cancel()
		return errors.Join(ErrTranscriptionUnavailable, err)
	}

	vadConfig := o.vadConfig
	if vadConfig.SampleRate == 0 {
		vadConfig.SampleRate = encodingInfo.SampleRate
	}
	o.segmenter = vad.NewSegmenter(vadConfig, vad.Callbacks{
		OnFrame:     func(frame vad.Frame) { o.bargeIn.Observe(frame.Speech) },
		OnSpeechEnd: func(segment []byte) { o.emitEvent(events.NewUserAudioSegment(segment)) },
	})

	o.audioInput.start(runCtx, o.handleInputFrame, o.handleInputStreamError)
	o.queue.StartLoop(runCtx, o.processTurn)

	go func() {
		<-ctx.Done()
		o.Close()
	}()
	go o.timer.Run(runCtx)

	o.emitEvent(events.NewSessionStarted(o.duration))

	if o.greeting != "" {
		o.queue.Ingest(turnRequest{scripted: o.greeting})
	} else {
		o.setPhase(PhaseListening)
	}

	return nil
}

// AwaitEnd blocks until the session is over and its turn loop has drained.
func (o *Orchestrator) AwaitEnd() {
	<-o.ended
	o.queue.AwaitDone()
}

// Close tears the session down immediately: the active response is
// cancelled, pending turns are dropped and the capture and transcription
// clients are shut down. The closing line is not spoken; teardown that
// should end with a farewell goes through expiry instead.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		if pipeline := o.currentResponsePipeline(); pipeline != nil {
			pipeline.Cancel()
		}
		o.queue.Stop()
		o.queue.Clear()
		o.bargeIn.Disarm()
		o.cancelTranscriptionDeadline()

		if err := o.audioInput.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close audio input: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		if err := o.speechToText.Close(o.baseContext); err != nil {
			recordedErr := fmt.Errorf("failed to close speech-to-text client: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		if o.cancelRun != nil {
			o.cancelRun()
		}

		o.mu.Lock()
		reason := o.endReason
		o.mu.Unlock()

		o.setPhase(PhaseEnding)
		o.emitEvent(events.NewSessionEnded(reason))
		close(o.ended)
	})
}

// Phase returns the current session phase.
func (o *Orchestrator) Phase() Phase { return o.currentPhase() }

// History returns a snapshot of the conversation so far.
func (o *Orchestrator) History() []Utterance {
	if o.session == nil {
		return nil
	}

	return o.session.History()
}

// Remaining reports how much session time is left.
func (o *Orchestrator) Remaining() time.Duration {
	if o.session == nil {
		return 0
	}

	return o.session.Remaining()
}

// SendAudio forwards raw audio to the transcription client, bypassing the
// configured audio input.
func (o *Orchestrator) SendAudio(audio []byte) error { return o.speechToText.SendAudio(audio) }

func (o *Orchestrator) setPhase(phase Phase) {
	o.mu.Lock()
	from := o.phase
	if from == phase {
		o.mu.Unlock()
		return
	}
	o.phase = phase
	o.mu.Unlock()

	o.emitEvent(events.NewSessionPhaseChanged(string(from), string(phase)))
}

func (o *Orchestrator) currentPhase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.phase
}

func (o *Orchestrator) isClosed() bool {
	select {
	case <-o.ended:
		return true
	default:
		return false
	}
}

func (o *Orchestrator) emitError(err error) {
	if o.orchestrateOptions.onError != nil {
		o.orchestrateOptions.onError(err)
	}
}

func (o *Orchestrator) handleInputFrame(audio []byte) {
	if err := o.speechToText.SendAudio(audio); err != nil {
		log.Println("Warning: failed to forward audio to speech-to-text:", err)
	}
	o.segmenter.Push(audio)

	if o.orchestrateOptions.onInputAudio != nil {
		o.orchestrateOptions.onInputAudio(audio)
	}
}

func (o *Orchestrator) handleInputStreamError(err error) {
	o.emitError(err)
	o.endSession("audio device lost")
}

func (o *Orchestrator) handleSpeechStarted() {
	o.cancelTranscriptionDeadline()

	if o.currentPhase() == PhaseListening {
		o.setPhase(PhaseTranscribing)
	}
}

func (o *Orchestrator) handleSpeechEnded() {
	switch o.currentPhase() {
	case PhaseTranscribing, PhaseInterrupted:
		o.armTranscriptionDeadline()
	}
}

func (o *Orchestrator) handleTranscription(transcript string) {
	o.cancelTranscriptionDeadline()

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return
	}

	ingested := o.queue.Ingest(turnRequest{
		prompt:         transcript,
		followsBargeIn: o.followsBargeIn.Swap(false),
	})
	if !ingested {
		log.Println("Warning: dropping transcript, prompt queue unavailable:", transcript)
	}
}

func (o *Orchestrator) armTranscriptionDeadline() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.transcriptionDeadline != nil {
		o.transcriptionDeadline.Stop()
	}
	o.transcriptionDeadline = time.AfterFunc(transcriptionTimeout, o.handleEmptyTranscript)
}

func (o *Orchestrator) cancelTranscriptionDeadline() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.transcriptionDeadline != nil {
		o.transcriptionDeadline.Stop()
		o.transcriptionDeadline = nil
	}
}

// handleEmptyTranscript runs when detected speech produced no usable
// transcript within the deadline. The assistant asks the user to repeat
// instead of leaving the silence hanging.
func (o *Orchestrator) handleEmptyTranscript() {
	switch o.currentPhase() {
	case PhaseTranscribing, PhaseInterrupted:
	default:
		return
	}

	o.followsBargeIn.Store(false)
	o.queue.Ingest(turnRequest{scripted: clarificationLine})
	o.setPhase(PhaseListening)
}

// handleBargeIn runs on the capture path when the user talks over the
// assistant long enough to count as an interruption.
func (o *Orchestrator) handleBargeIn() {
	pipeline := o.currentResponsePipeline()
	if pipeline == nil {
		return
	}

	pipeline.Cancel()
	o.followsBargeIn.Store(true)
	o.setPhase(PhaseInterrupted)
	o.emitEvent(events.NewAssistantBargedIn(o.segmenter.Buffered()))
}

// handleExpiry runs once when the session clock hits zero. An active
// response is stopped at the next chunk boundary and the turn loop closes
// the session afterwards; an idle session says goodbye right away.
func (o *Orchestrator) handleExpiry() {
	if o.isClosed() {
		return
	}

	o.emitEvent(events.NewSessionExpired())
	o.expired.Store(true)

	if pipeline := o.currentResponsePipeline(); pipeline != nil {
		pipeline.SoftStop()
		return
	}

	o.endSession("session expired")
}

// endSession winds the session down with the farewell: pending turns are
// dropped and the closing line is queued as the final turn, which closes
// the orchestrator once spoken. Queueing it keeps the farewell serialized
// behind whatever turn is still in flight.
func (o *Orchestrator) endSession(reason string) {
	o.endOnce.Do(func() {
		if o.isClosed() {
			return
		}

		o.mu.Lock()
		o.endReason = reason
		o.mu.Unlock()

		o.setPhase(PhaseEnding)
		o.queue.Clear()

		if o.closing == "" || !o.queue.Ingest(turnRequest{scripted: o.closing, closing: true}) {
			o.Close()
		}
	})
}

func (o *Orchestrator) processTurn(ctx context.Context, request turnRequest) error {
	if request.closing {
		if _, err := o.runPipeline(ctx, turnInput{scripted: request.scripted}, nil); err != nil {
			log.Println("Warning: failed to speak closing line:", err)
		}
		o.Close()
		return nil
	}

	if o.expired.Load() || o.currentPhase() == PhaseEnding {
		return nil
	}

	onPlaybackStart := func() {
		o.setPhase(PhaseSpeaking)
		o.bargeIn.Arm()
	}

	if request.scripted != "" {
		if _, err := o.runPipeline(ctx, turnInput{scripted: request.scripted}, onPlaybackStart); err != nil {
			return o.handleTurnError(ctx, err)
		}
		o.routePostTurnPhase()
		return nil
	}

	prompt := request.prompt
	if request.followsBargeIn {
		resolved, proceed := o.resolveInterruption(ctx, prompt)
		if !proceed {
			o.setPhase(PhaseListening)
			return nil
		}
		prompt = resolved
	}

	o.session.appendUser(prompt)
	o.setPhase(PhaseGenerating)

	turns := o.session.llmTurns()
	if remaining := o.session.Remaining(); remaining <= sessionWrapUpThreshold {
		turns = append(turns, llms.Turn{
			Role:    llms.TurnRoleSystem,
			Content: fmt.Sprintf(timePressureFormat, int(remaining/time.Second)),
		})
	}

	if _, err := o.runPipeline(ctx, turnInput{turns: turns}, onPlaybackStart); err != nil {
		return o.handleTurnError(ctx, err)
	}

	o.generationFailures = 0
	o.synthesisFailures = 0
	o.routePostTurnPhase()
	return nil
}

// resolveInterruption decides what to do with the transcript that cut the
// previous response off. Without a classifier every interruption counts as
// a new prompt.
func (o *Orchestrator) resolveInterruption(ctx context.Context, prompt string) (resolved string, proceed bool) {
	if o.classifier == nil {
		return prompt, true
	}

	classification, err := o.classifier.Classify(ctx, prompt, o.session.llmTurns())
	if err != nil {
		log.Println("Warning: failed to classify interruption:", err)
		return prompt, true
	}

	switch classification {
	case interruptions.ClassificationNoise:
		return "", false
	case interruptions.ClassificationContinuation:
		if last, ok := o.session.lastUserUtterance(); ok {
			return last.Content + " " + prompt, true
		}
		return prompt, true
	default:
		return prompt, true
	}
}

func (o *Orchestrator) runPipeline(ctx context.Context, input turnInput, onPlaybackStart func()) (turnResult, error) {
	pipeline := newResponsePipeline(o.llm, o.synthesizer, o.audioOutput, o.lookAhead, o.emitEvent, onPlaybackStart)
	o.responsePipeline.Store(pipeline)
	result, err := pipeline.Run(ctx, input)
	o.responsePipeline.CompareAndSwap(pipeline, nil)
	o.bargeIn.Disarm()

	o.recordAssistantTurn(result)
	return result, err
}

// recordAssistantTurn appends what the turn produced to the session
// history. A truncated turn keeps only the text that actually played; a
// turn cut before any audio leaves no utterance behind.
func (o *Orchestrator) recordAssistantTurn(result turnResult) {
	content := result.fullText
	if result.truncated {
		content = result.spokenText
	}

	if content != "" {
		o.session.appendAssistant(content, result.emotions, result.truncated)
	}

	if result.truncated {
		o.emitEvent(events.NewAssistantResponseTruncated(result.spokenText))
	}
}

func (o *Orchestrator) handleTurnError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}

	switch {
	case errors.Is(err, ErrGenerationUnavailable):
		o.generationFailures++
		o.emitError(err)
		if o.generationFailures >= maxConsecutiveFailures {
			o.endSession("response generation unavailable")
			return err
		}

		// Apologize out loud so the user is not left waiting in silence.
		if _, apologyErr := o.runPipeline(ctx, turnInput{scripted: apologyLine}, func() { o.setPhase(PhaseSpeaking) }); apologyErr != nil {
			log.Println("Warning: failed to speak apology:", apologyErr)
		}
	case errors.Is(err, ErrSynthesisUnavailable):
		o.synthesisFailures++
		o.emitError(err)
		if o.synthesisFailures >= maxConsecutiveFailures {
			o.endSession("speech synthesis unavailable")
			return err
		}
	default:
		o.emitError(err)
	}

	o.routePostTurnPhase()
	return err
}

func (o *Orchestrator) routePostTurnPhase() {
	if o.expired.Load() {
		o.endSession("session expired")
		return
	}

	switch o.currentPhase() {
	case PhaseInterrupted:
		// The user is already speaking, so Listening is skipped.
		o.setPhase(PhaseTranscribing)
	case PhaseEnding:
	default:
		o.setPhase(PhaseListening)
	}
}
