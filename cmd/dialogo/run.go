package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	orchestration "github.com/ziclari/prueba-STT-TTS-LLM/core"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio/miniaudio"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/audio/portaudio"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/events"
	interruptionsllm "github.com/ziclari/prueba-STT-TTS-LLM/core/interruptions/llm"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms/gemini"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms/groq"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/llms/openai"
	deepgramstt "github.com/ziclari/prueba-STT-TTS-LLM/core/speechtotext/deepgram"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/texttospeech"
	deepgramtts "github.com/ziclari/prueba-STT-TTS-LLM/core/texttospeech/deepgram"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/texttospeech/piper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a spoken session",
	Long: `Start a session: the assistant greets you, listens, and answers out
loud until the clock runs out or you quit. Speaking over the assistant
interrupts it.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSession(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("duration", orchestration.DefaultSessionDuration, "session length")
	runCmd.Flags().Int("look-ahead", 2, "synthesized clips buffered ahead of playback")
	runCmd.Flags().String("persona-file", "", "file with system instructions replacing the built-in persona")
	runCmd.Flags().String("greeting", orchestration.DefaultGreeting, "scripted opening line (empty skips it)")
	runCmd.Flags().String("closing", orchestration.DefaultClosing, "scripted farewell (empty skips it)")
	runCmd.Flags().Bool("no-ui", false, "plain line output instead of the terminal UI")

	for flag, key := range map[string]string{
		"duration":     "duration",
		"look-ahead":   "look_ahead",
		"persona-file": "persona_file",
		"greeting":     "greeting",
		"closing":      "closing",
		"no-ui":        "no_ui",
	} {
		_ = viper.BindPFlag(key, runCmd.Flags().Lookup(flag))
	}
}

func runSession(ctx context.Context) error {
	cfg, err := loadSessionConfig()
	if err != nil {
		return err
	}

	session, err := buildSession(cfg)
	if err != nil {
		return err
	}
	defer session.close()

	if cfg.NoUI {
		return runHeadless(ctx, session)
	}
	return runUI(ctx, session)
}

// session owns the orchestrator plus the device handles it borrows.
type session struct {
	orchestrator *orchestration.Orchestrator
	cfg          sessionConfig
	cleanups     []func()
}

func (s *session) close() {
	s.orchestrator.Close()
	s.orchestrator.AwaitEnd()
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
}

// buildSession assembles the provider clients and audio devices the config
// asks for and wires them into an orchestrator.
func buildSession(cfg sessionConfig) (*session, error) {
	session := &session{cfg: cfg}

	llmClient, classifier, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	synthesizer, err := buildSynthesizer(cfg)
	if err != nil {
		return nil, err
	}

	persona, err := resolvePersona(cfg)
	if err != nil {
		return nil, err
	}

	options := []orchestration.OrchestratorOption{
		orchestration.WithStreamingLLM(llmClient),
		orchestration.WithSpeechToTextClient(deepgramstt.NewTranscriptionClient(
			deepgramstt.WithModel(cfg.STTModel),
			deepgramstt.WithLanguage(cfg.Language),
		)),
		orchestration.WithSpeechSynthesizer(synthesizer),
		orchestration.WithSessionDuration(cfg.Duration),
		orchestration.WithLookAhead(cfg.LookAhead),
		orchestration.WithPersona(persona),
		orchestration.WithGreeting(cfg.Greeting),
		orchestration.WithClosing(cfg.Closing),
	}
	if classifier != nil {
		options = append(options, orchestration.WithInterruptionClassifier(classifier))
	}

	audioOptions, cleanup, err := buildAudio(cfg, synthesizer.EncodingInfo().SampleRate)
	if err != nil {
		return nil, err
	}
	session.cleanups = append(session.cleanups, cleanup)
	options = append(options, audioOptions...)

	session.orchestrator = orchestration.NewOrchestrator(options...)
	return session, nil
}

// buildLLM returns the streaming client for the configured provider, plus an
// interruption classifier when the provider supports structured output.
func buildLLM(cfg sessionConfig) (orchestration.LLMWithStream, orchestration.InterruptionClassifier, error) {
	switch cfg.Provider {
	case "groq":
		var opts []groq.ClientOption
		if cfg.Model != "" {
			opts = append(opts, groq.WithModel(cfg.Model))
		}
		client, err := groq.NewClient(opts...)
		if err != nil {
			return nil, nil, err
		}
		return client, interruptionsllm.NewClassifier(client), nil

	case "openai":
		var opts []openai.ClientOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		client, err := openai.NewClient(opts...)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil

	case "gemini":
		var opts []gemini.ClientOption
		if cfg.Model != "" {
			opts = append(opts, gemini.WithModel(cfg.Model))
		}
		client, err := gemini.NewClient(opts...)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	}

	return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

func buildSynthesizer(cfg sessionConfig) (texttospeech.SpeechSynthesizer, error) {
	switch cfg.Synthesizer {
	case "deepgram":
		voiceOption, err := deepgramVoiceOption(cfg.Voice)
		if err != nil {
			return nil, err
		}
		return deepgramtts.NewTextToSpeechClient(voiceOption)

	case "piper":
		if cfg.PiperModel == "" {
			return nil, fmt.Errorf("the piper synthesizer needs --piper-model")
		}
		return piper.NewSynthesizer(cfg.PiperModel, piper.WithBinary(cfg.PiperBinary))
	}

	return nil, fmt.Errorf("unknown synthesizer %q", cfg.Synthesizer)
}

// buildAudio opens the configured backend. Playback follows the
// synthesizer's sample rate on miniaudio; portaudio runs both directions at
// the pipeline default rate.
func buildAudio(cfg sessionConfig, playbackRate int) ([]orchestration.OrchestratorOption, func(), error) {
	switch cfg.Backend {
	case "miniaudio":
		client, err := miniaudio.NewClient(
			miniaudio.WithPlaybackSampleRate(playbackRate),
			miniaudio.WithCaptureDevice(cfg.CaptureDevice),
			miniaudio.WithPlaybackDevice(cfg.PlaybackDevice),
		)
		if err != nil {
			return nil, nil, errors.Join(orchestration.ErrDeviceUnavailable, err)
		}
		return []orchestration.OrchestratorOption{
			orchestration.WithAudioInput(client.Capture()),
			orchestration.WithAudioOutput(client.Playback()),
		}, client.Close, nil

	case "portaudio":
		client, err := portaudio.NewClient(0)
		if err != nil {
			return nil, nil, errors.Join(orchestration.ErrDeviceUnavailable, err)
		}
		return []orchestration.OrchestratorOption{
			orchestration.WithAudioInput(client),
			orchestration.WithAudioOutput(client),
		}, client.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown audio backend %q", cfg.Backend)
}

// runHeadless prints the conversation as plain lines, for terminals where
// the UI cannot run or for piping into other tools.
func runHeadless(ctx context.Context, session *session) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := session.orchestrator.Orchestrate(ctx,
		orchestration.WithEventCallback(func(event events.Event) {
			switch e := event.(type) {
			case events.UserTranscriptFinal:
				fmt.Printf("usuario ▸ %s\n", e.Transcript)
			case events.AssistantGenerationEnded:
				fmt.Printf("asistente ▸ %s\n", e.Response)
			case events.AssistantResponseTruncated:
				fmt.Println("(respuesta interrumpida)")
			case events.SessionTimeWarning:
				fmt.Printf("(queda %s de sesión)\n", e.Remaining.Round(time.Second))
			case events.SessionEnded:
				fmt.Printf("sesión terminada: %s\n", e.Reason)
			}
		}),
		orchestration.WithErrorCallback(func(err error) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}),
	)
	if err != nil {
		return err
	}

	session.orchestrator.AwaitEnd()
	return nil
}

// runUI renders the session in a terminal UI. The orchestrator runs in the
// background and reports through bubbletea messages.
func runUI(ctx context.Context, session *session) error {
	program := tea.NewProgram(newSessionModel(session.cfg), tea.WithAltScreen())

	go func() {
		err := session.orchestrator.Orchestrate(ctx, sessionModelOptions(program)...)
		if err != nil {
			program.Send(sessionFailedMsg{err: err})
			return
		}
		session.orchestrator.AwaitEnd()
		program.Send(sessionClosedMsg{})
	}()

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run terminal ui: %w", err)
	}
	if model, ok := final.(sessionModel); ok && model.failure != nil {
		return model.failure
	}
	return nil
}
