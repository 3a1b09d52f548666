package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/ziclari/prueba-STT-TTS-LLM/core"
	"github.com/ziclari/prueba-STT-TTS-LLM/core/events"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A1A1A")).
			Padding(0, 1)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA"))

	clockLowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFCC00"))

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	userTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	assistantTextStyle = lipgloss.NewStyle()

	interimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCC00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

var phaseBadges = map[orchestration.Phase]struct {
	label string
	color lipgloss.Color
}{
	orchestration.PhaseIdle:         {"en espera", lipgloss.Color("#626262")},
	orchestration.PhaseListening:    {"escuchando", lipgloss.Color("#04B575")},
	orchestration.PhaseTranscribing: {"transcribiendo", lipgloss.Color("#00A5A5")},
	orchestration.PhaseGenerating:   {"generando", lipgloss.Color("#7D56F4")},
	orchestration.PhaseSpeaking:     {"hablando", lipgloss.Color("#FF8800")},
	orchestration.PhaseInterrupted:  {"interrumpida", lipgloss.Color("#FFCC00")},
	orchestration.PhaseEnding:       {"despidiéndose", lipgloss.Color("#FF4444")},
}

var emotionColors = map[string]lipgloss.Color{
	orchestration.EmotionNeutral:   lipgloss.Color("#FAFAFA"),
	orchestration.EmotionHappy:     lipgloss.Color("#04B575"),
	orchestration.EmotionAngry:     lipgloss.Color("#FF4444"),
	orchestration.EmotionSad:       lipgloss.Color("#5F87FF"),
	orchestration.EmotionSurprised: lipgloss.Color("#FFCC00"),
	"ERROR":                        lipgloss.Color("#FF4444"),
}

// Messages sent into the UI from the orchestrator's callbacks.
type (
	sessionStartedMsg    struct{ duration time.Duration }
	phaseChangedMsg      struct{ from, to orchestration.Phase }
	interimTranscriptMsg string
	finalTranscriptMsg   string
	spokenChunkMsg       string
	emotionMsg           string
	responseTruncatedMsg struct{}
	timeNoticeMsg        time.Duration
	errorNoticeMsg       string
	sessionEndedMsg      string
	sessionClosedMsg     struct{}
	sessionFailedMsg     struct{ err error }
	uiTickMsg            time.Time
)

// sessionModelOptions bridges orchestrator callbacks to bubbletea messages.
// Every callback runs on an orchestrator goroutine, so it only forwards.
func sessionModelOptions(program *tea.Program) []orchestration.OrchestrateOption {
	return []orchestration.OrchestrateOption{
		orchestration.WithPhaseChangedCallback(func(from, to orchestration.Phase) {
			program.Send(phaseChangedMsg{from: from, to: to})
		}),
		orchestration.WithInterimTranscriptionCallback(func(transcript string) {
			program.Send(interimTranscriptMsg(transcript))
		}),
		orchestration.WithTranscriptionCallback(func(transcript string) {
			program.Send(finalTranscriptMsg(transcript))
		}),
		orchestration.WithSpokenResponseCallback(func(text string) {
			program.Send(spokenChunkMsg(text))
		}),
		orchestration.WithEmotionCallback(func(emotion string) {
			program.Send(emotionMsg(emotion))
		}),
		orchestration.WithSessionEndCallback(func(reason string) {
			program.Send(sessionEndedMsg(reason))
		}),
		orchestration.WithErrorCallback(func(err error) {
			program.Send(errorNoticeMsg(err.Error()))
		}),
		orchestration.WithEventCallback(func(event events.Event) {
			switch e := event.(type) {
			case events.SessionStarted:
				program.Send(sessionStartedMsg{duration: e.Duration})
			case events.SessionTimeWarning:
				program.Send(timeNoticeMsg(e.Remaining))
			case events.SessionWrappingUp:
				program.Send(timeNoticeMsg(e.Remaining))
			case events.AssistantResponseTruncated:
				program.Send(responseTruncatedMsg{})
			}
		}),
	}
}

type speaker int

const (
	speakerUser speaker = iota
	speakerAssistant
)

type transcriptLine struct {
	speaker speaker
	text    string
	emotion string
}

// sessionModel renders one session: a phase badge and countdown on top, the
// rolling transcript in the middle and session notices at the bottom.
type sessionModel struct {
	cfg sessionConfig

	spinner    spinner.Model
	transcript viewport.Model
	ready      bool

	width  int
	height int

	phase    orchestration.Phase
	deadline time.Time

	lines   []transcriptLine
	pending transcriptLine
	interim string
	emotion string

	notice    string
	noticeErr bool

	endReason string
	failure   error
}

// chromeLines is how many rows the header and footer take away from the
// transcript viewport.
const chromeLines = 3

func newSessionModel(cfg sessionConfig) sessionModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return sessionModel{
		cfg:     cfg,
		spinner: s,
		phase:   orchestration.PhaseIdle,
		emotion: orchestration.EmotionNeutral,
	}
}

func (m sessionModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, uiTick())
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.transcript = viewport.New(msg.Width, max(msg.Height-chromeLines, 1))
			m.ready = true
		} else {
			m.transcript.Width = msg.Width
			m.transcript.Height = max(msg.Height-chromeLines, 1)
		}
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case uiTickMsg:
		return m, uiTick()

	case sessionStartedMsg:
		m.deadline = time.Now().Add(msg.duration)
		return m, nil

	case phaseChangedMsg:
		m.phase = msg.to
		switch msg.to {
		case orchestration.PhaseListening, orchestration.PhaseTranscribing, orchestration.PhaseEnding:
			m.flushPending()
			m.refreshTranscript()
		}
		return m, nil

	case interimTranscriptMsg:
		m.interim = string(msg)
		m.refreshTranscript()
		return m, nil

	case finalTranscriptMsg:
		m.flushPending()
		m.interim = ""
		m.lines = append(m.lines, transcriptLine{speaker: speakerUser, text: string(msg)})
		m.refreshTranscript()
		return m, nil

	case spokenChunkMsg:
		if m.pending.text != "" {
			m.pending.text += " "
		}
		m.pending.speaker = speakerAssistant
		m.pending.text += string(msg)
		m.pending.emotion = m.emotion
		m.refreshTranscript()
		return m, nil

	case emotionMsg:
		m.emotion = string(msg)
		return m, nil

	case responseTruncatedMsg:
		if m.pending.text != "" {
			m.pending.text += "…"
			m.flushPending()
			m.refreshTranscript()
		}
		return m, nil

	case timeNoticeMsg:
		m.notice = fmt.Sprintf("queda %s de sesión", time.Duration(msg).Round(time.Second))
		m.noticeErr = false
		return m, nil

	case errorNoticeMsg:
		m.notice = string(msg)
		m.noticeErr = true
		return m, nil

	case sessionEndedMsg:
		m.endReason = string(msg)
		return m, nil

	case sessionClosedMsg:
		m.flushPending()
		m.refreshTranscript()
		return m, tea.Quit

	case sessionFailedMsg:
		m.failure = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m sessionModel) View() string {
	if !m.ready {
		return "\n  preparando la sesión…"
	}

	return m.renderHeader() + "\n\n" + m.transcript.View() + "\n" + m.renderFooter()
}

func (m sessionModel) renderHeader() string {
	parts := []string{
		titleStyle.Render("dialogo"),
		phaseBadge(m.phase),
		m.renderClock(),
	}

	if m.phase == orchestration.PhaseGenerating {
		parts = append(parts, m.spinner.View()+" generando respuesta")
	}

	return strings.Join(parts, "  ")
}

func (m sessionModel) renderClock() string {
	remaining := m.remaining()
	clock := formatClock(remaining)
	if remaining <= 30*time.Second {
		return clockLowStyle.Render(clock)
	}
	return clockStyle.Render(clock)
}

func (m sessionModel) remaining() time.Duration {
	if m.deadline.IsZero() {
		return m.cfg.Duration
	}
	remaining := time.Until(m.deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (m sessionModel) renderFooter() string {
	help := helpStyle.Render("q para salir · habla encima de la asistente para interrumpirla")

	var status string
	switch {
	case m.failure != nil:
		status = errorStyle.Render(m.failure.Error())
	case m.endReason != "":
		status = statusStyle.Render("sesión terminada: " + m.endReason)
	case m.noticeErr:
		status = errorStyle.Render(m.notice)
	case m.notice != "":
		status = noticeStyle.Render(m.notice)
	}

	if status == "" {
		return help
	}
	return status + "  " + help
}

func (m *sessionModel) flushPending() {
	if m.pending.text == "" {
		return
	}
	m.lines = append(m.lines, m.pending)
	m.pending = transcriptLine{}
}

// refreshTranscript rebuilds the viewport content and keeps it pinned to the
// latest line.
func (m *sessionModel) refreshTranscript() {
	if !m.ready {
		return
	}

	paragraphs := make([]string, 0, len(m.lines)+2)
	for _, line := range m.lines {
		paragraphs = append(paragraphs, renderLine(line))
	}
	if m.pending.text != "" {
		paragraphs = append(paragraphs, renderLine(m.pending))
	}
	if m.interim != "" {
		paragraphs = append(paragraphs, interimStyle.Render("… "+m.interim))
	}

	content := strings.Join(paragraphs, "\n")
	m.transcript.SetContent(wordwrap.String(content, m.transcript.Width))
	m.transcript.GotoBottom()
}

func renderLine(line transcriptLine) string {
	switch line.speaker {
	case speakerUser:
		return speakerStyle.Render("usuario ▸ ") + userTextStyle.Render(line.text)
	case speakerAssistant:
		text := assistantTextStyle
		if color, ok := emotionColors[line.emotion]; ok {
			text = text.Foreground(color)
		}
		return speakerStyle.Render("asistente ▸ ") + text.Render(line.text)
	}
	return line.text
}

func phaseBadge(phase orchestration.Phase) string {
	badge, ok := phaseBadges[phase]
	if !ok {
		badge.label, badge.color = string(phase), lipgloss.Color("#626262")
	}
	return badgeStyle.Background(badge.color).Render(strings.ToUpper(badge.label))
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := d / time.Minute
	seconds := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func uiTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return uiTickMsg(t)
	})
}
