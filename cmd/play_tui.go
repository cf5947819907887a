package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibegpt/playground/pkg/playground"
)

const collapsedPaneWidth = 6

// chatActivityMsg signals that one of the history stores changed.
type chatActivityMsg struct{}

type playKeyMap struct {
	Send     key.Binding
	Reset    key.Binding
	Collapse key.Binding
	Quit     key.Binding
}

func newPlayKeyMap() playKeyMap {
	return playKeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "collapse baseline"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// playModel is the bubbletea model for the playground. It is strictly a
// consumer of the engine: it renders store snapshots and forwards prompts,
// all conversation state lives in the engine.
type playModel struct {
	engine *playground.Engine
	cfg    *PlaygroundConfig
	theme  uiTheme
	keys   playKeyMap

	controlPane  viewport.Model
	baselinePane viewport.Model
	input        textarea.Model
	spin         spinner.Model

	// activity carries store-change notifications into the update loop.
	activity chan struct{}

	collapsed bool
	status    string
	width     int
	height    int
	ready     bool
}

func newPlayModel(engine *playground.Engine, cfg *PlaygroundConfig) playModel {
	input := textarea.New()
	input.Placeholder = "Enter your message here"
	input.SetHeight(2)
	input.ShowLineNumbers = false
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	activity := make(chan struct{}, 1)
	notify := func(string) {
		select {
		case activity <- struct{}{}:
		default:
		}
	}
	engine.Store(playground.VariantControl).Subscribe(notify)
	engine.Store(playground.VariantBaseline).Subscribe(notify)

	return playModel{
		engine:   engine,
		cfg:      cfg,
		theme:    newTheme(),
		keys:     newPlayKeyMap(),
		input:    input,
		spin:     spin,
		activity: activity,
	}
}

func (m playModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick, waitActivity(m.activity))
}

// waitActivity blocks until a store changes, then wakes the update loop.
func waitActivity(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return chatActivityMsg{}
	}
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshPanes()
		m.ready = true
		return m, nil

	case chatActivityMsg:
		m.refreshPanes()
		return m, waitActivity(m.activity)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Send):
			m.submit()
			return m, nil

		case key.Matches(msg, m.keys.Reset):
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			m.engine.Reset(ctx)
			cancel()
			m.status = "Conversation reset."
			m.refreshPanes()
			return m, nil

		case key.Matches(msg, m.keys.Collapse):
			m.collapsed = !m.collapsed
			m.layout()
			m.refreshPanes()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.controlPane, cmd = m.controlPane.Update(msg)
	cmds = append(cmds, cmd)
	m.baselinePane, cmd = m.baselinePane.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *playModel) submit() {
	prompt := m.input.Value()
	err := m.engine.SubmitTurn(context.Background(), prompt)
	switch {
	case err == nil:
		m.input.Reset()
		m.status = ""
	case errors.Is(err, playground.ErrEmptyPrompt):
		// Nothing to send.
	case errors.Is(err, playground.ErrTurnInFlight):
		m.status = "Still streaming the previous turn."
	case errors.Is(err, playground.ErrConversationHalted):
		m.status = "Conversation halted. Press ctrl+r to reset."
	default:
		m.status = err.Error()
	}
}

// layout sizes the two panes from the window size and collapse state.
func (m *playModel) layout() {
	paneHeight := m.height - 7 // header, input, status, borders
	if paneHeight < 3 {
		paneHeight = 3
	}

	controlWidth := m.width/2 - 2
	baselineWidth := m.width - m.width/2 - 2
	if m.collapsed {
		baselineWidth = collapsedPaneWidth - 2
		controlWidth = m.width - collapsedPaneWidth - 4
	}
	if controlWidth < 10 {
		controlWidth = 10
	}
	if baselineWidth < 1 {
		baselineWidth = 1
	}

	m.controlPane = viewport.New(controlWidth, paneHeight)
	m.baselinePane = viewport.New(baselineWidth, paneHeight)
	m.input.SetWidth(m.width - 4)
}

// refreshPanes re-renders both transcripts and follows the newest output.
func (m *playModel) refreshPanes() {
	char := m.engine.Character()
	m.controlPane.SetContent(m.renderTranscript(playground.VariantControl, char))
	m.controlPane.GotoBottom()
	if !m.collapsed {
		m.baselinePane.SetContent(m.renderTranscript(playground.VariantBaseline, char))
		m.baselinePane.GotoBottom()
	}
}

func (m *playModel) renderTranscript(v playground.Variant, char playground.Character) string {
	msgs := m.engine.Store(v).Snapshot(char.ID)
	width := m.controlPane.Width
	if v == playground.VariantBaseline {
		width = m.baselinePane.Width
	}
	content := lipgloss.NewStyle().Width(width)

	var sb strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch msg.Role {
		case playground.RoleUser:
			sb.WriteString(m.theme.roleUser.Render("You"))
		case playground.RoleAssistant:
			sb.WriteString(m.theme.roleAI.Render(char.Name))
			if v == playground.VariantControl {
				if tags := renderTraitTags(m.theme, msg.Traits); tags != "" {
					sb.WriteString("\n" + tags)
				}
			}
		case playground.RoleError:
			sb.WriteString(m.theme.roleError.Render("AI"))
		case playground.RoleSystem:
			sb.WriteString(m.theme.roleSystem.Render("System"))
		}
		sb.WriteString("\n")
		sb.WriteString(content.Render(msg.Text()))
	}
	return sb.String()
}

// renderTraitTags shows the active traits with their display-clamped
// strength, e.g. "● warmth 70%  ● curiosity 50%".
func renderTraitTags(theme uiTheme, traits []playground.Trait) string {
	var tags []string
	for _, t := range playground.ActiveTraits(traits) {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("●")
		tags = append(tags, fmt.Sprintf("%s %s", dot, theme.traitTag.Render(fmt.Sprintf("%s %d%%", t.Name, t.DisplayPercent()))))
	}
	return strings.Join(tags, "  ")
}

func (m playModel) View() string {
	if !m.ready {
		return "Loading playground..."
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.header.Render("Playground"),
		m.theme.headerModel.Render(m.cfg.Model),
	)

	controlTitle := m.theme.paneTitle.Render("Experimental")
	baselineTitle := m.theme.paneTitle.Render("Normal")
	controlPane := m.theme.activePane.Render(controlTitle + "\n" + m.controlPane.View())
	var baselinePane string
	if m.collapsed {
		baselinePane = m.theme.paneBorder.Render("▶")
	} else {
		baselinePane = m.theme.paneBorder.Render(baselineTitle + "\n" + m.baselinePane.View())
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top, controlPane, baselinePane)

	status := m.statusLine()

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		panes,
		m.input.View(),
		status,
	)
}

func (m playModel) statusLine() string {
	if m.engine.InputDisabled() {
		return m.theme.statusError.Render("Conversation halted. Press ctrl+r to reset.")
	}
	if m.engine.TurnInFlight() {
		return m.theme.statusInfo.Render(m.spin.View() + "streaming…")
	}
	if m.status != "" {
		return m.theme.statusInfo.Render(m.status)
	}
	return m.theme.help.Render("enter send · ctrl+r reset · ctrl+b collapse · ctrl+c quit")
}
