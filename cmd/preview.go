package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/widgets/cli"
	"github.com/grovetools/widgets/logging"
	"github.com/grovetools/widgets/render/terminal"
	"github.com/grovetools/widgets/tui"
	"github.com/grovetools/widgets/tui/keymap"
	"github.com/grovetools/widgets/tui/theme"
	"github.com/spf13/cobra"
)

// NewPreviewCmd creates the preview command.
func NewPreviewCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Interactive terminal preview of every widget",
		Long: `Open a full-screen preview of the dashboard drawn with the terminal
renderer. Press r to fire the ready signal again and rebind every widget.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)
			cfg, err := cli.LoadConfig(cli.GetOptions(cmd))
			if err != nil {
				return err
			}

			tui.InitializeTUI()

			// Log lines would tear the alternate screen; hold them until exit.
			var held bytes.Buffer
			prev := logging.SetGlobalOutput(&held)
			defer func() {
				logging.SetGlobalOutput(prev)
				_, _ = prev.Write(held.Bytes())
			}()

			s, err := openSession(cmd.Context(), cfg, terminal.Name, width, nil, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			p := tea.NewProgram(newPreviewModel(cmd.Context(), s, cfg.Path()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Chart width in cells")
	return cmd
}

// boundMsg reports a finished ready cycle.
type boundMsg struct {
	content string
	err     error
}

type previewModel struct {
	ctx      context.Context
	session  *session
	title    string
	keys     keymap.Preview
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	binding  bool
	binds    int
	err      error
}

func newPreviewModel(ctx context.Context, s *session, title string) *previewModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.DefaultTheme.Accent))
	return &previewModel{
		ctx:      ctx,
		session:  s,
		title:    title,
		keys:     keymap.NewPreview(),
		help:     help.New(),
		spinner:  sp,
		viewport: viewport.New(80, 20),
		binding:  true,
	}
}

func (m *previewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.bind())
}

func (m *previewModel) bind() tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		err := s.Ready(ctx)
		var b strings.Builder
		for i, o := range s.Outputs() {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(theme.DefaultTheme.Title.Render(o.Mount))
			b.WriteString("\n")
			b.WriteString(string(o.Node.Payload))
			b.WriteString("\n")
		}
		return boundMsg{content: b.String(), err: err}
	}
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if m.binding {
				return m, nil
			}
			m.binding = true
			return m, tea.Batch(m.spinner.Tick, m.bind())
		}

	case boundMsg:
		m.binding = false
		m.binds++
		m.err = msg.err
		m.viewport.SetContent(msg.content)
		return m, nil

	case spinner.TickMsg:
		if !m.binding {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *previewModel) View() string {
	t := theme.DefaultTheme
	header := t.Accent.Render("widgets preview")
	if m.title != "" {
		header += " " + t.Muted.Render(m.title)
	}

	var status string
	switch {
	case m.binding:
		status = m.spinner.View() + " binding widgets..."
	case m.err != nil:
		status = t.Error.Render(fmt.Sprintf("some widgets failed (bind #%d)", m.binds))
	default:
		status = t.Muted.Render(fmt.Sprintf("bind #%d", m.binds))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header+"  "+status,
		m.viewport.View(),
		m.help.View(m.keys),
	)
}
