package present

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Width of the halt notice box, matching the classic 41-column frame.
const boxWidth = 41

var (
	failureRed = lipgloss.Color("#e53935")

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(failureRed).
			Foreground(failureRed).
			Bold(true).
			Width(boxWidth).
			Padding(1, 0).
			Align(lipgloss.Center)

	hintStyle = lipgloss.NewStyle().
			Faint(true).
			Align(lipgloss.Center)
)

// TTY presents the halt notice as a centered red box on an alt-screen
// terminal and blocks until the user presses Esc.
type TTY struct{}

// NewTTY returns the interactive presenter.
func NewTTY() *TTY {
	return &TTY{}
}

func (t *TTY) Present(message string) error {
	p := tea.NewProgram(newHaltModel(message), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type haltModel struct {
	message string
	width   int
	height  int
}

func newHaltModel(message string) haltModel {
	return haltModel{message: message}
}

func (m haltModel) Init() tea.Cmd {
	return nil
}

func (m haltModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m haltModel) View() string {
	notice := boxStyle.Render(Banner+"\n\n"+m.message) + "\n" +
		hintStyle.Width(boxWidth).Render("press esc to exit")
	if m.width == 0 || m.height == 0 {
		return notice
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, notice)
}
