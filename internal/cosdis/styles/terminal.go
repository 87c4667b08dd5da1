package styles

import "github.com/charmbracelet/lipgloss/v2"

// Terminal styles shared by the TUI and the opcode map.
var (
	Address  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	StepOver = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	StepOut  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	Illegal  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	Title    = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).MarginLeft(2)
	Header   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))

	Menu = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)
)
