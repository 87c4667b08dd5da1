package cmd

import (
	"fmt"
	"io"
	"os"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"

	"cosdis/internal/analysis"
	"cosdis/internal/cosdis/styles"
	"cosdis/internal/cosmac"
	"cosdis/internal/romx"
	"cosdis/internal/ui/colorize"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewFlow
	viewInfo
)

// flowItem is a call or return in the flow-point list.
type flowItem struct {
	line int // index into the listing
	inst analysis.AnnotatedInst
}

func (i flowItem) Title() string {
	return fmt.Sprintf("%04X  %s", i.inst.Addr, i.inst.Text)
}

func (i flowItem) FilterValue() string {
	return fmt.Sprintf("%04X %s %s", i.inst.Addr, i.inst.Text, i.inst.Flow)
}

func (i flowItem) Description() string { return "" }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(flowItem)
	if !ok {
		return
	}

	indicator := " "
	addrStyle := styles.Address
	if index == m.Index() {
		indicator = ">"
		addrStyle = styles.Selected
	}

	textStyle := styles.StepOut
	if i.inst.Flow == cosmac.FlowStepOver {
		textStyle = styles.StepOver
	}

	note := ""
	if len(i.inst.Annotations) > 0 {
		note = styles.Address.Render("  ; " + strings.Join(i.inst.Annotations, ", "))
	}

	fmt.Fprintf(w, " %s  %s  %s%s",
		indicator,
		addrStyle.Render(fmt.Sprintf("%04X", i.inst.Addr)),
		textStyle.Render(i.inst.Text),
		note)
}

type model struct {
	listing  viewport.Model
	flowList list.Model
	info     viewport.Model
	spinner  spinner.Model
	mode     viewMode
	path     string
	settings settings
	image    *romx.Image
	lines    []analysis.AnnotatedInst
	summary  analysis.Summary
	loadErr  error
	loading  bool
	width    int
	height   int
}

type listingMsg struct {
	image   *romx.Image
	lines   []analysis.AnnotatedInst
	summary analysis.Summary
	err     error
}

func loadListingCmd(path string, s settings) tea.Cmd {
	return func() tea.Msg {
		im, err := loadImage(path, s)
		if err != nil {
			return listingMsg{err: err}
		}
		stream, lines := disassemble(im, s)
		return listingMsg{image: im, lines: lines, summary: analysis.Summarize(stream)}
	}
}

func NewModel(path string, s settings) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	flowList := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	flowList.SetShowStatusBar(false)
	flowList.SetFilteringEnabled(true)
	flowList.Title = "Flow points"
	flowList.Styles.Title = styles.Title
	flowList.SetShowHelp(true)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Selected

	ivp := viewport.New()
	ivp.SetWidth(80)
	ivp.SetHeight(24)

	m := model{
		listing:  vp,
		flowList: flowList,
		info:     ivp,
		spinner:  sp,
		mode:     viewListing,
		path:     path,
		settings: s,
		loading:  true,
		width:    80,
		height:   24,
	}
	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		loadListingCmd(m.path, m.settings),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case listingMsg:
		m.loading = false
		m.loadErr = msg.err
		m.image = msg.image
		m.lines = msg.lines
		m.summary = msg.summary
		m.updateFlowList()
		m.updateContent()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateContent()
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.listing.SetWidth(msg.Width)
			m.listing.SetHeight(msg.Height - 2)
			m.flowList.SetWidth(msg.Width)
			m.flowList.SetHeight(msg.Height - 2)
			m.info.SetWidth(msg.Width)
			m.info.SetHeight(msg.Height - 2)
			m.updateContent()
		}

	case tea.KeyMsg:
		if m.mode == viewFlow && m.flowList.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			m.mode = viewListing
			return m, nil
		case "f":
			if len(m.flowList.Items()) > 0 {
				m.mode = viewFlow
			}
			return m, nil
		case "i":
			m.mode = viewInfo
			return m, nil
		case "enter":
			if m.mode == viewFlow {
				if item, ok := m.flowList.SelectedItem().(flowItem); ok {
					m.mode = viewListing
					m.listing.SetYOffset(item.line)
				}
				return m, nil
			}
		case "tab":
			m.mode = m.nextMode(1)
			return m, nil
		case "shift+tab":
			m.mode = m.nextMode(-1)
			return m, nil
		}
	}

	switch m.mode {
	case viewFlow:
		m.flowList, cmd = m.flowList.Update(msg)
	case viewInfo:
		m.info, cmd = m.info.Update(msg)
	default:
		m.listing, cmd = m.listing.Update(msg)
	}
	return m, cmd
}

// nextMode cycles through the views, skipping the flow list when the
// listing has no calls or returns.
func (m model) nextMode(step int) viewMode {
	mode := m.mode
	for range 3 {
		mode = viewMode((int(mode) + step + 3) % 3)
		if mode != viewFlow || len(m.flowList.Items()) > 0 {
			return mode
		}
	}
	return m.mode
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewFlow:
		content = m.flowList.View()
	case viewInfo:
		content = m.info.View()
	default:
		content = m.listing.View()
	}

	var menu string
	switch m.mode {
	case viewFlow:
		menu = " Enter: go to line • L: listing • I: info • Tab: cycle • Q: quit "
	case viewInfo:
		menu = " L: listing • F: flow points • Tab: cycle • Q: quit "
	default:
		if len(m.flowList.Items()) > 0 {
			menu = " F: flow points • I: info • Tab: cycle • Q: quit "
		} else {
			menu = " I: info • Q: quit "
		}
	}

	return content + "\n" + styles.Menu.Width(m.width).Render(menu)
}

func (m *model) updateFlowList() {
	items := make([]list.Item, 0)
	for idx, in := range m.lines {
		if in.Flow == cosmac.FlowNone {
			continue
		}
		items = append(items, flowItem{line: idx, inst: in})
	}
	m.flowList.SetItems(items)
	m.flowList.Title = fmt.Sprintf("Flow points (%d calls, %d returns)", m.summary.Calls, m.summary.Returns)
}

func (m *model) updateContent() {
	width := m.width
	if width == 0 {
		width = 80
	}

	m.info.SetContent(strings.TrimSuffix(styles.RenderMarkdown(m.infoMarkdown(), width-2), "\n"))

	switch {
	case m.loading:
		m.listing.SetContent(fmt.Sprintf("\n  %s Disassembling %s...", m.spinner.View(), pathpkg.Base(m.path)))
	case m.loadErr != nil:
		m.listing.SetContent("\n  " + styles.Illegal.Render(m.loadErr.Error()))
	default:
		m.listing.SetContent(m.renderListing())
	}
}

func (m *model) renderListing() string {
	color := !colorize.Disabled()
	out := make([]string, 0, len(m.lines))
	for _, in := range m.lines {
		line := in.String()
		if color {
			line = colorize.ColorizeInstructionLine(line)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func (m *model) infoMarkdown() string {
	relPath := m.path
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := pathpkg.Rel(cwd, m.path); err == nil {
			relPath = rel
		}
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("; %s", relPath))
	lines = append(lines, fmt.Sprintf("; %s, start %04X", m.settings.variant, m.settings.start))
	if m.image != nil {
		lines = append(lines,
			fmt.Sprintf("; %d bytes at %04X-%04X", len(m.image.Data), m.image.Base, m.image.End()-1),
			fmt.Sprintf("; sha256 %s", m.image.Digest()))
	}

	md := fmt.Sprintf("# Cosdis\n\n```nasm\n%s\n```", strings.Join(lines, "\n"))

	if m.loading {
		return md + fmt.Sprintf("\n\n%s Disassembling...", m.spinner.View())
	}
	if m.loadErr != nil {
		return md + fmt.Sprintf("\n\n**Error:** %s", m.loadErr)
	}

	md += "\n\n## Summary\n\n"
	md += "| | |\n|---|---|\n"
	md += fmt.Sprintf("| Instructions | %d |\n", m.summary.Instructions)
	md += fmt.Sprintf("| Bytes | %d |\n", m.summary.Bytes)
	md += fmt.Sprintf("| Calls (SEP) | %d |\n", m.summary.Calls)
	md += fmt.Sprintf("| Returns (RET/DIS) | %d |\n", m.summary.Returns)
	md += fmt.Sprintf("| Illegal | %d |\n", m.summary.Illegal)
	return md
}
