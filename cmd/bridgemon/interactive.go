package main

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mirrorlink/bridge/instance"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	hostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	guestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	deadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const maxLogLines = 8

// payload is the throwaway instance type the console registers so that
// removals and garbage collection can be watched live.
type payload struct {
	label string
}

type consoleModel struct {
	registry   *instance.Registry
	input      textinput.Model
	log        []string
	finalizeCh chan int64
	quitting   bool
}

type finalizedMsg int64

type refreshMsg time.Time

func newConsoleModel(sweep time.Duration) *consoleModel {
	ch := make(chan int64, 64)
	r := instance.Open(instance.FinalizationListenerFunc(func(id int64) {
		select {
		case ch <- id:
		default:
		}
	}), instance.WithSweepInterval(sweep))

	ti := textinput.New()
	ti.Placeholder = "host <label> | guest <id> <label> | get <id> | remove <id> | ..."
	ti.Prompt = "> "
	ti.Width = 70
	ti.Focus()

	return &consoleModel{
		registry:   r,
		input:      ti,
		finalizeCh: ch,
	}
}

func (m *consoleModel) Init() tea.Cmd {
	return tea.Batch(m.waitForFinalize, refreshTick())
}

func (m *consoleModel) waitForFinalize() tea.Msg {
	return finalizedMsg(<-m.finalizeCh)
}

func refreshTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "quit" || line == "q" {
				return m.quit()
			}
			if line != "" {
				m.execute(line)
			}
			return m, nil
		}

	case finalizedMsg:
		m.logf(logStyle, "finalized #%d", int64(msg))
		return m, m.waitForFinalize

	case refreshMsg:
		return m, refreshTick()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.registry.Close()
	return m, tea.Quit
}

func (m *consoleModel) execute(line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "host":
		if len(args) != 1 {
			m.logf(errorStyle, "usage: host <label>")
			return
		}
		id, err := instance.AddHostCreated(m.registry, &payload{label: args[0]})
		if err != nil {
			m.logf(errorStyle, "%v", err)
			return
		}
		m.logf(logStyle, "registered %q as #%d", args[0], id)

	case "guest":
		if len(args) != 2 {
			m.logf(errorStyle, "usage: guest <id> <label>")
			return
		}
		id, ok := parseID(args[0])
		if !ok {
			m.logf(errorStyle, "bad identifier %q", args[0])
			return
		}
		if err := instance.AddGuestCreated(m.registry, &payload{label: args[1]}, id); err != nil {
			m.logf(errorStyle, "%v", err)
			return
		}
		m.logf(logStyle, "registered %q as #%d", args[1], id)

	case "get":
		id, ok := parseID(argOrEmpty(args))
		if !ok {
			m.logf(errorStyle, "usage: get <id>")
			return
		}
		obj, ok := m.registry.Get(id)
		if !ok {
			m.logf(errorStyle, "#%d not found", id)
			return
		}
		m.logf(logStyle, "#%d -> %q", id, obj.(*payload).label)

	case "remove":
		id, ok := parseID(argOrEmpty(args))
		if !ok {
			m.logf(errorStyle, "usage: remove <id>")
			return
		}
		if _, ok := m.registry.Remove(id); !ok {
			m.logf(errorStyle, "#%d has no strong reference", id)
			return
		}
		m.logf(logStyle, "removed strong reference for #%d", id)

	case "revive":
		id, ok := parseID(argOrEmpty(args))
		if !ok {
			m.logf(errorStyle, "usage: revive <id>")
			return
		}
		obj, ok := m.registry.Get(id)
		if !ok {
			m.logf(errorStyle, "#%d not found", id)
			return
		}
		if got, ok := instance.IdentifierForStrongReference(m.registry, obj.(*payload)); ok {
			m.logf(logStyle, "strong reference reinstalled for #%d", got)
		}

	case "clear":
		m.registry.Clear()
		m.logf(logStyle, "registry cleared")

	case "gc":
		runtime.GC()
		m.registry.Sweep()
		m.logf(logStyle, "forced GC and sweep, %d pending", m.registry.PendingFinalizations())

	case "help":
		m.logf(helpStyle, "host guest get remove revive clear gc quit")

	default:
		m.logf(errorStyle, "unknown command %q, try help", cmd)
	}
}

func (m *consoleModel) logf(style lipgloss.Style, format string, args ...any) {
	m.log = append(m.log, style.Render(fmt.Sprintf(format, args...)))
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m *consoleModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Bridge Monitor"))
	b.WriteString(fmt.Sprintf("  %d registered, %d pending finalization\n\n",
		m.registry.Len(), m.registry.PendingFinalizations()))

	infos := m.registry.Instances()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Identifier < infos[j].Identifier })
	if len(infos) == 0 {
		b.WriteString(deadStyle.Render("  (no instances)"))
		b.WriteString("\n")
	}
	for _, info := range infos {
		style := guestStyle
		if info.Origin.String() == "host" {
			style = hostStyle
		}
		line := fmt.Sprintf("  #%-8d %-5s strong=%-5t alive=%t",
			info.Identifier, info.Origin, info.Strong, info.Alive)
		if !info.Alive {
			style = deadStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, line := range m.log {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter run • help commands • ctrl+c quit"))

	return b.String()
}

func parseID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runInteractive(sweep time.Duration) error {
	p := tea.NewProgram(newConsoleModel(sweep), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
