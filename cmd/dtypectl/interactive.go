package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/dtype-runtime/dtype"
	"github.com/wippyai/dtype-runtime/registry"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	dtypeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	reg     *registry.Registry
	classes []*dtype.Class
	input   textinput.Model
	result  string
	errMsg  string
}

func newInteractiveModel(reg *registry.Registry, classes []*dtype.Class) interactiveModel {
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].Name() < classes[j].Name()
	})

	input := textinput.New()
	input.Placeholder = "int32 uint64 float16"
	input.Focus()
	input.CharLimit = 128
	input.Width = 48

	return interactiveModel{
		reg:     reg,
		classes: classes,
		input:   input,
	}
}

func (m interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.resolve()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) resolve() {
	m.result = ""
	m.errMsg = ""

	names := strings.Fields(m.input.Value())
	if len(names) == 0 {
		return
	}

	classes := make([]*dtype.Class, 0, len(names))
	for _, name := range names {
		c, err := m.reg.LookupDType(name)
		if err != nil {
			m.errMsg = err.Error()
			return
		}
		classes = append(classes, c)
	}

	result, err := m.reg.PromoteSequence(classes)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.result = fmt.Sprintf("%s -> %s", strings.Join(names, " + "), result.Name())
}

func (m interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("dtypectl"))
	b.WriteString("\n\n")

	for _, c := range m.classes {
		size := fmt.Sprintf("%d bytes", c.ItemSize())
		if c.Abstract() {
			size = "abstract"
		}
		b.WriteString("  ")
		b.WriteString(dtypeStyle.Render(fmt.Sprintf("%-14s", c.Name())))
		b.WriteString(kindStyle.Render(fmt.Sprintf("%-9s", c.Kind().String())))
		b.WriteString(size)
		b.WriteByte('\n')
	}

	b.WriteString("\nPromote: ")
	b.WriteString(m.input.View())
	b.WriteByte('\n')

	if m.result != "" {
		b.WriteString(resultStyle.Render(m.result))
		b.WriteByte('\n')
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteByte('\n')
	}

	b.WriteString(helpStyle.Render("\nenter: resolve • esc: quit"))
	b.WriteByte('\n')
	return b.String()
}

func runInteractive(reg *registry.Registry, classes []*dtype.Class) error {
	p := tea.NewProgram(newInteractiveModel(reg, classes))
	_, err := p.Run()
	return err
}
